// internal/store/postgres_reference_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresGenreStore справочник жанров, только чтение.
type PostgresGenreStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresGenreStore) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	var g domain.Genre
	if err := s.db.GetContext(ctx, &g, `SELECT genre_id AS id, name FROM genres WHERE genre_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return &g, nil
}

func (s *PostgresGenreStore) List(ctx context.Context) ([]*domain.Genre, error) {
	genres := []*domain.Genre{}
	if err := s.db.SelectContext(ctx, &genres, `SELECT genre_id AS id, name FROM genres ORDER BY genre_id`); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (s *PostgresGenreStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM genres WHERE genre_id = $1)`, id)
}

// PostgresMpaStore справочник рейтингов MPA, только чтение.
type PostgresMpaStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresMpaStore) GetByID(ctx context.Context, id int64) (*domain.Mpa, error) {
	var m domain.Mpa
	if err := s.db.GetContext(ctx, &m, `SELECT mpa_id AS id, name FROM mpa_ratings WHERE mpa_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMpaNotFound
		}
		return nil, fmt.Errorf("failed to get mpa rating: %w", err)
	}
	return &m, nil
}

func (s *PostgresMpaStore) List(ctx context.Context) ([]*domain.Mpa, error) {
	ratings := []*domain.Mpa{}
	if err := s.db.SelectContext(ctx, &ratings, `SELECT mpa_id AS id, name FROM mpa_ratings ORDER BY mpa_id`); err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	return ratings, nil
}

func (s *PostgresMpaStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM mpa_ratings WHERE mpa_id = $1)`, id)
}
