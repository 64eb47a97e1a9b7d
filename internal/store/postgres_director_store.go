// internal/store/postgres_director_store.go
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

// PostgresDirectorStore реализует DirectorStore для PostgreSQL.
type PostgresDirectorStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresDirectorStore) Create(ctx context.Context, d *domain.Director) error {
	if err := s.db.QueryRowxContext(ctx, `INSERT INTO directors (name) VALUES ($1) RETURNING director_id`, d.Name).Scan(&d.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create director", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create director: %w", err)
	}
	return nil
}

func (s *PostgresDirectorStore) Update(ctx context.Context, d *domain.Director) error {
	res, err := s.db.ExecContext(ctx, `UPDATE directors SET name = $1 WHERE director_id = $2`, d.Name, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update director: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

// Delete удаляет режиссёра; связи с фильмами удаляются каскадно.
func (s *PostgresDirectorStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM directors WHERE director_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete director: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

func (s *PostgresDirectorStore) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	var d domain.Director
	if err := s.db.GetContext(ctx, &d, `SELECT director_id AS id, name FROM directors WHERE director_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, fmt.Errorf("failed to get director: %w", err)
	}
	return &d, nil
}

func (s *PostgresDirectorStore) List(ctx context.Context) ([]*domain.Director, error) {
	directors := []*domain.Director{}
	if err := s.db.SelectContext(ctx, &directors, `SELECT director_id AS id, name FROM directors ORDER BY director_id`); err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

func (s *PostgresDirectorStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM directors WHERE director_id = $1)`, id)
}
