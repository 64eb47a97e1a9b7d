// internal/store/postgres_film_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const filmSelect = `SELECT f.film_id AS id, f.name, f.description, f.release_date, f.duration,
       m.mpa_id AS "mpa.id", m.name AS "mpa.name"
  FROM films f
  JOIN mpa_ratings m ON m.mpa_id = f.mpa_id`

// PostgresFilmStore реализует FilmStore для PostgreSQL.
type PostgresFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Create вставляет фильм и его связи одной транзакцией.
func (s *PostgresFilmStore) Create(ctx context.Context, film *domain.Film) error {
	s.logger.DebugContext(ctx, "Executing Create film query", slog.String("name", film.Name))
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO films (name, description, release_date, duration, mpa_id)
                  VALUES ($1, $2, $3, $4, $5) RETURNING film_id`
		if err := tx.QueryRowxContext(ctx, query,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID,
		).Scan(&film.ID); err != nil {
			return mapFilmWriteError(err)
		}
		return replaceFilmLinks(ctx, tx, film)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("error", err.Error()))
		return err
	}
	s.logger.InfoContext(ctx, "Film created successfully in DB", slog.Int64("filmID", film.ID))
	return nil
}

// Update заменяет строку фильма, жанры и режиссёров. Если любой шаг завершился ошибкой,
// изменения откатываются целиком.
func (s *PostgresFilmStore) Update(ctx context.Context, film *domain.Film) error {
	s.logger.DebugContext(ctx, "Executing Update film query", slog.Int64("filmID", film.ID))
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
                  WHERE film_id = $6`
		res, err := tx.ExecContext(ctx, query,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
		if err != nil {
			return mapFilmWriteError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrFilmNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
			return fmt.Errorf("failed to clear film genres: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM film_directors WHERE film_id = $1`, film.ID); err != nil {
			return fmt.Errorf("failed to clear film directors: %w", err)
		}
		return replaceFilmLinks(ctx, tx, film)
	})
	if err != nil {
		if errors.Is(err, ErrFilmNotFound) {
			s.logger.WarnContext(ctx, "Film not found for update", slog.Int64("filmID", film.ID))
		} else {
			s.logger.ErrorContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		}
		return err
	}
	return nil
}

func replaceFilmLinks(ctx context.Context, tx *sqlx.Tx, film *domain.Film) error {
	if ids := film.GenreIDs(); len(ids) > 0 {
		query := `INSERT INTO film_genres (film_id, genre_id)
                  SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, film.ID, pq.Array(ids)); err != nil {
			return mapFilmWriteError(err)
		}
	}
	if ids := film.DirectorIDs(); len(ids) > 0 {
		query := `INSERT INTO film_directors (film_id, director_id)
                  SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, query, film.ID, pq.Array(ids)); err != nil {
			return mapFilmWriteError(err)
		}
	}
	return nil
}

func mapFilmWriteError(err error) error {
	if pqCode(err) == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, err.Error())
	}
	return fmt.Errorf("failed to write film: %w", err)
}

func (s *PostgresFilmStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM films WHERE film_id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete film", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete film: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFilmNotFound
	}
	s.logger.InfoContext(ctx, "Film deleted from DB", slog.Int64("filmID", id))
	return nil
}

// GetByID находит фильм по его ID.
func (s *PostgresFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	var film domain.Film
	err := s.db.GetContext(ctx, &film, filmSelect+` WHERE f.film_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", id))
			return nil, ErrFilmNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get film by ID from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	films := []*domain.Film{&film}
	if err := hydrateFilms(ctx, s.db, films); err != nil {
		return nil, err
	}
	return &film, nil
}

func (s *PostgresFilmStore) List(ctx context.Context) ([]*domain.Film, error) {
	return s.selectFilms(ctx, filmSelect+` ORDER BY f.film_id`)
}

func (s *PostgresFilmStore) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Film, error) {
	if len(ids) == 0 {
		return []*domain.Film{}, nil
	}
	return s.selectFilms(ctx, filmSelect+` WHERE f.film_id = ANY($1) ORDER BY f.film_id`, pq.Array(ids))
}

func (s *PostgresFilmStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM films WHERE film_id = $1)`, id)
}

// Popular возвращает самые популярные фильмы с необязательными фильтрами по жанру и году.
func (s *PostgresFilmStore) Popular(ctx context.Context, params domain.PopularParams) ([]*domain.Film, error) {
	var args []interface{}
	var conditions []string
	argID := 1

	if params.GenreID != 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = f.film_id AND fg.genre_id = $%d)", argID))
		args = append(args, params.GenreID)
		argID++
	}
	if params.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM f.release_date) = $%d", argID))
		args = append(args, params.Year)
		argID++
	}

	query := filmSelect + ` LEFT JOIN likes l ON l.film_id = f.film_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(` GROUP BY f.film_id, m.mpa_id
 ORDER BY COUNT(l.user_id) DESC, f.film_id ASC
 LIMIT $%d`, argID)
	args = append(args, params.Count)

	s.logger.DebugContext(ctx, "Executing Popular films query", slog.String("query", query), slog.Any("args", args))
	return s.selectFilms(ctx, query, args...)
}

func (s *PostgresFilmStore) Common(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	query := filmSelect + `
  LEFT JOIN likes l ON l.film_id = f.film_id
 WHERE EXISTS (SELECT 1 FROM likes a WHERE a.film_id = f.film_id AND a.user_id = $1)
   AND EXISTS (SELECT 1 FROM likes b WHERE b.film_id = f.film_id AND b.user_id = $2)
 GROUP BY f.film_id, m.mpa_id
 ORDER BY COUNT(l.user_id) DESC, f.film_id ASC`
	return s.selectFilms(ctx, query, userID, friendID)
}

func (s *PostgresFilmStore) ByDirector(ctx context.Context, directorID int64, sortBy domain.DirectorSort) ([]*domain.Film, error) {
	var query string
	switch sortBy {
	case domain.SortByLikes:
		query = filmSelect + `
  JOIN film_directors fd ON fd.film_id = f.film_id
  LEFT JOIN likes l ON l.film_id = f.film_id
 WHERE fd.director_id = $1
 GROUP BY f.film_id, m.mpa_id
 ORDER BY COUNT(l.user_id) DESC, f.film_id ASC`
	default:
		query = filmSelect + `
  JOIN film_directors fd ON fd.film_id = f.film_id
 WHERE fd.director_id = $1
 ORDER BY f.release_date ASC, f.film_id ASC`
	}
	return s.selectFilms(ctx, query, directorID)
}

func (s *PostgresFilmStore) selectFilms(ctx context.Context, query string, args ...interface{}) ([]*domain.Film, error) {
	films := []*domain.Film{}
	if err := s.db.SelectContext(ctx, &films, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to select films", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to select films: %w", err)
	}
	if err := hydrateFilms(ctx, s.db, films); err != nil {
		return nil, err
	}
	return films, nil
}

type filmGenreRow struct {
	FilmID int64 `db:"film_id"`
	domain.Genre
}

type filmDirectorRow struct {
	FilmID int64 `db:"film_id"`
	domain.Director
}

type likeRow struct {
	FilmID int64 `db:"film_id"`
	UserID int64 `db:"user_id"`
}

// hydrateFilms подгружает жанры, режиссёров и лайки для всех фильмов тремя запросами.
func hydrateFilms(ctx context.Context, q sqlx.QueryerContext, films []*domain.Film) error {
	if len(films) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(films))
	byID := make(map[int64]*domain.Film, len(films))
	for _, f := range films {
		f.Genres = []domain.Genre{}
		f.Directors = []domain.Director{}
		f.Likes = []int64{}
		ids = append(ids, f.ID)
		byID[f.ID] = f
	}

	var genres []filmGenreRow
	if err := sqlx.SelectContext(ctx, q, &genres, `SELECT fg.film_id, g.genre_id AS id, g.name
  FROM film_genres fg JOIN genres g ON g.genre_id = fg.genre_id
 WHERE fg.film_id = ANY($1) ORDER BY fg.film_id, g.genre_id`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load film genres: %w", err)
	}
	for _, row := range genres {
		byID[row.FilmID].Genres = append(byID[row.FilmID].Genres, row.Genre)
	}

	var directors []filmDirectorRow
	if err := sqlx.SelectContext(ctx, q, &directors, `SELECT fd.film_id, d.director_id AS id, d.name
  FROM film_directors fd JOIN directors d ON d.director_id = fd.director_id
 WHERE fd.film_id = ANY($1) ORDER BY fd.film_id, d.director_id`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load film directors: %w", err)
	}
	for _, row := range directors {
		byID[row.FilmID].Directors = append(byID[row.FilmID].Directors, row.Director)
	}

	var likes []likeRow
	if err := sqlx.SelectContext(ctx, q, &likes, `SELECT film_id, user_id FROM likes
 WHERE film_id = ANY($1) ORDER BY film_id, user_id`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load film likes: %w", err)
	}
	for _, row := range likes {
		byID[row.FilmID].Likes = append(byID[row.FilmID].Likes, row.UserID)
	}
	return nil
}
