// internal/store/postgres_like_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// PostgresLikeStore реализует LikeStore для PostgreSQL.
type PostgresLikeStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Add вставляет лайк только если его ещё нет. Гонка двух одинаковых запросов
// заканчивается ErrLikeAlreadyExists для проигравшего.
func (s *PostgresLikeStore) Add(ctx context.Context, filmID, userID int64) error {
	query := `INSERT INTO likes (film_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	res, err := s.db.ExecContext(ctx, query, filmID, userID)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: %s", ErrReferenceNotFound, err.Error())
		}
		s.logger.ErrorContext(ctx, "Failed to add like", slog.Int64("filmID", filmID), slog.Int64("userID", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to add like: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLikeAlreadyExists
	}
	return nil
}

func (s *PostgresLikeStore) Remove(ctx context.Context, filmID, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (s *PostgresLikeStore) UserIDsByFilm(ctx context.Context, filmID int64) ([]int64, error) {
	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM likes WHERE film_id = $1 ORDER BY user_id`, filmID); err != nil {
		return nil, fmt.Errorf("failed to list likes by film: %w", err)
	}
	return ids, nil
}

func (s *PostgresLikeStore) FilmIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id`, userID); err != nil {
		return nil, fmt.Errorf("failed to list likes by user: %w", err)
	}
	return ids, nil
}

func (s *PostgresLikeStore) LikesByUser(ctx context.Context) (map[int64][]int64, error) {
	var rows []likeRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT film_id, user_id FROM likes ORDER BY user_id, film_id`); err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	result := make(map[int64][]int64)
	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.FilmID)
	}
	return result, nil
}
