// internal/store/postgres_friendship_store.go
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

// PostgresFriendshipStore реализует FriendshipStore для PostgreSQL.
type PostgresFriendshipStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Save вставляет ребро или перезаписывает его статус (upsert по первичному ключу).
func (s *PostgresFriendshipStore) Save(ctx context.Context, f *domain.Friendship) error {
	query := `INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, $3)
              ON CONFLICT (user_id, friend_id) DO UPDATE SET status = EXCLUDED.status`
	if _, err := s.db.ExecContext(ctx, query, f.UserID, f.FriendID, f.Status); err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: %s", ErrReferenceNotFound, err.Error())
		}
		s.logger.ErrorContext(ctx, "Failed to save friendship", slog.Int64("userID", f.UserID), slog.Int64("friendID", f.FriendID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to save friendship: %w", err)
	}
	return nil
}

func (s *PostgresFriendshipStore) Get(ctx context.Context, userID, friendID int64) (*domain.Friendship, error) {
	var f domain.Friendship
	query := `SELECT user_id, friend_id, status FROM friendships WHERE user_id = $1 AND friend_id = $2`
	if err := s.db.GetContext(ctx, &f, query, userID, friendID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return &f, nil
}

func (s *PostgresFriendshipStore) Delete(ctx context.Context, userID, friendID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to delete friendship: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// Friends возвращает всех пользователей, на которых указывают исходящие рёбра, независимо от статуса.
func (s *PostgresFriendshipStore) Friends(ctx context.Context, userID int64) ([]*domain.Friend, error) {
	query := `SELECT u.user_id AS id, u.email, u.login, u.name, u.birthday, f.status
  FROM friendships f JOIN users u ON u.user_id = f.friend_id
 WHERE f.user_id = $1
 ORDER BY u.user_id`
	friends := []*domain.Friend{}
	if err := s.db.SelectContext(ctx, &friends, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list friends", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

func (s *PostgresFriendshipStore) CommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	query := userSelect + `
 WHERE u.user_id IN (SELECT friend_id FROM friendships WHERE user_id = $1)
   AND u.user_id IN (SELECT friend_id FROM friendships WHERE user_id = $2)
 ORDER BY u.user_id`
	users := []*domain.User{}
	if err := s.db.SelectContext(ctx, &users, query, userID, otherID); err != nil {
		return nil, fmt.Errorf("failed to list common friends: %w", err)
	}
	return users, nil
}
