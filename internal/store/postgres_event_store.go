// internal/store/postgres_event_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresEventStore реализует EventStore для PostgreSQL. События только добавляются.
type PostgresEventStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresEventStore) Add(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (ts, user_id, event_type, operation, entity_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING event_id`
	if err := s.db.QueryRowxContext(ctx, query, e.Timestamp, e.UserID, e.EventType, e.Operation, e.EntityID).Scan(&e.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert event", slog.Int64("userID", e.UserID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to add event: %w", err)
	}
	return nil
}

// Feed события пользователя и тех, на кого указывают его исходящие рёбра дружбы.
func (s *PostgresEventStore) Feed(ctx context.Context, userID int64) ([]*domain.Event, error) {
	query := `SELECT event_id AS id, ts, user_id, event_type, operation, entity_id
  FROM events
 WHERE user_id = $1
    OR user_id IN (SELECT friend_id FROM friendships WHERE user_id = $1)
 ORDER BY ts ASC, event_id ASC`
	events := []*domain.Event{}
	if err := s.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return events, nil
}
