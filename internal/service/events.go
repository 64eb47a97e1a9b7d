package service

import (
	"context"
	"log/slog"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/metrics"
	"filmorate/internal/store"
)

// EventSink принимает события ленты. Запись не должна влиять на исход операции.
type EventSink interface {
	Record(ctx context.Context, userID int64, eventType domain.EventType, op domain.EventOperation, entityID int64)
}

// EventRecorder пишет события в EventStore.
type EventRecorder struct {
	events store.EventStore
	logger *slog.Logger
	now    func() time.Time
}

func NewEventRecorder(events store.EventStore, logger *slog.Logger) *EventRecorder {
	return &EventRecorder{events: events, logger: logger, now: time.Now}
}

func (r *EventRecorder) Record(ctx context.Context, userID int64, eventType domain.EventType, op domain.EventOperation, entityID int64) {
	e := &domain.Event{
		Timestamp: r.now().UnixMilli(),
		UserID:    userID,
		EventType: eventType,
		Operation: op,
		EntityID:  entityID,
	}
	err := r.events.Add(ctx, e)
	metrics.RecordEvent(string(eventType), string(op), err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to record feed event",
			slog.Int64("userID", userID),
			slog.String("eventType", string(eventType)),
			slog.String("operation", string(op)),
			slog.String("error", err.Error()))
	}
}

// FeedService лента активности.
type FeedService struct {
	gate   *Gate
	events store.EventStore
	logger *slog.Logger
}

// Feed возвращает события пользователя и его друзей по возрастанию времени.
func (s *FeedService) Feed(ctx context.Context, userID int64) ([]*domain.Event, error) {
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	events, err := s.events.Feed(ctx, userID)
	if err != nil {
		return nil, internal(err, "failed to load feed for user %d", userID)
	}
	return events, nil
}
