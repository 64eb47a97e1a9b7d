package service

import (
	"context"
	"errors"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// FriendshipService направленные связи дружбы со статусом.
type FriendshipService struct {
	gate        *Gate
	friendships store.FriendshipStore
	events      EventSink
	logger      *slog.Logger
}

func (s *FriendshipService) requirePair(ctx context.Context, userID, friendID int64) error {
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return err
	}
	return s.gate.RequireUser(ctx, friendID)
}

// AddFriend создаёт ребро userID -> friendID со статусом PENDING.
// Повторный вызов перезаписывает статус существующего ребра.
func (s *FriendshipService) AddFriend(ctx context.Context, userID, friendID int64) (*domain.Friendship, error) {
	if err := s.requirePair(ctx, userID, friendID); err != nil {
		return nil, err
	}
	if userID == friendID {
		return nil, validation("user %d cannot befriend themselves", userID)
	}
	f := &domain.Friendship{UserID: userID, FriendID: friendID, Status: domain.FriendshipPending}
	if err := s.friendships.Save(ctx, f); err != nil {
		if errors.Is(err, store.ErrReferenceNotFound) {
			return nil, notFound("user %d or %d no longer exists", userID, friendID)
		}
		return nil, internal(err, "failed to add friend %d for user %d", friendID, userID)
	}
	s.events.Record(ctx, userID, domain.EventFriend, domain.OperationAdd, friendID)
	s.logger.InfoContext(ctx, "Friend added", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	return f, nil
}

// RemoveFriend удаляет ребро. Отсутствие ребра не ошибка, событие пишется только при удалении.
func (s *FriendshipService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.requirePair(ctx, userID, friendID); err != nil {
		return err
	}
	deleted, err := s.friendships.Delete(ctx, userID, friendID)
	if err != nil {
		return internal(err, "failed to remove friend %d for user %d", friendID, userID)
	}
	if !deleted {
		s.logger.InfoContext(ctx, "Friendship did not exist", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
		return nil
	}
	s.events.Record(ctx, userID, domain.EventFriend, domain.OperationRemove, friendID)
	s.logger.InfoContext(ctx, "Friend removed", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	return nil
}

// UpdateStatus меняет статус существующего ребра.
func (s *FriendshipService) UpdateStatus(ctx context.Context, userID, friendID int64, status string) (*domain.Friendship, error) {
	if err := s.requirePair(ctx, userID, friendID); err != nil {
		return nil, err
	}
	if _, err := s.friendships.Get(ctx, userID, friendID); err != nil {
		if errors.Is(err, store.ErrFriendshipNotFound) {
			return nil, validation("user %d has no friendship with user %d", userID, friendID)
		}
		return nil, internal(err, "failed to load friendship %d -> %d", userID, friendID)
	}
	st := domain.FriendshipStatus(status)
	if !st.Valid() {
		return nil, validation("unknown friendship status %q", status)
	}
	f := &domain.Friendship{UserID: userID, FriendID: friendID, Status: st}
	if err := s.friendships.Save(ctx, f); err != nil {
		return nil, internal(err, "failed to update friendship %d -> %d", userID, friendID)
	}
	s.events.Record(ctx, userID, domain.EventFriend, domain.OperationUpdate, friendID)
	s.logger.InfoContext(ctx, "Friendship status updated",
		slog.Int64("userID", userID), slog.Int64("friendID", friendID), slog.String("status", status))
	return f, nil
}

// Friends профили всех, на кого у пользователя есть исходящее ребро.
func (s *FriendshipService) Friends(ctx context.Context, userID int64) ([]*domain.Friend, error) {
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	friends, err := s.friendships.Friends(ctx, userID)
	if err != nil {
		return nil, internal(err, "failed to list friends of user %d", userID)
	}
	return friends, nil
}

func (s *FriendshipService) CommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	if err := s.requirePair(ctx, userID, otherID); err != nil {
		return nil, err
	}
	users, err := s.friendships.CommonFriends(ctx, userID, otherID)
	if err != nil {
		return nil, internal(err, "failed to list common friends of users %d and %d", userID, otherID)
	}
	return users, nil
}
