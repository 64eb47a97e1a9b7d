package service

import (
	"context"
	"errors"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// ReviewService отзывы и реакции на них. Полезность отзыва равна числу лайков минус
// число дизлайков и всегда вычисляется хранилищем.
type ReviewService struct {
	gate      *Gate
	reviews   store.ReviewStore
	reactions store.ReactionStore
	events    EventSink
	logger    *slog.Logger
}

func reactionName(isLike bool) string {
	if isLike {
		return "like"
	}
	return "dislike"
}

func (s *ReviewService) Create(ctx context.Context, req *domain.CreateReviewRequest) (*domain.Review, error) {
	if req.IsPositive == nil {
		return nil, validation("isPositive is required")
	}
	if err := s.gate.RequireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.gate.RequireFilm(ctx, req.FilmID); err != nil {
		return nil, err
	}
	review := &domain.Review{
		Content:    req.Content,
		IsPositive: *req.IsPositive,
		UserID:     req.UserID,
		FilmID:     req.FilmID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, store.ErrReferenceNotFound) {
			return nil, notFound("user %d or film %d no longer exists", req.UserID, req.FilmID)
		}
		return nil, internal(err, "failed to create review")
	}
	s.events.Record(ctx, review.UserID, domain.EventReview, domain.OperationAdd, review.ID)
	s.logger.InfoContext(ctx, "Review created",
		slog.Int64("reviewID", review.ID), slog.Int64("filmID", review.FilmID), slog.Int64("userID", review.UserID))
	return review, nil
}

// Update меняет текст и оценку отзыва. Автор, фильм и полезность не изменяются.
// Запрос без изменений не пишет в базу и не порождает событие.
func (s *ReviewService) Update(ctx context.Context, req *domain.UpdateReviewRequest) (*domain.Review, error) {
	review, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	changed := false
	if req.Content != nil && *req.Content != review.Content {
		review.Content = *req.Content
		changed = true
	}
	if req.IsPositive != nil && *req.IsPositive != review.IsPositive {
		review.IsPositive = *req.IsPositive
		changed = true
	}
	if !changed {
		return review, nil
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil, notFound("review with id %d not found", req.ID)
		}
		return nil, internal(err, "failed to update review %d", req.ID)
	}
	s.events.Record(ctx, review.UserID, domain.EventReview, domain.OperationUpdate, review.ID)
	s.logger.InfoContext(ctx, "Review updated", slog.Int64("reviewID", review.ID))
	return s.Get(ctx, review.ID)
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return notFound("review with id %d not found", id)
		}
		return internal(err, "failed to delete review %d", id)
	}
	s.events.Record(ctx, review.UserID, domain.EventReview, domain.OperationRemove, id)
	s.logger.InfoContext(ctx, "Review deleted", slog.Int64("reviewID", id))
	return nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil, notFound("review with id %d not found", id)
		}
		return nil, internal(err, "failed to get review %d", id)
	}
	return review, nil
}

// List отзывы по убыванию полезности. filmID == 0 означает все фильмы.
func (s *ReviewService) List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	if count <= 0 {
		count = DefaultListCount
	}
	if filmID != 0 {
		if err := s.gate.RequireFilm(ctx, filmID); err != nil {
			return nil, err
		}
	}
	reviews, err := s.reviews.List(ctx, filmID, count)
	if err != nil {
		return nil, internal(err, "failed to list reviews")
	}
	return reviews, nil
}

// AddReaction ставит лайк или дизлайк отзыву. Реакция противоположного знака
// переключается, повтор той же реакции даёт Conflict.
func (s *ReviewService) AddReaction(ctx context.Context, reviewID, userID int64, isLike bool) (*domain.Review, error) {
	if err := s.gate.RequireReview(ctx, reviewID); err != nil {
		return nil, err
	}
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.reactions.Get(ctx, reviewID, userID)
	switch {
	case errors.Is(err, store.ErrReactionNotFound):
		err = s.reactions.Add(ctx, &domain.ReviewReaction{ReviewID: reviewID, UserID: userID, IsLike: isLike})
		switch {
		case errors.Is(err, store.ErrReactionAlreadyExists):
			return nil, conflict("user %d already reacted to review %d", userID, reviewID)
		case errors.Is(err, store.ErrReferenceNotFound):
			return nil, notFound("review %d or user %d no longer exists", reviewID, userID)
		case err != nil:
			return nil, internal(err, "failed to add %s to review %d", reactionName(isLike), reviewID)
		}
	case err != nil:
		return nil, internal(err, "failed to load reaction of user %d on review %d", userID, reviewID)
	case existing.IsLike == isLike:
		return nil, conflict("user %d already put a %s on review %d", userID, reactionName(isLike), reviewID)
	default:
		if err := s.reactions.Switch(ctx, reviewID, userID, isLike); err != nil {
			if errors.Is(err, store.ErrReactionNotFound) {
				return nil, conflict("reaction of user %d on review %d changed concurrently", userID, reviewID)
			}
			return nil, internal(err, "failed to switch reaction on review %d", reviewID)
		}
	}

	s.logger.InfoContext(ctx, "Review reaction added",
		slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.String("reaction", reactionName(isLike)))
	return s.Get(ctx, reviewID)
}

// RemoveReaction снимает реакцию заданного знака. Отсутствие реакции или реакция
// другого знака дают NotFound.
func (s *ReviewService) RemoveReaction(ctx context.Context, reviewID, userID int64, isLike bool) (*domain.Review, error) {
	if err := s.gate.RequireReview(ctx, reviewID); err != nil {
		return nil, err
	}
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.reactions.Get(ctx, reviewID, userID)
	switch {
	case errors.Is(err, store.ErrReactionNotFound):
		return nil, notFound("user %d has no reaction on review %d", userID, reviewID)
	case err != nil:
		return nil, internal(err, "failed to load reaction of user %d on review %d", userID, reviewID)
	case existing.IsLike != isLike:
		return nil, notFound("user %d put a %s, not a %s, on review %d",
			userID, reactionName(existing.IsLike), reactionName(isLike), reviewID)
	}
	if err := s.reactions.Remove(ctx, reviewID, userID, isLike); err != nil {
		if errors.Is(err, store.ErrReactionNotFound) {
			return nil, notFound("user %d has no %s on review %d", userID, reactionName(isLike), reviewID)
		}
		return nil, internal(err, "failed to remove reaction from review %d", reviewID)
	}
	s.logger.InfoContext(ctx, "Review reaction removed",
		slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.String("reaction", reactionName(isLike)))
	return s.Get(ctx, reviewID)
}

// Useful текущая полезность отзыва.
func (s *ReviewService) Useful(ctx context.Context, reviewID int64) (int, error) {
	if err := s.gate.RequireReview(ctx, reviewID); err != nil {
		return 0, err
	}
	useful, err := s.reactions.Useful(ctx, reviewID)
	if err != nil {
		return 0, internal(err, "failed to compute useful of review %d", reviewID)
	}
	return useful, nil
}
