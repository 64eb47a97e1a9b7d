// internal/store/postgres_review_store.go
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

// useful пересчитывается из реакций при каждом чтении.
const reviewSelect = `SELECT r.review_id AS id, r.content, r.is_positive, r.user_id, r.film_id, r.created_at,
       COALESCE((SELECT SUM(CASE WHEN rr.is_like THEN 1 ELSE -1 END)
                   FROM review_reactions rr WHERE rr.review_id = r.review_id), 0) AS useful
  FROM reviews r`

// PostgresReviewStore реализует ReviewStore для PostgreSQL.
type PostgresReviewStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Create создает новый отзыв; ID и дата создания назначаются базой.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (content, is_positive, user_id, film_id)
              VALUES ($1, $2, $3, $4) RETURNING review_id, created_at`

	s.logger.DebugContext(ctx, "Executing Create review query",
		slog.Int64("filmID", review.FilmID),
		slog.Int64("userID", review.UserID))

	err := s.db.QueryRowxContext(ctx, query, review.Content, review.IsPositive, review.UserID, review.FilmID).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if pqCode(err) == foreignKeyViolation {
			return fmt.Errorf("%w: %s", ErrReferenceNotFound, err.Error())
		}
		s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", err)
	}
	review.Useful = 0
	s.logger.InfoContext(ctx, "Review created successfully in DB", slog.Int64("reviewID", review.ID))
	return nil
}

func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	query := `UPDATE reviews SET content = $1, is_positive = $2 WHERE review_id = $3`
	res, err := s.db.ExecContext(ctx, query, review.Content, review.IsPositive, review.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review in DB", slog.Int64("reviewID", review.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *PostgresReviewStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (s *PostgresReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	if err := s.db.GetContext(ctx, &review, reviewSelect+` WHERE r.review_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Review not found by ID in DB", slog.Int64("reviewID", id))
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &review, nil
}

func (s *PostgresReviewStore) List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	var err error
	if filmID != 0 {
		err = s.db.SelectContext(ctx, &reviews,
			reviewSelect+` WHERE r.film_id = $1 ORDER BY useful DESC, r.review_id ASC LIMIT $2`, filmID, count)
	} else {
		err = s.db.SelectContext(ctx, &reviews,
			reviewSelect+` ORDER BY useful DESC, r.review_id ASC LIMIT $1`, count)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list reviews", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresReviewStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, `SELECT EXISTS(SELECT 1 FROM reviews WHERE review_id = $1)`, id)
}

// PostgresReactionStore реализует ReactionStore для PostgreSQL.
type PostgresReactionStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func (s *PostgresReactionStore) Get(ctx context.Context, reviewID, userID int64) (*domain.ReviewReaction, error) {
	var r domain.ReviewReaction
	query := `SELECT review_id, user_id, is_like FROM review_reactions WHERE review_id = $1 AND user_id = $2`
	if err := s.db.GetContext(ctx, &r, query, reviewID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReactionNotFound
		}
		return nil, fmt.Errorf("failed to get review reaction: %w", err)
	}
	return &r, nil
}

// Add вставляет реакцию; первичный ключ (review_id, user_id) превращает дубликат в ErrReactionAlreadyExists.
func (s *PostgresReactionStore) Add(ctx context.Context, r *domain.ReviewReaction) error {
	query := `INSERT INTO review_reactions (review_id, user_id, is_like) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, r.ReviewID, r.UserID, r.IsLike); err != nil {
		switch pqCode(err) {
		case uniqueViolation:
			s.logger.WarnContext(ctx, "Review reaction already exists (DB constraint)",
				slog.Int64("reviewID", r.ReviewID), slog.Int64("userID", r.UserID))
			return ErrReactionAlreadyExists
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferenceNotFound, err.Error())
		}
		return fmt.Errorf("failed to add review reaction: %w", err)
	}
	return nil
}

func (s *PostgresReactionStore) Switch(ctx context.Context, reviewID, userID int64, isLike bool) error {
	query := `UPDATE review_reactions SET is_like = $3 WHERE review_id = $1 AND user_id = $2 AND is_like <> $3`
	res, err := s.db.ExecContext(ctx, query, reviewID, userID, isLike)
	if err != nil {
		return fmt.Errorf("failed to switch review reaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReactionNotFound
	}
	return nil
}

func (s *PostgresReactionStore) Remove(ctx context.Context, reviewID, userID int64, isLike bool) error {
	query := `DELETE FROM review_reactions WHERE review_id = $1 AND user_id = $2 AND is_like = $3`
	res, err := s.db.ExecContext(ctx, query, reviewID, userID, isLike)
	if err != nil {
		return fmt.Errorf("failed to remove review reaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// Useful число лайков минус число дизлайков отзыва.
func (s *PostgresReactionStore) Useful(ctx context.Context, reviewID int64) (int, error) {
	var useful int
	query := `SELECT COALESCE(SUM(CASE WHEN is_like THEN 1 ELSE -1 END), 0) FROM review_reactions WHERE review_id = $1`
	if err := s.db.GetContext(ctx, &useful, query, reviewID); err != nil {
		return 0, fmt.Errorf("failed to compute review useful: %w", err)
	}
	return useful, nil
}
