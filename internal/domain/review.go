package domain

import "time"

// Review отзыв на фильм. Useful всегда вычисляется по реакциям и не задаётся клиентом.
type Review struct {
	ID         int64     `json:"reviewId" db:"id"`
	Content    string    `json:"content" db:"content"`
	IsPositive bool      `json:"isPositive" db:"is_positive"`
	UserID     int64     `json:"userId" db:"user_id"`
	FilmID     int64     `json:"filmId" db:"film_id"`
	Useful     int       `json:"useful" db:"useful"`
	CreatedAt  time.Time `json:"creationDate" db:"created_at"`
}

// ReviewReaction лайк (IsLike=true) или дизлайк пользователя на отзыв.
type ReviewReaction struct {
	ReviewID int64 `json:"reviewId" db:"review_id"`
	UserID   int64 `json:"userId" db:"user_id"`
	IsLike   bool  `json:"isLike" db:"is_like"`
}

// CreateReviewRequest тело запроса на создание отзыва (HTTP).
type CreateReviewRequest struct {
	Content    string `json:"content" validate:"notblank,max=5000"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
	UserID     int64  `json:"userId" validate:"gt=0"`
	FilmID     int64  `json:"filmId" validate:"gt=0"`
}

// UpdateReviewRequest тело запроса на обновление отзыва (HTTP).
// Изменяются только content и isPositive.
type UpdateReviewRequest struct {
	ID         int64   `json:"reviewId" validate:"gt=0"`
	Content    *string `json:"content,omitempty" validate:"omitempty,notblank,max=5000"`
	IsPositive *bool   `json:"isPositive,omitempty"`
}
