package api

import (
	"net/http"

	"filmorate/internal/domain"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	review, err := h.services.Reviews.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, review)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	review, err := h.services.Reviews.Update(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

// GetReviews /reviews?filmId=&count=. Без filmId возвращает отзывы по всем фильмам.
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	filmID, ok := h.queryInt(w, r, "filmId")
	if !ok {
		return
	}
	count, ok := h.queryInt(w, r, "count")
	if !ok {
		return
	}
	reviews, err := h.services.Reviews.List(r.Context(), filmID, int(count))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, reviews)
}

func (h *Handler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	review, err := h.services.Reviews.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.services.Reviews.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reaction возвращает обработчик постановки (add) или снятия реакции на отзыв.
func (h *Handler) reaction(isLike, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, ok := h.pathID(w, r, "id")
		if !ok {
			return
		}
		userID, ok := h.pathID(w, r, "userId")
		if !ok {
			return
		}
		var (
			review *domain.Review
			err    error
		)
		if add {
			review, err = h.services.Reviews.AddReaction(r.Context(), reviewID, userID, isLike)
		} else {
			review, err = h.services.Reviews.RemoveReaction(r.Context(), reviewID, userID, isLike)
		}
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		h.respondJSON(w, r, http.StatusOK, review)
	}
}
