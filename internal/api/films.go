package api

import (
	"log/slog"
	"net/http"

	"filmorate/internal/domain"
)

// likeResponse ответ на постановку лайка.
type likeResponse struct {
	FilmID int64 `json:"filmId"`
	UserID int64 `json:"userId"`
}

func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req domain.FilmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	film, err := h.services.Films.Create(ctx, &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, film)
}

func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req domain.FilmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	film, err := h.services.Films.Update(ctx, &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) GetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.services.Films.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetFilmByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	film, err := h.services.Films.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.services.Films.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPopularFilms /films/popular?count=&genreId=&year=
func (h *Handler) GetPopularFilms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "GetPopularFilms endpoint hit", slog.String("query", r.URL.Query().Encode()))

	count, ok := h.queryInt(w, r, "count")
	if !ok {
		return
	}
	genreID, ok := h.queryInt(w, r, "genreId")
	if !ok {
		return
	}
	year, ok := h.queryInt(w, r, "year")
	if !ok {
		return
	}
	films, err := h.services.Likes.Popular(ctx, domain.PopularParams{
		Count:   int(count),
		GenreID: genreID,
		Year:    int(year),
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetCommonFilms /films/common?userId=&friendId=
func (h *Handler) GetCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.queryInt(w, r, "userId")
	if !ok {
		return
	}
	friendID, ok := h.queryInt(w, r, "friendId")
	if !ok {
		return
	}
	if userID == 0 || friendID == 0 {
		h.respondError(w, r, http.StatusBadRequest, "Query parameters userId and friendId are required")
		return
	}
	films, err := h.services.Likes.Common(r.Context(), userID, friendID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetFilmsByDirector /films/director/{directorId}?sortBy=year|likes
func (h *Handler) GetFilmsByDirector(w http.ResponseWriter, r *http.Request) {
	directorID, ok := h.pathID(w, r, "directorId")
	if !ok {
		return
	}
	films, err := h.services.Likes.ByDirector(r.Context(), directorID, r.URL.Query().Get("sortBy"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := h.services.Likes.AddLike(r.Context(), filmID, userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, likeResponse{FilmID: filmID, UserID: userID})
}

func (h *Handler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := h.services.Likes.RemoveLike(r.Context(), filmID, userID); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFilmLikes ID пользователей, лайкнувших фильм.
func (h *Handler) GetFilmLikes(w http.ResponseWriter, r *http.Request) {
	filmID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	ids, err := h.services.Likes.FilmLikes(r.Context(), filmID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ids)
}
