package api

import (
	"net/http"

	"filmorate/internal/domain"
)

func (h *Handler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.DirectorRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	d, err := h.services.Directors.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, d)
}

func (h *Handler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.DirectorRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	d, err := h.services.Directors.Update(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, d)
}

func (h *Handler) GetDirectors(w http.ResponseWriter, r *http.Request) {
	ds, err := h.services.Directors.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ds)
}

func (h *Handler) GetDirectorByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.services.Directors.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, d)
}

func (h *Handler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.services.Directors.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	gs, err := h.services.Catalog.Genres(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, gs)
}

func (h *Handler) GetGenreByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.services.Catalog.Genre(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, g)
}

func (h *Handler) GetMpaRatings(w http.ResponseWriter, r *http.Request) {
	ms, err := h.services.Catalog.MpaRatings(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ms)
}

func (h *Handler) GetMpaByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.services.Catalog.Mpa(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, m)
}
