// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, PrometheusMetrics, AccessLog(h.logger))

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	// Фильмы и лайки
	films := router.PathPrefix("/films").Subrouter()
	films.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	films.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	films.HandleFunc("", h.GetFilms).Methods(http.MethodGet)
	films.HandleFunc("/popular", h.GetPopularFilms).Methods(http.MethodGet)
	films.HandleFunc("/common", h.GetCommonFilms).Methods(http.MethodGet)
	films.HandleFunc("/director/{directorId:[0-9]+}", h.GetFilmsByDirector).Methods(http.MethodGet)
	films.HandleFunc("/{id:[0-9]+}", h.GetFilmByID).Methods(http.MethodGet)
	films.HandleFunc("/{id:[0-9]+}", h.DeleteFilm).Methods(http.MethodDelete)
	films.HandleFunc("/{id:[0-9]+}/like/{userId:[0-9]+}", h.AddLike).Methods(http.MethodPut)
	films.HandleFunc("/{id:[0-9]+}/like/{userId:[0-9]+}", h.RemoveLike).Methods(http.MethodDelete)
	films.HandleFunc("/{id:[0-9]+}/likes", h.GetFilmLikes).Methods(http.MethodGet)

	// Пользователи, дружба, рекомендации и лента
	users := router.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("", h.GetUsers).Methods(http.MethodGet)
	users.HandleFunc("/friends", h.UpdateFriendshipStatus).Methods(http.MethodPut)
	users.HandleFunc("/{id:[0-9]+}", h.GetUserByID).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/likes", h.GetUserLikes).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/friends", h.GetFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/friends/common/{otherId:[0-9]+}", h.GetCommonFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/friends/{friendId:[0-9]+}", h.AddFriend).Methods(http.MethodPut)
	users.HandleFunc("/{id:[0-9]+}/friends/{friendId:[0-9]+}", h.RemoveFriend).Methods(http.MethodDelete)
	users.HandleFunc("/{id:[0-9]+}/recommendations", h.GetRecommendations).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/feed", h.GetFeed).Methods(http.MethodGet)

	// Отзывы и реакции
	reviews := router.PathPrefix("/reviews").Subrouter()
	reviews.HandleFunc("", h.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("", h.UpdateReview).Methods(http.MethodPut)
	reviews.HandleFunc("", h.GetReviews).Methods(http.MethodGet)
	reviews.HandleFunc("/{id:[0-9]+}", h.GetReviewByID).Methods(http.MethodGet)
	reviews.HandleFunc("/{id:[0-9]+}", h.DeleteReview).Methods(http.MethodDelete)
	reviews.HandleFunc("/{id:[0-9]+}/like/{userId:[0-9]+}", h.reaction(true, true)).Methods(http.MethodPut)
	reviews.HandleFunc("/{id:[0-9]+}/like/{userId:[0-9]+}", h.reaction(true, false)).Methods(http.MethodDelete)
	reviews.HandleFunc("/{id:[0-9]+}/dislike/{userId:[0-9]+}", h.reaction(false, true)).Methods(http.MethodPut)
	reviews.HandleFunc("/{id:[0-9]+}/dislike/{userId:[0-9]+}", h.reaction(false, false)).Methods(http.MethodDelete)

	// Справочники
	directors := router.PathPrefix("/directors").Subrouter()
	directors.HandleFunc("", h.GetDirectors).Methods(http.MethodGet)
	directors.HandleFunc("", h.CreateDirector).Methods(http.MethodPost)
	directors.HandleFunc("", h.UpdateDirector).Methods(http.MethodPut)
	directors.HandleFunc("/{id:[0-9]+}", h.GetDirectorByID).Methods(http.MethodGet)
	directors.HandleFunc("/{id:[0-9]+}", h.DeleteDirector).Methods(http.MethodDelete)

	router.HandleFunc("/genres", h.GetGenres).Methods(http.MethodGet)
	router.HandleFunc("/genres/{id:[0-9]+}", h.GetGenreByID).Methods(http.MethodGet)
	router.HandleFunc("/mpa", h.GetMpaRatings).Methods(http.MethodGet)
	router.HandleFunc("/mpa/{id:[0-9]+}", h.GetMpaByID).Methods(http.MethodGet)

	return router
}
