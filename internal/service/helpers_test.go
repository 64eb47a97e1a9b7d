package service

import (
	"context"
	"io"
	"testing"

	"filmorate/internal/domain"
	"filmorate/internal/logging"
	"filmorate/internal/store"

	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	logger := logging.New(logging.Config{Level: "error", Output: io.Discard})
	return New(store.NewMockStores(), nil, logger)
}

func mustUser(t *testing.T, s *Services, login string) *domain.User {
	t.Helper()
	user, err := s.Users.Create(context.Background(), &domain.UserRequest{
		Email:    login + "@x.com",
		Login:    login,
		Birthday: domain.NewDate(1990, 5, 17),
	})
	require.NoError(t, err)
	return user
}

func filmRequest(name string, release domain.Date, genreIDs ...int64) *domain.FilmRequest {
	req := &domain.FilmRequest{
		Name:        name,
		Description: name + " description",
		ReleaseDate: release,
		Duration:    120,
		Mpa:         &domain.Ref{ID: 1},
	}
	for _, id := range genreIDs {
		req.Genres = append(req.Genres, domain.Ref{ID: id})
	}
	return req
}

func mustFilm(t *testing.T, s *Services, name string, genreIDs ...int64) *domain.Film {
	t.Helper()
	film, err := s.Films.Create(context.Background(), filmRequest(name, domain.NewDate(2000, 1, 1), genreIDs...))
	require.NoError(t, err)
	return film
}

func mustLike(t *testing.T, s *Services, filmID int64, userIDs ...int64) {
	t.Helper()
	for _, userID := range userIDs {
		require.NoError(t, s.Likes.AddLike(context.Background(), filmID, userID))
	}
}

func filmIDs(films []*domain.Film) []int64 {
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}
