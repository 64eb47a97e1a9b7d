package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmorate/internal/domain"
	"filmorate/internal/logging"
	"filmorate/internal/service"
	"filmorate/internal/store"

	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T, db Pinger) *testServer {
	t.Helper()
	logger := logging.New(logging.Config{Level: "error", Output: io.Discard})
	services := service.New(store.NewMockStores(), nil, logger)
	return &testServer{t: t, router: NewRouter(NewHandler(services, db, logger, NewValidator()))}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) createUser(email, login string) domain.User {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/users", map[string]any{"email": email, "login": login, "birthday": "1990-01-01"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.User](s.t, rec)
}

func (s *testServer) createFilm(name, release string) domain.Film {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/films", map[string]any{
		"name": name, "description": "d", "releaseDate": release, "duration": 136, "mpa": map[string]int{"id": 1},
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Film](s.t, rec)
}

func TestMatrixEndToEnd(t *testing.T) {
	s := newTestServer(t, nil)
	a := s.createUser("a@x.com", "a")
	b := s.createUser("b@x.com", "b")
	require.Equal(t, "a", a.Name)
	matrix := s.createFilm("Matrix", "1999-03-31")
	require.Equal(t, "1999-03-31", matrix.ReleaseDate.String())
	require.Equal(t, "G", matrix.Mpa.Name)

	likes := func() int {
		rec := s.do(http.MethodGet, "/films/popular?count=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		films := decode[[]domain.Film](t, rec)
		require.Len(t, films, 1)
		require.Equal(t, "Matrix", films[0].Name)
		return len(films[0].Likes)
	}

	rec := s.do(http.MethodPut, "/films/1/like/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, likes())

	rec = s.do(http.MethodPut, "/films/1/like/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, likes())

	rec = s.do(http.MethodDelete, "/films/1/like/2", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, 1, likes())

	rec = s.do(http.MethodGet, "/users/1/recommendations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	rec = s.do(http.MethodGet, "/users/2/feed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]domain.Event](t, rec)
	require.Len(t, events, 2)
	require.Equal(t, b.ID, events[0].UserID)
	require.Equal(t, domain.OperationRemove, events[1].Operation)
}

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t, nil)
	s.createUser("a@x.com", "a")
	s.createFilm("Matrix", "1999-03-31")
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/films/1/like/1", nil).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown film", http.MethodGet, "/films/42", nil, http.StatusNotFound},
		{"unknown user", http.MethodGet, "/users/42", nil, http.StatusNotFound},
		{"duplicate like", http.MethodPut, "/films/1/like/1", nil, http.StatusConflict},
		{"like from unknown user", http.MethodPut, "/films/1/like/42", nil, http.StatusNotFound},
		{"duplicate email", http.MethodPost, "/users", map[string]any{"email": "a@x.com", "login": "other", "birthday": "1990-01-01"}, http.StatusConflict},
		{"bad email", http.MethodPost, "/users", map[string]any{"email": "nope", "login": "x", "birthday": "1990-01-01"}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/films", "{", http.StatusBadRequest},
		{"bad date", http.MethodPost, "/films", map[string]any{"name": "x", "releaseDate": "31.03.1999", "duration": 1, "mpa": map[string]int{"id": 1}}, http.StatusBadRequest},
		{"blank film name", http.MethodPost, "/films", map[string]any{"name": "  ", "releaseDate": "1999-03-31", "duration": 1, "mpa": map[string]int{"id": 1}}, http.StatusBadRequest},
		{"description too long", http.MethodPost, "/films", map[string]any{"name": "x", "description": string(bytes.Repeat([]byte("a"), 201)), "releaseDate": "1999-03-31", "duration": 1, "mpa": map[string]int{"id": 1}}, http.StatusBadRequest},
		{"negative duration", http.MethodPost, "/films", map[string]any{"name": "x", "releaseDate": "1999-03-31", "duration": -1, "mpa": map[string]int{"id": 1}}, http.StatusBadRequest},
		{"unknown mpa", http.MethodPost, "/films", map[string]any{"name": "x", "releaseDate": "1999-03-31", "duration": 1, "mpa": map[string]int{"id": 9}}, http.StatusNotFound},
		{"bad sortBy", http.MethodGet, "/films/director/1?sortBy=rating", nil, http.StatusBadRequest},
		{"bad count", http.MethodGet, "/films/popular?count=ten", nil, http.StatusBadRequest},
		{"common without params", http.MethodGet, "/films/common", nil, http.StatusBadRequest},
		{"bad friendship status", http.MethodPut, "/users/friends", map[string]any{"userId": 1, "friendId": 1, "status": "BLOCKED"}, http.StatusBadRequest},
		{"non-numeric id", http.MethodGet, "/films/abc", nil, http.StatusNotFound},
		{"unknown genre", http.MethodGet, "/genres/99", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.path == "/films/abc" {
				// маршрут не совпал, ответ от mux
				return
			}
			body := decode[map[string]string](t, rec)
			require.NotEmpty(t, body["error"])
		})
	}
}

func TestFriendsAndReviewsOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	a := s.createUser("a@x.com", "a")
	b := s.createUser("b@x.com", "b")
	film := s.createFilm("Matrix", "1999-03-31")

	rec := s.do(http.MethodPut, "/users/1/friends/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, domain.FriendshipPending, decode[domain.Friendship](t, rec).Status)

	rec = s.do(http.MethodPut, "/users/friends", map[string]any{"userId": a.ID, "friendId": b.ID, "status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/users/1/friends", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode[[]domain.Friend](t, rec)
	require.Len(t, friends, 1)
	require.Equal(t, domain.FriendshipConfirmed, friends[0].Status)

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/users/1/friends/2", nil).Code)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/users/1/friends/2", nil).Code)

	rec = s.do(http.MethodPost, "/reviews", map[string]any{"content": "Whoa", "isPositive": true, "userId": a.ID, "filmId": film.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[domain.Review](t, rec)
	require.Contains(t, rec.Body.String(), `"reviewId"`)

	rec = s.do(http.MethodPut, "/reviews/1/like/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, decode[domain.Review](t, rec).Useful)

	rec = s.do(http.MethodPut, "/reviews/1/dislike/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, -1, decode[domain.Review](t, rec).Useful)

	require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/reviews/1/like/2", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/reviews/1/dislike/2", nil).Code)

	rec = s.do(http.MethodGet, "/reviews?filmId=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]domain.Review](t, rec)
	require.Len(t, reviews, 1)
	require.Equal(t, review.ID, reviews[0].ID)
	require.Zero(t, reviews[0].Useful)

	rec = s.do(http.MethodPost, "/reviews", map[string]any{"content": "No verdict", "userId": a.ID, "filmId": film.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthAndRequestID(t *testing.T) {
	healthy := newTestServer(t, pingerFunc(func(context.Context) error { return nil }))
	rec := healthy.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	down := newTestServer(t, pingerFunc(func(context.Context) error { return errors.New("connection refused") }))
	rec = down.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/genres", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	out := httptest.NewRecorder()
	healthy.router.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	require.Equal(t, "trace-123", out.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/mpa", nil).Code)

	rec := s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `endpoint="/mpa"`)
}

func TestCreateUserWithoutBirthday(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/users", map[string]any{"email": "a@x.com", "login": "a"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	require.Nil(t, body["birthday"])
	require.Equal(t, "a", body["name"])
}
