package service

import (
	"context"

	"filmorate/internal/store"
)

// Gate проверяет существование сущностей до любых изменений состояния.
type Gate struct {
	users     store.UserStore
	films     store.FilmStore
	directors store.DirectorStore
	reviews   store.ReviewStore
	genres    store.GenreStore
	mpa       store.MpaStore
}

func NewGate(s *store.Stores) *Gate {
	return &Gate{
		users:     s.Users,
		films:     s.Films,
		directors: s.Directors,
		reviews:   s.Reviews,
		genres:    s.Genres,
		mpa:       s.Mpa,
	}
}

type existsFunc func(ctx context.Context, id int64) (bool, error)

func requireExists(ctx context.Context, check existsFunc, entity string, id int64) error {
	ok, err := check(ctx, id)
	if err != nil {
		return internal(err, "failed to check %s %d", entity, id)
	}
	if !ok {
		return notFound("%s with id %d not found", entity, id)
	}
	return nil
}

func (g *Gate) RequireUser(ctx context.Context, id int64) error {
	return requireExists(ctx, g.users.Exists, "user", id)
}

func (g *Gate) RequireFilm(ctx context.Context, id int64) error {
	return requireExists(ctx, g.films.Exists, "film", id)
}

func (g *Gate) RequireDirector(ctx context.Context, id int64) error {
	return requireExists(ctx, g.directors.Exists, "director", id)
}

func (g *Gate) RequireReview(ctx context.Context, id int64) error {
	return requireExists(ctx, g.reviews.Exists, "review", id)
}

func (g *Gate) RequireGenre(ctx context.Context, id int64) error {
	return requireExists(ctx, g.genres.Exists, "genre", id)
}

func (g *Gate) RequireMpa(ctx context.Context, id int64) error {
	return requireExists(ctx, g.mpa.Exists, "mpa rating", id)
}
