package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"filmorate/internal/cache"
	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// LikeService лайки фильмов и выборки, основанные на них.
type LikeService struct {
	gate   *Gate
	likes  store.LikeStore
	films  store.FilmStore
	events EventSink
	cache  *cache.Cache
	logger *slog.Logger
}

func (s *LikeService) requireFilmAndUser(ctx context.Context, filmID, userID int64) error {
	if err := s.gate.RequireFilm(ctx, filmID); err != nil {
		return err
	}
	return s.gate.RequireUser(ctx, userID)
}

// AddLike ставит лайк. Повторный лайк того же пользователя даёт Conflict.
func (s *LikeService) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}
	if err := s.likes.Add(ctx, filmID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrLikeAlreadyExists):
			return conflict("user %d already liked film %d", userID, filmID)
		case errors.Is(err, store.ErrReferenceNotFound):
			return notFound("film %d or user %d no longer exists", filmID, userID)
		}
		return internal(err, "failed to add like to film %d", filmID)
	}
	s.cache.Invalidate(ctx, cache.NamespacePopular, cache.NamespaceRecommendations)
	s.events.Record(ctx, userID, domain.EventLike, domain.OperationAdd, filmID)
	s.logger.InfoContext(ctx, "Like added", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

func (s *LikeService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}
	if err := s.likes.Remove(ctx, filmID, userID); err != nil {
		if errors.Is(err, store.ErrLikeNotFound) {
			return notFound("user %d has not liked film %d", userID, filmID)
		}
		return internal(err, "failed to remove like from film %d", filmID)
	}
	s.cache.Invalidate(ctx, cache.NamespacePopular, cache.NamespaceRecommendations)
	s.events.Record(ctx, userID, domain.EventLike, domain.OperationRemove, filmID)
	s.logger.InfoContext(ctx, "Like removed", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

// FilmLikes ID пользователей, лайкнувших фильм, по возрастанию.
func (s *LikeService) FilmLikes(ctx context.Context, filmID int64) ([]int64, error) {
	if err := s.gate.RequireFilm(ctx, filmID); err != nil {
		return nil, err
	}
	ids, err := s.likes.UserIDsByFilm(ctx, filmID)
	if err != nil {
		return nil, internal(err, "failed to list likes of film %d", filmID)
	}
	return ids, nil
}

// UserLikes ID фильмов, лайкнутых пользователем, по возрастанию.
func (s *LikeService) UserLikes(ctx context.Context, userID int64) ([]int64, error) {
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.likes.FilmIDsByUser(ctx, userID)
	if err != nil {
		return nil, internal(err, "failed to list likes of user %d", userID)
	}
	return ids, nil
}

// Popular самые лайкнутые фильмы. Count <= 0 заменяется на DefaultListCount.
func (s *LikeService) Popular(ctx context.Context, params domain.PopularParams) ([]*domain.Film, error) {
	if params.Count <= 0 {
		params.Count = DefaultListCount
	}
	if params.GenreID < 0 || params.Year < 0 {
		return nil, validation("genreId and year must not be negative")
	}
	key := fmt.Sprintf("c%d:g%d:y%d", params.Count, params.GenreID, params.Year)
	var films []*domain.Film
	if s.cache.Get(ctx, cache.NamespacePopular, key, &films) {
		return films, nil
	}
	films, err := s.films.Popular(ctx, params)
	if err != nil {
		return nil, internal(err, "failed to load popular films")
	}
	s.cache.Set(ctx, cache.NamespacePopular, key, films)
	return films, nil
}

// Common фильмы, лайкнутые обоими пользователями, по убыванию популярности.
func (s *LikeService) Common(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	if userID == friendID {
		return nil, validation("userId and friendId must differ")
	}
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.gate.RequireUser(ctx, friendID); err != nil {
		return nil, err
	}
	films, err := s.films.Common(ctx, userID, friendID)
	if err != nil {
		return nil, internal(err, "failed to load common films of users %d and %d", userID, friendID)
	}
	return films, nil
}

// ParseDirectorSort разбирает параметр sortBy. Пустое значение означает сортировку по году.
func ParseDirectorSort(raw string) (domain.DirectorSort, error) {
	switch domain.DirectorSort(raw) {
	case "", domain.SortByYear:
		return domain.SortByYear, nil
	case domain.SortByLikes:
		return domain.SortByLikes, nil
	}
	return "", validation("unknown sortBy %q, expected year or likes", raw)
}

func (s *LikeService) ByDirector(ctx context.Context, directorID int64, sortBy string) ([]*domain.Film, error) {
	order, err := ParseDirectorSort(sortBy)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireDirector(ctx, directorID); err != nil {
		return nil, err
	}
	films, err := s.films.ByDirector(ctx, directorID, order)
	if err != nil {
		return nil, internal(err, "failed to load films of director %d", directorID)
	}
	return films, nil
}
