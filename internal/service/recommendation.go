package service

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"filmorate/internal/cache"
	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// RecommendationService рекомендации по ближайшему соседу (k=1) на матрице лайков.
type RecommendationService struct {
	gate   *Gate
	likes  store.LikeStore
	films  store.FilmStore
	cache  *cache.Cache
	logger *slog.Logger
}

// Recommend фильмы, которые лайкнул самый похожий пользователь, а userID ещё нет.
// Пустой список, если у пользователя нет лайков или нет соседа с пересечением.
func (s *RecommendationService) Recommend(ctx context.Context, userID int64) ([]*domain.Film, error) {
	if err := s.gate.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	key := strconv.FormatInt(userID, 10)
	var films []*domain.Film
	if s.cache.Get(ctx, cache.NamespaceRecommendations, key, &films) {
		return films, nil
	}

	likes, err := s.likes.LikesByUser(ctx)
	if err != nil {
		return nil, internal(err, "failed to load likes matrix")
	}
	ids := recommendFilmIDs(userID, likes)
	if len(ids) == 0 {
		films = []*domain.Film{}
	} else {
		films, err = s.films.ListByIDs(ctx, ids)
		if err != nil {
			return nil, internal(err, "failed to load recommended films")
		}
	}
	s.logger.DebugContext(ctx, "Recommendations computed", slog.Int64("userID", userID), slog.Int("count", len(films)))
	s.cache.Set(ctx, cache.NamespaceRecommendations, key, films)
	return films, nil
}

// recommendFilmIDs выбирает соседа с максимальным числом общих лайков (при равенстве
// с меньшим ID) и возвращает его фильмы, которых нет у userID, по возрастанию ID.
func recommendFilmIDs(userID int64, likes map[int64][]int64) []int64 {
	mine := make(map[int64]struct{}, len(likes[userID]))
	for _, id := range likes[userID] {
		mine[id] = struct{}{}
	}
	if len(mine) == 0 {
		return nil
	}

	others := make([]int64, 0, len(likes))
	for id := range likes {
		if id != userID {
			others = append(others, id)
		}
	}
	slices.Sort(others)

	var neighbor int64
	best := 0
	for _, other := range others {
		overlap := 0
		for _, filmID := range likes[other] {
			if _, ok := mine[filmID]; ok {
				overlap++
			}
		}
		if overlap > best {
			best, neighbor = overlap, other
		}
	}
	if best == 0 {
		return nil
	}

	var result []int64
	for _, filmID := range likes[neighbor] {
		if _, ok := mine[filmID]; !ok {
			result = append(result, filmID)
		}
	}
	slices.Sort(result)
	return slices.Compact(result)
}
