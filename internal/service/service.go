// Package service содержит бизнес-логику: дружба, лайки и популярность, рекомендации,
// отзывы и лента активности.
package service

import (
	"log/slog"
	"time"

	"filmorate/internal/cache"
	"filmorate/internal/store"
)

// DefaultListCount размер выборки популярных фильмов и отзывов по умолчанию.
const DefaultListCount = 10

// Services набор сервисов поверх общих хранилищ.
type Services struct {
	Users           *UserService
	Friends         *FriendshipService
	Films           *FilmService
	Likes           *LikeService
	Recommendations *RecommendationService
	Reviews         *ReviewService
	Feed            *FeedService
	Directors       *DirectorService
	Catalog         *CatalogService
}

// New связывает сервисы. c может быть nil, тогда кэширование отключено.
func New(s *store.Stores, c *cache.Cache, logger *slog.Logger) *Services {
	gate := NewGate(s)
	events := NewEventRecorder(s.Events, logger)
	return &Services{
		Users:           &UserService{gate: gate, users: s.Users, logger: logger, now: time.Now},
		Friends:         &FriendshipService{gate: gate, friendships: s.Friendships, events: events, logger: logger},
		Films:           &FilmService{gate: gate, films: s.Films, cache: c, logger: logger},
		Likes:           &LikeService{gate: gate, likes: s.Likes, films: s.Films, events: events, cache: c, logger: logger},
		Recommendations: &RecommendationService{gate: gate, likes: s.Likes, films: s.Films, cache: c, logger: logger},
		Reviews:         &ReviewService{gate: gate, reviews: s.Reviews, reactions: s.Reactions, events: events, logger: logger},
		Feed:            &FeedService{gate: gate, events: s.Events, logger: logger},
		Directors:       &DirectorService{directors: s.Directors, cache: c, logger: logger},
		Catalog:         &CatalogService{genres: s.Genres, mpa: s.Mpa},
	}
}
