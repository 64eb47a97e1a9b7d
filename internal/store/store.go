// internal/store/store.go
package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

// Кастомные ошибки хранилища
var (
	ErrFilmNotFound       = errors.New("film not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDirectorNotFound   = errors.New("director not found")
	ErrGenreNotFound      = errors.New("genre not found")
	ErrMpaNotFound        = errors.New("mpa rating not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrLikeNotFound       = errors.New("like not found")
	ErrReactionNotFound   = errors.New("review reaction not found")

	ErrLikeAlreadyExists     = errors.New("like already exists")
	ErrReactionAlreadyExists = errors.New("review reaction already exists")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")

	// ErrReferenceNotFound нарушение внешнего ключа: ссылка на несуществующую запись.
	ErrReferenceNotFound = errors.New("referenced entity not found")
)

// FilmStore операции с фильмами. Возвращаемые фильмы заполнены жанрами, режиссёрами и лайками.
type FilmStore interface {
	// Create сохраняет фильм вместе со связями жанров и режиссёров и проставляет film.ID.
	Create(ctx context.Context, film *domain.Film) error
	// Update атомарно заменяет строку фильма, его жанры и режиссёров.
	Update(ctx context.Context, film *domain.Film) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Film, error)
	List(ctx context.Context) ([]*domain.Film, error)
	// ListByIDs возвращает найденные фильмы по возрастанию ID.
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.Film, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Popular: по убыванию числа лайков, при равенстве по возрастанию ID.
	Popular(ctx context.Context, params domain.PopularParams) ([]*domain.Film, error)
	// Common фильмы, которые лайкнули оба пользователя, по убыванию общего числа лайков.
	Common(ctx context.Context, userID, friendID int64) ([]*domain.Film, error)
	ByDirector(ctx context.Context, directorID int64, sortBy domain.DirectorSort) ([]*domain.Film, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// FriendshipStore направленные рёбра дружбы.
type FriendshipStore interface {
	// Save вставляет ребро или перезаписывает статус существующего.
	Save(ctx context.Context, friendship *domain.Friendship) error
	Get(ctx context.Context, userID, friendID int64) (*domain.Friendship, error)
	// Delete удаляет ребро и сообщает, существовало ли оно.
	Delete(ctx context.Context, userID, friendID int64) (bool, error)
	Friends(ctx context.Context, userID int64) ([]*domain.Friend, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error)
}

type LikeStore interface {
	// Add возвращает ErrLikeAlreadyExists, если пара (film, user) уже есть.
	Add(ctx context.Context, filmID, userID int64) error
	Remove(ctx context.Context, filmID, userID int64) error
	UserIDsByFilm(ctx context.Context, filmID int64) ([]int64, error)
	FilmIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	// LikesByUser множество лайкнутых фильмов каждого пользователя, у которого есть лайки.
	LikesByUser(ctx context.Context) (map[int64][]int64, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	// List отзывы по убыванию useful; filmID == 0 означает все фильмы.
	List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ReactionStore лайки и дизлайки отзывов, не более одной реакции на пару (review, user).
type ReactionStore interface {
	Get(ctx context.Context, reviewID, userID int64) (*domain.ReviewReaction, error)
	Add(ctx context.Context, reaction *domain.ReviewReaction) error
	// Switch меняет полярность существующей реакции на isLike.
	Switch(ctx context.Context, reviewID, userID int64, isLike bool) error
	// Remove удаляет реакцию только с совпадающей полярностью.
	Remove(ctx context.Context, reviewID, userID int64, isLike bool) error
	Useful(ctx context.Context, reviewID int64) (int, error)
}

type EventStore interface {
	Add(ctx context.Context, event *domain.Event) error
	// Feed события пользователя и его друзей по возрастанию времени.
	Feed(ctx context.Context, userID int64) ([]*domain.Event, error)
}

type DirectorStore interface {
	Create(ctx context.Context, director *domain.Director) error
	Update(ctx context.Context, director *domain.Director) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Director, error)
	List(ctx context.Context) ([]*domain.Director, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type GenreStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Genre, error)
	List(ctx context.Context) ([]*domain.Genre, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type MpaStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Mpa, error)
	List(ctx context.Context) ([]*domain.Mpa, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Stores набор хранилищ, разделяющих одну базу данных.
type Stores struct {
	Films       FilmStore
	Users       UserStore
	Friendships FriendshipStore
	Likes       LikeStore
	Reviews     ReviewStore
	Reactions   ReactionStore
	Events      EventStore
	Directors   DirectorStore
	Genres      GenreStore
	Mpa         MpaStore
}
