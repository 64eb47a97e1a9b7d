package store

import (
	"context"
	"testing"

	"filmorate/internal/domain"

	"github.com/stretchr/testify/require"
)

// runContract проверяет поведение, общее для всех реализаций хранилищ.
// newStores должен возвращать хранилища поверх пустой базы с заполненными справочниками.
func runContract(t *testing.T, newStores func(t *testing.T) *Stores) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStores(t)) })
	t.Run("films", func(t *testing.T) { testFilms(t, newStores(t)) })
	t.Run("likes and popularity", func(t *testing.T) { testLikes(t, newStores(t)) })
	t.Run("friendships", func(t *testing.T) { testFriendships(t, newStores(t)) })
	t.Run("reviews and reactions", func(t *testing.T) { testReviews(t, newStores(t)) })
	t.Run("events", func(t *testing.T) { testEvents(t, newStores(t)) })
	t.Run("directors", func(t *testing.T) { testDirectors(t, newStores(t)) })
	t.Run("reference data", func(t *testing.T) { testReference(t, newStores(t)) })
}

func createUser(t *testing.T, s *Stores, login string) *domain.User {
	t.Helper()
	u := &domain.User{Email: login + "@x.com", Login: login, Name: login, Birthday: domain.NewDate(1990, 1, 1)}
	require.NoError(t, s.Users.Create(context.Background(), u))
	require.Positive(t, u.ID)
	return u
}

func createFilm(t *testing.T, s *Stores, name string, release domain.Date, genreIDs ...int64) *domain.Film {
	t.Helper()
	f := &domain.Film{Name: name, ReleaseDate: release, Duration: 100, Mpa: domain.Mpa{ID: 1}}
	for _, id := range genreIDs {
		f.Genres = append(f.Genres, domain.Genre{ID: id})
	}
	require.NoError(t, s.Films.Create(context.Background(), f))
	require.Positive(t, f.ID)
	return f
}

func ids(films []*domain.Film) []int64 {
	out := make([]int64, 0, len(films))
	for _, f := range films {
		out = append(out, f.ID)
	}
	return out
}

func testUsers(t *testing.T, s *Stores) {
	ctx := context.Background()
	a := createUser(t, s, "a")

	dup := &domain.User{Email: "a@x.com", Login: "dup", Name: "dup", Birthday: domain.NewDate(1990, 1, 1)}
	require.ErrorIs(t, s.Users.Create(ctx, dup), ErrEmailAlreadyExists)

	a.Name = "Anna"
	require.NoError(t, s.Users.Update(ctx, a))
	got, err := s.Users.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "Anna", got.Name)
	require.Equal(t, "1990-01-01", got.Birthday.String())

	_, err = s.Users.GetByID(ctx, a.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, s.Users.Update(ctx, &domain.User{ID: a.ID + 100, Email: "z@x.com"}), ErrUserNotFound)

	ok, err := s.Users.Exists(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func testFilms(t *testing.T, s *Stores) {
	ctx := context.Background()
	film := createFilm(t, s, "Matrix", domain.NewDate(1999, 3, 31), 2, 1)

	got, err := s.Films.GetByID(ctx, film.ID)
	require.NoError(t, err)
	require.Equal(t, "G", got.Mpa.Name)
	require.Equal(t, []int64{1, 2}, got.GenreIDs())
	require.Equal(t, "Комедия", got.Genres[0].Name)
	require.NotNil(t, got.Directors)
	require.NotNil(t, got.Likes)

	got.Name = "The Matrix"
	got.Genres = []domain.Genre{{ID: 6}}
	got.Mpa = domain.Mpa{ID: 4}
	require.NoError(t, s.Films.Update(ctx, got))
	got, err = s.Films.GetByID(ctx, film.ID)
	require.NoError(t, err)
	require.Equal(t, "The Matrix", got.Name)
	require.Equal(t, "R", got.Mpa.Name)
	require.Equal(t, []int64{6}, got.GenreIDs())

	// Ссылка на несуществующий жанр откатывает обновление целиком.
	broken := *got
	broken.Name = "Broken"
	broken.Genres = []domain.Genre{{ID: 1}, {ID: 999}}
	require.ErrorIs(t, s.Films.Update(ctx, &broken), ErrReferenceNotFound)
	got, err = s.Films.GetByID(ctx, film.ID)
	require.NoError(t, err)
	require.Equal(t, "The Matrix", got.Name)
	require.Equal(t, []int64{6}, got.GenreIDs())

	missing := *got
	missing.ID = film.ID + 100
	require.ErrorIs(t, s.Films.Update(ctx, &missing), ErrFilmNotFound)

	second := createFilm(t, s, "Second", domain.NewDate(2001, 1, 1))
	list, err := s.Films.ListByIDs(ctx, []int64{second.ID, film.ID, film.ID + 100})
	require.NoError(t, err)
	require.Equal(t, []int64{film.ID, second.ID}, ids(list))

	all, err := s.Films.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, s.Films.Delete(ctx, film.ID))
	require.ErrorIs(t, s.Films.Delete(ctx, film.ID), ErrFilmNotFound)
	_, err = s.Films.GetByID(ctx, film.ID)
	require.ErrorIs(t, err, ErrFilmNotFound)
}

func testLikes(t *testing.T, s *Stores) {
	ctx := context.Background()
	f1 := createFilm(t, s, "F1", domain.NewDate(1999, 1, 1), 1)
	f2 := createFilm(t, s, "F2", domain.NewDate(2000, 1, 1), 2)
	f3 := createFilm(t, s, "F3", domain.NewDate(1999, 6, 1), 1)
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")

	require.NoError(t, s.Likes.Add(ctx, f1.ID, a.ID))
	require.NoError(t, s.Likes.Add(ctx, f1.ID, b.ID))
	require.NoError(t, s.Likes.Add(ctx, f3.ID, a.ID))
	require.ErrorIs(t, s.Likes.Add(ctx, f1.ID, a.ID), ErrLikeAlreadyExists)
	require.ErrorIs(t, s.Likes.Add(ctx, f1.ID, b.ID+100), ErrReferenceNotFound)

	popular, err := s.Films.Popular(ctx, domain.PopularParams{Count: 3})
	require.NoError(t, err)
	require.Equal(t, []int64{f1.ID, f3.ID, f2.ID}, ids(popular))
	require.Equal(t, 2, popular[0].LikesCount())

	popular, err = s.Films.Popular(ctx, domain.PopularParams{Count: 10, GenreID: 1, Year: 1999})
	require.NoError(t, err)
	require.Equal(t, []int64{f1.ID, f3.ID}, ids(popular))

	common, err := s.Films.Common(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{f1.ID}, ids(common))

	users, err := s.Likes.UserIDsByFilm(ctx, f1.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{a.ID, b.ID}, users)

	films, err := s.Likes.FilmIDsByUser(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{f1.ID, f3.ID}, films)

	matrix, err := s.Likes.LikesByUser(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{f1.ID, f3.ID}, matrix[a.ID])
	require.ElementsMatch(t, []int64{f1.ID}, matrix[b.ID])

	require.NoError(t, s.Likes.Remove(ctx, f1.ID, b.ID))
	require.ErrorIs(t, s.Likes.Remove(ctx, f1.ID, b.ID), ErrLikeNotFound)

	empty, err := s.Likes.UserIDsByFilm(ctx, f2.ID)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func testFriendships(t *testing.T, s *Stores) {
	ctx := context.Background()
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")
	c := createUser(t, s, "c")

	require.NoError(t, s.Friendships.Save(ctx, &domain.Friendship{UserID: a.ID, FriendID: b.ID, Status: domain.FriendshipPending}))
	require.NoError(t, s.Friendships.Save(ctx, &domain.Friendship{UserID: a.ID, FriendID: b.ID, Status: domain.FriendshipConfirmed}))
	require.NoError(t, s.Friendships.Save(ctx, &domain.Friendship{UserID: a.ID, FriendID: c.ID, Status: domain.FriendshipPending}))
	require.NoError(t, s.Friendships.Save(ctx, &domain.Friendship{UserID: b.ID, FriendID: c.ID, Status: domain.FriendshipPending}))
	require.ErrorIs(t, s.Friendships.Save(ctx, &domain.Friendship{UserID: a.ID, FriendID: c.ID + 100, Status: domain.FriendshipPending}), ErrReferenceNotFound)

	f, err := s.Friendships.Get(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.FriendshipConfirmed, f.Status)
	_, err = s.Friendships.Get(ctx, b.ID, a.ID)
	require.ErrorIs(t, err, ErrFriendshipNotFound)

	friends, err := s.Friendships.Friends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	require.Equal(t, b.ID, friends[0].ID)
	require.Equal(t, "b@x.com", friends[0].Email)
	require.Equal(t, domain.FriendshipConfirmed, friends[0].Status)

	common, err := s.Friendships.CommonFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	require.Equal(t, c.ID, common[0].ID)

	deleted, err := s.Friendships.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, deleted)
	deleted, err = s.Friendships.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func testReviews(t *testing.T, s *Stores) {
	ctx := context.Background()
	film := createFilm(t, s, "Matrix", domain.NewDate(1999, 3, 31))
	author := createUser(t, s, "author")
	u1 := createUser(t, s, "u1")
	u2 := createUser(t, s, "u2")

	r1 := &domain.Review{Content: "good", IsPositive: true, UserID: author.ID, FilmID: film.ID}
	require.NoError(t, s.Reviews.Create(ctx, r1))
	r2 := &domain.Review{Content: "bad", IsPositive: false, UserID: author.ID, FilmID: film.ID}
	require.NoError(t, s.Reviews.Create(ctx, r2))
	require.ErrorIs(t, s.Reviews.Create(ctx, &domain.Review{Content: "x", UserID: author.ID, FilmID: film.ID + 100}), ErrReferenceNotFound)

	require.NoError(t, s.Reactions.Add(ctx, &domain.ReviewReaction{ReviewID: r2.ID, UserID: u1.ID, IsLike: true}))
	require.NoError(t, s.Reactions.Add(ctx, &domain.ReviewReaction{ReviewID: r2.ID, UserID: u2.ID, IsLike: true}))
	require.ErrorIs(t, s.Reactions.Add(ctx, &domain.ReviewReaction{ReviewID: r2.ID, UserID: u2.ID, IsLike: false}), ErrReactionAlreadyExists)

	useful, err := s.Reactions.Useful(ctx, r2.ID)
	require.NoError(t, err)
	require.Equal(t, 2, useful)

	require.ErrorIs(t, s.Reactions.Switch(ctx, r2.ID, u1.ID, true), ErrReactionNotFound)
	require.NoError(t, s.Reactions.Switch(ctx, r2.ID, u1.ID, false))
	useful, err = s.Reactions.Useful(ctx, r2.ID)
	require.NoError(t, err)
	require.Equal(t, 0, useful)

	reaction, err := s.Reactions.Get(ctx, r2.ID, u1.ID)
	require.NoError(t, err)
	require.False(t, reaction.IsLike)

	require.ErrorIs(t, s.Reactions.Remove(ctx, r2.ID, u1.ID, true), ErrReactionNotFound)
	require.NoError(t, s.Reactions.Remove(ctx, r2.ID, u1.ID, false))
	_, err = s.Reactions.Get(ctx, r2.ID, u1.ID)
	require.ErrorIs(t, err, ErrReactionNotFound)

	list, err := s.Reviews.List(ctx, film.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, r2.ID, list[0].ID)
	require.Equal(t, 1, list[0].Useful)
	require.False(t, list[0].CreatedAt.IsZero())

	list, err = s.Reviews.List(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	r1.Content = "very good"
	require.NoError(t, s.Reviews.Update(ctx, r1))
	got, err := s.Reviews.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	require.Equal(t, "very good", got.Content)

	require.NoError(t, s.Reviews.Delete(ctx, r2.ID))
	require.ErrorIs(t, s.Reviews.Delete(ctx, r2.ID), ErrReviewNotFound)
	_, err = s.Reviews.GetByID(ctx, r2.ID)
	require.ErrorIs(t, err, ErrReviewNotFound)
}

func testEvents(t *testing.T, s *Stores) {
	ctx := context.Background()
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")
	c := createUser(t, s, "c")
	require.NoError(t, s.Friendships.Save(ctx, &domain.Friendship{UserID: a.ID, FriendID: b.ID, Status: domain.FriendshipPending}))

	add := func(userID, ts int64) *domain.Event {
		e := &domain.Event{Timestamp: ts, UserID: userID, EventType: domain.EventLike, Operation: domain.OperationAdd, EntityID: 1}
		require.NoError(t, s.Events.Add(ctx, e))
		require.Positive(t, e.ID)
		return e
	}
	late := add(a.ID, 300)
	tie1 := add(b.ID, 100)
	tie2 := add(a.ID, 100)
	add(c.ID, 50)

	feed, err := s.Events.Feed(ctx, a.ID)
	require.NoError(t, err)
	got := make([]int64, 0, len(feed))
	for _, e := range feed {
		got = append(got, e.ID)
	}
	require.Equal(t, []int64{tie1.ID, tie2.ID, late.ID}, got)

	feed, err = s.Events.Feed(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
}

func testDirectors(t *testing.T, s *Stores) {
	ctx := context.Background()
	d := &domain.Director{Name: "Lynch"}
	require.NoError(t, s.Directors.Create(ctx, d))

	old := &domain.Film{Name: "Eraserhead", ReleaseDate: domain.NewDate(1977, 3, 19), Duration: 89, Mpa: domain.Mpa{ID: 4}, Directors: []domain.Director{{ID: d.ID}}}
	require.NoError(t, s.Films.Create(ctx, old))
	newer := &domain.Film{Name: "Dune", ReleaseDate: domain.NewDate(1984, 12, 14), Duration: 137, Mpa: domain.Mpa{ID: 3}, Directors: []domain.Director{{ID: d.ID}}}
	require.NoError(t, s.Films.Create(ctx, newer))
	u := createUser(t, s, "u")
	require.NoError(t, s.Likes.Add(ctx, newer.ID, u.ID))

	byYear, err := s.Films.ByDirector(ctx, d.ID, domain.SortByYear)
	require.NoError(t, err)
	require.Equal(t, []int64{old.ID, newer.ID}, ids(byYear))
	byLikes, err := s.Films.ByDirector(ctx, d.ID, domain.SortByLikes)
	require.NoError(t, err)
	require.Equal(t, []int64{newer.ID, old.ID}, ids(byLikes))

	d.Name = "David Lynch"
	require.NoError(t, s.Directors.Update(ctx, d))
	got, err := s.Films.GetByID(ctx, old.ID)
	require.NoError(t, err)
	require.Equal(t, "David Lynch", got.Directors[0].Name)

	require.NoError(t, s.Directors.Delete(ctx, d.ID))
	require.ErrorIs(t, s.Directors.Delete(ctx, d.ID), ErrDirectorNotFound)
	got, err = s.Films.GetByID(ctx, old.ID)
	require.NoError(t, err)
	require.Empty(t, got.Directors)
}

func testReference(t *testing.T, s *Stores) {
	ctx := context.Background()
	genres, err := s.Genres.List(ctx)
	require.NoError(t, err)
	require.Len(t, genres, 6)
	require.Equal(t, "Комедия", genres[0].Name)

	ratings, err := s.Mpa.List(ctx)
	require.NoError(t, err)
	require.Len(t, ratings, 5)
	require.Equal(t, "NC-17", ratings[4].Name)

	_, err = s.Genres.GetByID(ctx, 99)
	require.ErrorIs(t, err, ErrGenreNotFound)
	_, err = s.Mpa.GetByID(ctx, 99)
	require.ErrorIs(t, err, ErrMpaNotFound)
}
