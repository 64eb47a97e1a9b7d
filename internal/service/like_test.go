package service

import (
	"context"
	"testing"

	"filmorate/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestAddLikeRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	film := mustFilm(t, s, "Matrix")
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")

	mustLike(t, s, film.ID, a.ID)
	err := s.Likes.AddLike(ctx, film.ID, a.ID)
	require.ErrorIs(t, err, ErrConflict)

	likes, err := s.Likes.FilmLikes(ctx, film.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{a.ID}, likes)

	mustLike(t, s, film.ID, b.ID)
	likes, err = s.Likes.FilmLikes(ctx, film.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{a.ID, b.ID}, likes)
}

func TestLikeErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	film := mustFilm(t, s, "Matrix")
	a := mustUser(t, s, "a")

	require.ErrorIs(t, s.Likes.AddLike(ctx, 999, a.ID), ErrNotFound)
	require.ErrorIs(t, s.Likes.AddLike(ctx, film.ID, 999), ErrNotFound)
	require.ErrorIs(t, s.Likes.RemoveLike(ctx, film.ID, a.ID), ErrNotFound)
}

func TestPopularOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	f1 := mustFilm(t, s, "F1")
	f2 := mustFilm(t, s, "F2")
	f3 := mustFilm(t, s, "F3")
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")

	mustLike(t, s, f1.ID, a.ID, b.ID)
	mustLike(t, s, f3.ID, a.ID)

	films, err := s.Likes.Popular(ctx, domain.PopularParams{Count: 3})
	require.NoError(t, err)
	require.Equal(t, []int64{f1.ID, f3.ID, f2.ID}, filmIDs(films))

	films, err = s.Likes.Popular(ctx, domain.PopularParams{Count: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{f1.ID}, filmIDs(films))
}

func TestPopularDefaultCountAndTies(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	var want []int64
	for i := 0; i < 12; i++ {
		f := mustFilm(t, s, "film")
		if len(want) < DefaultListCount {
			want = append(want, f.ID)
		}
	}

	films, err := s.Likes.Popular(ctx, domain.PopularParams{})
	require.NoError(t, err)
	require.Equal(t, want, filmIDs(films))
}

func TestPopularFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	comedy := mustFilm(t, s, "Comedy", 1)
	drama, err := s.Films.Create(ctx, filmRequest("Drama", domain.NewDate(1985, 6, 1), 2))
	require.NoError(t, err)
	both, err := s.Films.Create(ctx, filmRequest("Both", domain.NewDate(1985, 2, 1), 1, 2))
	require.NoError(t, err)
	a := mustUser(t, s, "a")
	mustLike(t, s, both.ID, a.ID)

	films, err := s.Likes.Popular(ctx, domain.PopularParams{GenreID: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{both.ID, comedy.ID}, filmIDs(films))

	films, err = s.Likes.Popular(ctx, domain.PopularParams{Year: 1985})
	require.NoError(t, err)
	require.Equal(t, []int64{both.ID, drama.ID}, filmIDs(films))

	films, err = s.Likes.Popular(ctx, domain.PopularParams{GenreID: 2, Year: 2000})
	require.NoError(t, err)
	require.Empty(t, films)
}

func TestCommonFilmsSymmetry(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	f1 := mustFilm(t, s, "F1")
	f2 := mustFilm(t, s, "F2")
	f3 := mustFilm(t, s, "F3")
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")
	c := mustUser(t, s, "c")

	mustLike(t, s, f1.ID, a.ID, b.ID)
	mustLike(t, s, f2.ID, a.ID, b.ID, c.ID)
	mustLike(t, s, f3.ID, a.ID)

	ab, err := s.Likes.Common(ctx, a.ID, b.ID)
	require.NoError(t, err)
	ba, err := s.Likes.Common(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, filmIDs(ab), filmIDs(ba))
	// f2 популярнее f1.
	require.Equal(t, []int64{f2.ID, f1.ID}, filmIDs(ab))

	_, err = s.Likes.Common(ctx, a.ID, a.ID)
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.Likes.Common(ctx, a.ID, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilmsByDirector(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	director, err := s.Directors.Create(ctx, &domain.DirectorRequest{Name: "Wachowski"})
	require.NoError(t, err)

	newer := filmRequest("Newer", domain.NewDate(2003, 5, 15))
	newer.Directors = []domain.Ref{{ID: director.ID}}
	older := filmRequest("Older", domain.NewDate(1999, 3, 31))
	older.Directors = []domain.Ref{{ID: director.ID}}
	fNewer, err := s.Films.Create(ctx, newer)
	require.NoError(t, err)
	fOlder, err := s.Films.Create(ctx, older)
	require.NoError(t, err)
	a := mustUser(t, s, "a")
	mustLike(t, s, fNewer.ID, a.ID)

	tests := []struct {
		sortBy string
		want   []int64
	}{
		{sortBy: "", want: []int64{fOlder.ID, fNewer.ID}},
		{sortBy: "year", want: []int64{fOlder.ID, fNewer.ID}},
		{sortBy: "likes", want: []int64{fNewer.ID, fOlder.ID}},
	}
	for _, tt := range tests {
		t.Run("sortBy="+tt.sortBy, func(t *testing.T) {
			films, err := s.Likes.ByDirector(ctx, director.ID, tt.sortBy)
			require.NoError(t, err)
			require.Equal(t, tt.want, filmIDs(films))
		})
	}

	_, err = s.Likes.ByDirector(ctx, director.ID, "rating")
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.Likes.ByDirector(ctx, 999, "year")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMatrixScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")
	matrix, err := s.Films.Create(ctx, &domain.FilmRequest{
		Name:        "Matrix",
		ReleaseDate: domain.NewDate(1999, 3, 31),
		Duration:    136,
		Mpa:         &domain.Ref{ID: 1},
	})
	require.NoError(t, err)

	popularLikes := func() int {
		films, err := s.Likes.Popular(ctx, domain.PopularParams{Count: 10})
		require.NoError(t, err)
		require.Len(t, films, 1)
		require.Equal(t, matrix.ID, films[0].ID)
		return films[0].LikesCount()
	}

	mustLike(t, s, matrix.ID, a.ID)
	require.Equal(t, 1, popularLikes())
	mustLike(t, s, matrix.ID, b.ID)
	require.Equal(t, 2, popularLikes())
	require.NoError(t, s.Likes.RemoveLike(ctx, matrix.ID, b.ID))
	require.Equal(t, 1, popularLikes())
}
