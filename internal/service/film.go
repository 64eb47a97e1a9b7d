package service

import (
	"context"
	"errors"
	"log/slog"

	"filmorate/internal/cache"
	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// FilmService каталог фильмов.
type FilmService struct {
	gate   *Gate
	films  store.FilmStore
	cache  *cache.Cache
	logger *slog.Logger
}

// buildFilm проверяет запрос и ссылки на справочники. Повторяющиеся жанры и режиссёры
// схлопываются с сохранением порядка.
func (s *FilmService) buildFilm(ctx context.Context, req *domain.FilmRequest) (*domain.Film, error) {
	if req.ReleaseDate.IsZero() {
		return nil, validation("releaseDate is required")
	}
	if req.ReleaseDate.Before(domain.CinemaBirthday.Time) {
		return nil, validation("releaseDate must not be before %s", domain.CinemaBirthday)
	}
	if req.Mpa == nil {
		return nil, validation("mpa is required")
	}
	if err := s.gate.RequireMpa(ctx, req.Mpa.ID); err != nil {
		return nil, err
	}

	film := &domain.Film{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		Duration:    req.Duration,
		Mpa:         domain.Mpa{ID: req.Mpa.ID},
		Genres:      []domain.Genre{},
		Directors:   []domain.Director{},
	}
	seen := make(map[int64]bool)
	for _, g := range req.Genres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		if err := s.gate.RequireGenre(ctx, g.ID); err != nil {
			return nil, err
		}
		film.Genres = append(film.Genres, domain.Genre{ID: g.ID})
	}
	clear(seen)
	for _, d := range req.Directors {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		if err := s.gate.RequireDirector(ctx, d.ID); err != nil {
			return nil, err
		}
		film.Directors = append(film.Directors, domain.Director{ID: d.ID})
	}
	return film, nil
}

func (s *FilmService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.NamespacePopular, cache.NamespaceRecommendations)
}

func (s *FilmService) Create(ctx context.Context, req *domain.FilmRequest) (*domain.Film, error) {
	film, err := s.buildFilm(ctx, req)
	if err != nil {
		return nil, err
	}
	film.ID = 0
	if err := s.films.Create(ctx, film); err != nil {
		if errors.Is(err, store.ErrReferenceNotFound) {
			return nil, notFound("film references a missing genre, director or mpa rating")
		}
		return nil, internal(err, "failed to create film")
	}
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "Film created", slog.Int64("filmID", film.ID), slog.String("name", film.Name))
	return s.Get(ctx, film.ID)
}

// Update заменяет фильм, его жанры и режиссёров одной транзакцией.
func (s *FilmService) Update(ctx context.Context, req *domain.FilmRequest) (*domain.Film, error) {
	if req.ID <= 0 {
		return nil, validation("film id is required")
	}
	if err := s.gate.RequireFilm(ctx, req.ID); err != nil {
		return nil, err
	}
	film, err := s.buildFilm(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.films.Update(ctx, film); err != nil {
		switch {
		case errors.Is(err, store.ErrFilmNotFound):
			return nil, notFound("film with id %d not found", film.ID)
		case errors.Is(err, store.ErrReferenceNotFound):
			return nil, notFound("film references a missing genre, director or mpa rating")
		}
		return nil, internal(err, "failed to update film %d", film.ID)
	}
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "Film updated", slog.Int64("filmID", film.ID))
	return s.Get(ctx, film.ID)
}

// Delete удаляет фильм вместе с его лайками и отзывами.
func (s *FilmService) Delete(ctx context.Context, id int64) error {
	if err := s.films.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			return notFound("film with id %d not found", id)
		}
		return internal(err, "failed to delete film %d", id)
	}
	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

func (s *FilmService) Get(ctx context.Context, id int64) (*domain.Film, error) {
	film, err := s.films.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			return nil, notFound("film with id %d not found", id)
		}
		return nil, internal(err, "failed to get film %d", id)
	}
	return film, nil
}

func (s *FilmService) List(ctx context.Context) ([]*domain.Film, error) {
	films, err := s.films.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list films")
	}
	return films, nil
}

// DirectorService справочник режиссёров.
type DirectorService struct {
	directors store.DirectorStore
	cache     *cache.Cache
	logger    *slog.Logger
}

func (s *DirectorService) Create(ctx context.Context, req *domain.DirectorRequest) (*domain.Director, error) {
	d := &domain.Director{Name: req.Name}
	if err := s.directors.Create(ctx, d); err != nil {
		return nil, internal(err, "failed to create director")
	}
	s.logger.InfoContext(ctx, "Director created", slog.Int64("directorID", d.ID))
	return d, nil
}

func (s *DirectorService) Update(ctx context.Context, req *domain.DirectorRequest) (*domain.Director, error) {
	if req.ID <= 0 {
		return nil, validation("director id is required")
	}
	d := &domain.Director{ID: req.ID, Name: req.Name}
	if err := s.directors.Update(ctx, d); err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return nil, notFound("director with id %d not found", req.ID)
		}
		return nil, internal(err, "failed to update director %d", req.ID)
	}
	s.cache.Invalidate(ctx, cache.NamespacePopular, cache.NamespaceRecommendations)
	s.logger.InfoContext(ctx, "Director updated", slog.Int64("directorID", d.ID))
	return d, nil
}

// Delete удаляет режиссёра и его связи с фильмами.
func (s *DirectorService) Delete(ctx context.Context, id int64) error {
	if err := s.directors.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return notFound("director with id %d not found", id)
		}
		return internal(err, "failed to delete director %d", id)
	}
	s.cache.Invalidate(ctx, cache.NamespacePopular, cache.NamespaceRecommendations)
	s.logger.InfoContext(ctx, "Director deleted", slog.Int64("directorID", id))
	return nil
}

func (s *DirectorService) Get(ctx context.Context, id int64) (*domain.Director, error) {
	d, err := s.directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return nil, notFound("director with id %d not found", id)
		}
		return nil, internal(err, "failed to get director %d", id)
	}
	return d, nil
}

func (s *DirectorService) List(ctx context.Context) ([]*domain.Director, error) {
	ds, err := s.directors.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list directors")
	}
	return ds, nil
}

// CatalogService справочники жанров и рейтингов MPA (только чтение).
type CatalogService struct {
	genres store.GenreStore
	mpa    store.MpaStore
}

func (s *CatalogService) Genres(ctx context.Context) ([]*domain.Genre, error) {
	gs, err := s.genres.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list genres")
	}
	return gs, nil
}

func (s *CatalogService) Genre(ctx context.Context, id int64) (*domain.Genre, error) {
	g, err := s.genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrGenreNotFound) {
			return nil, notFound("genre with id %d not found", id)
		}
		return nil, internal(err, "failed to get genre %d", id)
	}
	return g, nil
}

func (s *CatalogService) MpaRatings(ctx context.Context) ([]*domain.Mpa, error) {
	ms, err := s.mpa.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list mpa ratings")
	}
	return ms, nil
}

func (s *CatalogService) Mpa(ctx context.Context, id int64) (*domain.Mpa, error) {
	m, err := s.mpa.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMpaNotFound) {
			return nil, notFound("mpa rating with id %d not found", id)
		}
		return nil, internal(err, "failed to get mpa rating %d", id)
	}
	return m, nil
}
