package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"filmorate/internal/domain"
)

// useful вычисляет полезность отзыва по реакциям. Вызывается под блокировкой.
func (m *MockDB) useful(reviewID int64) int {
	useful := 0
	for key, isLike := range m.reactions {
		if key.reviewID != reviewID {
			continue
		}
		if isLike {
			useful++
		} else {
			useful--
		}
	}
	return useful
}

// deleteReview удаляет отзыв вместе с реакциями. Вызывается под блокировкой.
func (m *MockDB) deleteReview(id int64) {
	delete(m.reviews, id)
	for key := range m.reactions {
		if key.reviewID == id {
			delete(m.reactions, key)
		}
	}
}

func (m *MockDB) reviewCopy(r *domain.Review) *domain.Review {
	c := *r
	c.Useful = m.useful(r.ID)
	return &c
}

type mockReviewStore struct{ db *MockDB }

func (s *mockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[review.UserID]; !ok {
		return fmt.Errorf("%w: user %d", ErrReferenceNotFound, review.UserID)
	}
	if _, ok := s.db.films[review.FilmID]; !ok {
		return fmt.Errorf("%w: film %d", ErrReferenceNotFound, review.FilmID)
	}
	s.db.nextReviewID++
	review.ID = s.db.nextReviewID
	review.CreatedAt = time.Now().UTC()
	review.Useful = 0
	c := *review
	s.db.reviews[review.ID] = &c
	return nil
}

func (s *mockReviewStore) Update(ctx context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.reviews[review.ID]
	if !ok {
		return ErrReviewNotFound
	}
	stored.Content = review.Content
	stored.IsPositive = review.IsPositive
	return nil
}

func (s *mockReviewStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	s.db.deleteReview(id)
	return nil
}

func (s *mockReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	r, ok := s.db.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return s.db.reviewCopy(r), nil
}

func (s *mockReviewStore) List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	reviews := []*domain.Review{}
	for _, r := range s.db.reviews {
		if filmID != 0 && r.FilmID != filmID {
			continue
		}
		reviews = append(reviews, s.db.reviewCopy(r))
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].Useful != reviews[j].Useful {
			return reviews[i].Useful > reviews[j].Useful
		}
		return reviews[i].ID < reviews[j].ID
	})
	if count >= 0 && len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

func (s *mockReviewStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.reviews[id]
	return ok, nil
}

type mockReactionStore struct{ db *MockDB }

func (s *mockReactionStore) Get(ctx context.Context, reviewID, userID int64) (*domain.ReviewReaction, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	isLike, ok := s.db.reactions[reactionKey{reviewID, userID}]
	if !ok {
		return nil, ErrReactionNotFound
	}
	return &domain.ReviewReaction{ReviewID: reviewID, UserID: userID, IsLike: isLike}, nil
}

func (s *mockReactionStore) Add(ctx context.Context, r *domain.ReviewReaction) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.reviews[r.ReviewID]; !ok {
		return fmt.Errorf("%w: review %d", ErrReferenceNotFound, r.ReviewID)
	}
	if _, ok := s.db.users[r.UserID]; !ok {
		return fmt.Errorf("%w: user %d", ErrReferenceNotFound, r.UserID)
	}
	key := reactionKey{r.ReviewID, r.UserID}
	if _, dup := s.db.reactions[key]; dup {
		return ErrReactionAlreadyExists
	}
	s.db.reactions[key] = r.IsLike
	return nil
}

func (s *mockReactionStore) Switch(ctx context.Context, reviewID, userID int64, isLike bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := reactionKey{reviewID, userID}
	current, ok := s.db.reactions[key]
	if !ok || current == isLike {
		return ErrReactionNotFound
	}
	s.db.reactions[key] = isLike
	return nil
}

func (s *mockReactionStore) Remove(ctx context.Context, reviewID, userID int64, isLike bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := reactionKey{reviewID, userID}
	current, ok := s.db.reactions[key]
	if !ok || current != isLike {
		return ErrReactionNotFound
	}
	delete(s.db.reactions, key)
	return nil
}

func (s *mockReactionStore) Useful(ctx context.Context, reviewID int64) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.useful(reviewID), nil
}

type mockEventStore struct{ db *MockDB }

func (s *mockEventStore) Add(ctx context.Context, e *domain.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextEventID++
	e.ID = s.db.nextEventID
	s.db.events = append(s.db.events, *e)
	return nil
}

func (s *mockEventStore) Feed(ctx context.Context, userID int64) ([]*domain.Event, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	friends := s.db.friendIDs(userID)
	events := []*domain.Event{}
	for i := range s.db.events {
		e := s.db.events[i]
		if _, ok := friends[e.UserID]; e.UserID == userID || ok {
			events = append(events, &e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp < events[j].Timestamp
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

type mockDirectorStore struct{ db *MockDB }

func (s *mockDirectorStore) Create(ctx context.Context, d *domain.Director) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextDirectorID++
	d.ID = s.db.nextDirectorID
	c := *d
	s.db.directors[d.ID] = &c
	return nil
}

func (s *mockDirectorStore) Update(ctx context.Context, d *domain.Director) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.directors[d.ID]; !ok {
		return ErrDirectorNotFound
	}
	c := *d
	s.db.directors[d.ID] = &c
	return nil
}

func (s *mockDirectorStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.directors[id]; !ok {
		return ErrDirectorNotFound
	}
	delete(s.db.directors, id)
	for _, rec := range s.db.films {
		kept := rec.directorIDs[:0]
		for _, d := range rec.directorIDs {
			if d != id {
				kept = append(kept, d)
			}
		}
		rec.directorIDs = kept
	}
	return nil
}

func (s *mockDirectorStore) GetByID(ctx context.Context, id int64) (*domain.Director, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	d, ok := s.db.directors[id]
	if !ok {
		return nil, ErrDirectorNotFound
	}
	c := *d
	return &c, nil
}

func (s *mockDirectorStore) List(ctx context.Context) ([]*domain.Director, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	directors := []*domain.Director{}
	for _, id := range sortedKeys(s.db.directors) {
		c := *s.db.directors[id]
		directors = append(directors, &c)
	}
	return directors, nil
}

func (s *mockDirectorStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.directors[id]
	return ok, nil
}

type mockGenreStore struct{ db *MockDB }

func (s *mockGenreStore) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	g, ok := s.db.genres[id]
	if !ok {
		return nil, ErrGenreNotFound
	}
	c := *g
	return &c, nil
}

func (s *mockGenreStore) List(ctx context.Context) ([]*domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	genres := []*domain.Genre{}
	for _, id := range sortedKeys(s.db.genres) {
		c := *s.db.genres[id]
		genres = append(genres, &c)
	}
	return genres, nil
}

func (s *mockGenreStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.genres[id]
	return ok, nil
}

type mockMpaStore struct{ db *MockDB }

func (s *mockMpaStore) GetByID(ctx context.Context, id int64) (*domain.Mpa, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.mpa[id]
	if !ok {
		return nil, ErrMpaNotFound
	}
	c := *m
	return &c, nil
}

func (s *mockMpaStore) List(ctx context.Context) ([]*domain.Mpa, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ratings := []*domain.Mpa{}
	for _, id := range sortedKeys(s.db.mpa) {
		c := *s.db.mpa[id]
		ratings = append(ratings, &c)
	}
	return ratings, nil
}

func (s *mockMpaStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.mpa[id]
	return ok, nil
}
