package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"filmorate/internal/domain"
)

type friendKey struct{ userID, friendID int64 }

type reactionKey struct{ reviewID, userID int64 }

// mockFilm строка фильма со ссылками на жанры и режиссёров по ID.
type mockFilm struct {
	film        domain.Film
	genreIDs    []int64
	directorIDs []int64
}

// MockDB in-memory база для тестов: карты по последовательным ID под одним мьютексом.
// Ведёт себя как схема PostgreSQL: уникальные ключи, внешние ключи и каскадные удаления.
type MockDB struct {
	mu sync.RWMutex

	nextFilmID, nextUserID, nextReviewID, nextEventID, nextDirectorID int64

	films       map[int64]*mockFilm
	users       map[int64]*domain.User
	friendships map[friendKey]domain.FriendshipStatus
	likes       map[int64]map[int64]struct{} // filmID -> userIDs
	reviews     map[int64]*domain.Review
	reactions   map[reactionKey]bool
	events      []domain.Event
	directors   map[int64]*domain.Director
	genres      map[int64]*domain.Genre
	mpa         map[int64]*domain.Mpa
}

// NewMockDB создает пустую базу с предзаполненными справочниками жанров и MPA.
func NewMockDB() *MockDB {
	m := &MockDB{
		films:       make(map[int64]*mockFilm),
		users:       make(map[int64]*domain.User),
		friendships: make(map[friendKey]domain.FriendshipStatus),
		likes:       make(map[int64]map[int64]struct{}),
		reviews:     make(map[int64]*domain.Review),
		reactions:   make(map[reactionKey]bool),
		directors:   make(map[int64]*domain.Director),
		genres:      make(map[int64]*domain.Genre),
		mpa:         make(map[int64]*domain.Mpa),
	}
	for i, name := range []string{"Комедия", "Драма", "Мультфильм", "Триллер", "Документальный", "Боевик"} {
		id := int64(i + 1)
		m.genres[id] = &domain.Genre{ID: id, Name: name}
	}
	for i, name := range []string{"G", "PG", "PG-13", "R", "NC-17"} {
		id := int64(i + 1)
		m.mpa[id] = &domain.Mpa{ID: id, Name: name}
	}
	return m
}

// NewMockStores возвращает набор хранилищ поверх новой MockDB.
func NewMockStores() *Stores {
	return NewMockDB().Stores()
}

// Stores возвращает представления MockDB под интерфейсы хранилищ.
func (m *MockDB) Stores() *Stores {
	return &Stores{
		Films:       &mockFilmStore{m},
		Users:       &mockUserStore{m},
		Friendships: &mockFriendshipStore{m},
		Likes:       &mockLikeStore{m},
		Reviews:     &mockReviewStore{m},
		Reactions:   &mockReactionStore{m},
		Events:      &mockEventStore{m},
		Directors:   &mockDirectorStore{m},
		Genres:      &mockGenreStore{m},
		Mpa:         &mockMpaStore{m},
	}
}

// hydrate собирает копию фильма с именами жанров и режиссёров. Вызывается под блокировкой.
func (m *MockDB) hydrate(rec *mockFilm) *domain.Film {
	film := rec.film
	film.Mpa = *m.mpa[rec.film.Mpa.ID]
	film.Genres = []domain.Genre{}
	for _, id := range sortedCopy(rec.genreIDs) {
		film.Genres = append(film.Genres, *m.genres[id])
	}
	film.Directors = []domain.Director{}
	for _, id := range sortedCopy(rec.directorIDs) {
		if d, ok := m.directors[id]; ok {
			film.Directors = append(film.Directors, *d)
		}
	}
	film.Likes = []int64{}
	for userID := range m.likes[rec.film.ID] {
		film.Likes = append(film.Likes, userID)
	}
	slices.Sort(film.Likes)
	return &film
}

// sortByLikes сортирует по убыванию лайков, при равенстве по возрастанию ID.
func (m *MockDB) sortByLikes(films []*domain.Film) {
	sort.SliceStable(films, func(i, j int) bool {
		li, lj := len(films[i].Likes), len(films[j].Likes)
		if li != lj {
			return li > lj
		}
		return films[i].ID < films[j].ID
	})
}

func sortedCopy(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type mockFilmStore struct{ db *MockDB }

func (s *mockFilmStore) checkRefs(film *domain.Film) error {
	if _, ok := s.db.mpa[film.Mpa.ID]; !ok {
		return fmt.Errorf("%w: mpa %d", ErrReferenceNotFound, film.Mpa.ID)
	}
	for _, id := range film.GenreIDs() {
		if _, ok := s.db.genres[id]; !ok {
			return fmt.Errorf("%w: genre %d", ErrReferenceNotFound, id)
		}
	}
	for _, id := range film.DirectorIDs() {
		if _, ok := s.db.directors[id]; !ok {
			return fmt.Errorf("%w: director %d", ErrReferenceNotFound, id)
		}
	}
	return nil
}

func (s *mockFilmStore) Create(ctx context.Context, film *domain.Film) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.checkRefs(film); err != nil {
		return err
	}
	s.db.nextFilmID++
	film.ID = s.db.nextFilmID
	s.db.films[film.ID] = &mockFilm{
		film:        domain.Film{ID: film.ID, Name: film.Name, Description: film.Description, ReleaseDate: film.ReleaseDate, Duration: film.Duration, Mpa: domain.Mpa{ID: film.Mpa.ID}},
		genreIDs:    sortedCopy(film.GenreIDs()),
		directorIDs: sortedCopy(film.DirectorIDs()),
	}
	return nil
}

// Update проверяет все ссылки до изменения записи, поэтому частичных обновлений не бывает.
func (s *mockFilmStore) Update(ctx context.Context, film *domain.Film) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.films[film.ID]
	if !ok {
		return ErrFilmNotFound
	}
	if err := s.checkRefs(film); err != nil {
		return err
	}
	rec.film = domain.Film{ID: film.ID, Name: film.Name, Description: film.Description, ReleaseDate: film.ReleaseDate, Duration: film.Duration, Mpa: domain.Mpa{ID: film.Mpa.ID}}
	rec.genreIDs = sortedCopy(film.GenreIDs())
	rec.directorIDs = sortedCopy(film.DirectorIDs())
	return nil
}

func (s *mockFilmStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.films[id]; !ok {
		return ErrFilmNotFound
	}
	delete(s.db.films, id)
	delete(s.db.likes, id)
	for reviewID, r := range s.db.reviews {
		if r.FilmID == id {
			s.db.deleteReview(reviewID)
		}
	}
	return nil
}

func (s *mockFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.films[id]
	if !ok {
		return nil, ErrFilmNotFound
	}
	return s.db.hydrate(rec), nil
}

func (s *mockFilmStore) List(ctx context.Context) ([]*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []*domain.Film{}
	for _, id := range sortedKeys(s.db.films) {
		films = append(films, s.db.hydrate(s.db.films[id]))
	}
	return films, nil
}

func (s *mockFilmStore) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []*domain.Film{}
	for _, id := range sortedCopy(ids) {
		if rec, ok := s.db.films[id]; ok {
			films = append(films, s.db.hydrate(rec))
		}
	}
	return films, nil
}

func (s *mockFilmStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.films[id]
	return ok, nil
}

func (s *mockFilmStore) Popular(ctx context.Context, params domain.PopularParams) ([]*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []*domain.Film{}
	for _, rec := range s.db.films {
		if params.GenreID != 0 && !slices.Contains(rec.genreIDs, params.GenreID) {
			continue
		}
		if params.Year != 0 && rec.film.ReleaseDate.Year() != params.Year {
			continue
		}
		films = append(films, s.db.hydrate(rec))
	}
	s.db.sortByLikes(films)
	if params.Count >= 0 && len(films) > params.Count {
		films = films[:params.Count]
	}
	return films, nil
}

func (s *mockFilmStore) Common(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []*domain.Film{}
	for filmID, users := range s.db.likes {
		_, a := users[userID]
		_, b := users[friendID]
		if a && b {
			films = append(films, s.db.hydrate(s.db.films[filmID]))
		}
	}
	s.db.sortByLikes(films)
	return films, nil
}

func (s *mockFilmStore) ByDirector(ctx context.Context, directorID int64, sortBy domain.DirectorSort) ([]*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []*domain.Film{}
	for _, rec := range s.db.films {
		if slices.Contains(rec.directorIDs, directorID) {
			films = append(films, s.db.hydrate(rec))
		}
	}
	if sortBy == domain.SortByLikes {
		s.db.sortByLikes(films)
		return films, nil
	}
	sort.SliceStable(films, func(i, j int) bool {
		if !films[i].ReleaseDate.Equal(films[j].ReleaseDate.Time) {
			return films[i].ReleaseDate.Before(films[j].ReleaseDate.Time)
		}
		return films[i].ID < films[j].ID
	})
	return films, nil
}

type mockUserStore struct{ db *MockDB }

func (s *mockUserStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range s.db.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (s *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.emailTaken(user.Email, 0) {
		return ErrEmailAlreadyExists
	}
	s.db.nextUserID++
	user.ID = s.db.nextUserID
	userCopy := *user
	s.db.users[user.ID] = &userCopy
	return nil
}

func (s *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return ErrEmailAlreadyExists
	}
	userCopy := *user
	s.db.users[user.ID] = &userCopy
	return nil
}

func (s *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

func (s *mockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	users := []*domain.User{}
	for _, id := range sortedKeys(s.db.users) {
		userCopy := *s.db.users[id]
		users = append(users, &userCopy)
	}
	return users, nil
}

func (s *mockUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.users[id]
	return ok, nil
}

type mockFriendshipStore struct{ db *MockDB }

func (s *mockFriendshipStore) Save(ctx context.Context, f *domain.Friendship) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[f.UserID]; !ok {
		return fmt.Errorf("%w: user %d", ErrReferenceNotFound, f.UserID)
	}
	if _, ok := s.db.users[f.FriendID]; !ok {
		return fmt.Errorf("%w: user %d", ErrReferenceNotFound, f.FriendID)
	}
	s.db.friendships[friendKey{f.UserID, f.FriendID}] = f.Status
	return nil
}

func (s *mockFriendshipStore) Get(ctx context.Context, userID, friendID int64) (*domain.Friendship, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	status, ok := s.db.friendships[friendKey{userID, friendID}]
	if !ok {
		return nil, ErrFriendshipNotFound
	}
	return &domain.Friendship{UserID: userID, FriendID: friendID, Status: status}, nil
}

func (s *mockFriendshipStore) Delete(ctx context.Context, userID, friendID int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := friendKey{userID, friendID}
	if _, ok := s.db.friendships[key]; !ok {
		return false, nil
	}
	delete(s.db.friendships, key)
	return true, nil
}

// friendIDs исходящие рёбра пользователя. Вызывается под блокировкой.
func (m *MockDB) friendIDs(userID int64) map[int64]domain.FriendshipStatus {
	out := make(map[int64]domain.FriendshipStatus)
	for key, status := range m.friendships {
		if key.userID == userID {
			out[key.friendID] = status
		}
	}
	return out
}

func (s *mockFriendshipStore) Friends(ctx context.Context, userID int64) ([]*domain.Friend, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	edges := s.db.friendIDs(userID)
	friends := []*domain.Friend{}
	for _, id := range sortedKeys(edges) {
		friends = append(friends, &domain.Friend{User: *s.db.users[id], Status: edges[id]})
	}
	return friends, nil
}

func (s *mockFriendshipStore) CommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	mine := s.db.friendIDs(userID)
	theirs := s.db.friendIDs(otherID)
	users := []*domain.User{}
	for _, id := range sortedKeys(mine) {
		if _, ok := theirs[id]; ok {
			userCopy := *s.db.users[id]
			users = append(users, &userCopy)
		}
	}
	return users, nil
}

type mockLikeStore struct{ db *MockDB }

func (s *mockLikeStore) Add(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.films[filmID]; !ok {
		return fmt.Errorf("%w: film %d", ErrReferenceNotFound, filmID)
	}
	if _, ok := s.db.users[userID]; !ok {
		return fmt.Errorf("%w: user %d", ErrReferenceNotFound, userID)
	}
	users, ok := s.db.likes[filmID]
	if !ok {
		users = make(map[int64]struct{})
		s.db.likes[filmID] = users
	}
	if _, dup := users[userID]; dup {
		return ErrLikeAlreadyExists
	}
	users[userID] = struct{}{}
	return nil
}

func (s *mockLikeStore) Remove(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	users := s.db.likes[filmID]
	if _, ok := users[userID]; !ok {
		return ErrLikeNotFound
	}
	delete(users, userID)
	return nil
}

func (s *mockLikeStore) UserIDsByFilm(ctx context.Context, filmID int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	ids := sortedKeys(s.db.likes[filmID])
	return ids, nil
}

func (s *mockLikeStore) FilmIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ids := []int64{}
	for _, filmID := range sortedKeys(s.db.likes) {
		if _, ok := s.db.likes[filmID][userID]; ok {
			ids = append(ids, filmID)
		}
	}
	return ids, nil
}

func (s *mockLikeStore) LikesByUser(ctx context.Context) (map[int64][]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	result := make(map[int64][]int64)
	for _, filmID := range sortedKeys(s.db.likes) {
		for userID := range s.db.likes[filmID] {
			result[userID] = append(result[userID], filmID)
		}
	}
	return result, nil
}
