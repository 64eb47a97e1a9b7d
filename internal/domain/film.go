package domain

// CinemaBirthday первый публичный киносеанс; более ранние даты релиза недопустимы.
var CinemaBirthday = NewDate(1895, 12, 28)

// Film фильм вместе с жанрами, режиссёрами и лайками.
type Film struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ReleaseDate Date       `json:"releaseDate" db:"release_date"`
	Duration    int        `json:"duration" db:"duration"`
	Mpa         Mpa        `json:"mpa" db:"mpa"`
	Genres      []Genre    `json:"genres" db:"-"`
	Directors   []Director `json:"directors" db:"-"`
	Likes       []int64    `json:"likes" db:"-"` // ID пользователей, поставивших лайк
}

// LikesCount количество лайков фильма.
func (f *Film) LikesCount() int {
	return len(f.Likes)
}

// GenreIDs возвращает ID жанров фильма в исходном порядке.
func (f *Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// DirectorIDs возвращает ID режиссёров фильма в исходном порядке.
func (f *Film) DirectorIDs() []int64 {
	ids := make([]int64, 0, len(f.Directors))
	for _, d := range f.Directors {
		ids = append(ids, d.ID)
	}
	return ids
}

// Ref ссылка на справочную сущность по ID ({"id": 1}).
type Ref struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// FilmRequest тело запроса на создание или обновление фильма (HTTP).
// При обновлении жанры и режиссёры заменяются целиком.
type FilmRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description" validate:"max=200"`
	ReleaseDate Date   `json:"releaseDate"`
	Duration    int    `json:"duration" validate:"gt=0"`
	Mpa         *Ref   `json:"mpa" validate:"required"`
	Genres      []Ref  `json:"genres" validate:"omitempty,dive"`
	Directors   []Ref  `json:"directors" validate:"omitempty,dive"`
}

// PopularParams фильтры выборки популярных фильмов. Нулевые GenreID и Year означают "без фильтра".
type PopularParams struct {
	Count   int
	GenreID int64
	Year    int
}

// DirectorSort порядок фильмов режиссёра.
type DirectorSort string

const (
	SortByYear  DirectorSort = "year"
	SortByLikes DirectorSort = "likes"
)
