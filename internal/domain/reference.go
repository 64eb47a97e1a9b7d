package domain

// Genre жанр фильма (справочник).
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Mpa рейтинг Motion Picture Association (справочник).
type Mpa struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Director режиссёр.
type Director struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// DirectorRequest тело запроса на создание или обновление режиссёра (HTTP).
type DirectorRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"notblank,max=255"`
}
