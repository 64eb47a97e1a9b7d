package domain

// User пользователь сервиса.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email"`
	Login    string `json:"login" db:"login"`
	Name     string `json:"name" db:"name"`
	Birthday Date   `json:"birthday" db:"birthday"`
}

// UserRequest тело запроса на создание или обновление пользователя (HTTP).
type UserRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Login    string `json:"login" validate:"notblank,max=64"`
	Name     string `json:"name" validate:"max=255"`
	Birthday Date   `json:"birthday"`
}
