package domain

// FriendshipStatus статус направленной связи дружбы.
type FriendshipStatus string

const (
	FriendshipPending   FriendshipStatus = "PENDING"
	FriendshipConfirmed FriendshipStatus = "CONFIRMED"
)

// Valid сообщает, входит ли статус в допустимый набор.
func (s FriendshipStatus) Valid() bool {
	return s == FriendshipPending || s == FriendshipConfirmed
}

// Friendship ребро user -> friend.
type Friendship struct {
	UserID   int64            `json:"userId" db:"user_id"`
	FriendID int64            `json:"friendId" db:"friend_id"`
	Status   FriendshipStatus `json:"status" db:"status"`
}

// Friend профиль друга вместе со статусом исходящего ребра.
type Friend struct {
	User
	Status FriendshipStatus `json:"status" db:"status"`
}

// FriendshipStatusRequest тело запроса PUT /users/friends.
type FriendshipStatusRequest struct {
	UserID   int64  `json:"userId" validate:"gt=0"`
	FriendID int64  `json:"friendId" validate:"gt=0"`
	Status   string `json:"status" validate:"required"`
}
