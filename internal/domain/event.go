package domain

// EventType тип события ленты.
type EventType string

const (
	EventLike   EventType = "LIKE"
	EventReview EventType = "REVIEW"
	EventFriend EventType = "FRIEND"
)

// EventOperation операция над сущностью события.
type EventOperation string

const (
	OperationAdd    EventOperation = "ADD"
	OperationRemove EventOperation = "REMOVE"
	OperationUpdate EventOperation = "UPDATE"
)

// Event неизменяемая запись ленты активности. Timestamp в миллисекундах Unix.
type Event struct {
	ID        int64          `json:"eventId" db:"id"`
	Timestamp int64          `json:"timestamp" db:"ts"`
	UserID    int64          `json:"userId" db:"user_id"`
	EventType EventType      `json:"eventType" db:"event_type"`
	Operation EventOperation `json:"operation" db:"operation"`
	EntityID  int64          `json:"entityId" db:"entity_id"`
}
