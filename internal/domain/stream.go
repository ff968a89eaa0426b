package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamTripLink   = "stream:trip:link"
	StreamTripLinked = "stream:trip:linked"
)

// LinkTripEvent - входящее событие: связать поездку транспортом
type LinkTripEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Trip      *Trip     `json:"trip"`
}

// TripLinkedEvent - результат связывания
type TripLinkedEvent struct {
	RequestID uuid.UUID   `json:"request_id"`
	Trip      *Trip       `json:"trip,omitempty"`
	Report    *LinkReport `json:"report,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
