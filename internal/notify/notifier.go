package notify

import "context"

// EventType enumerates notification identifiers pushed to live clients.
type EventType string

const (
	EventTicketCreated   EventType = "TICKET_CREATED"
	EventStatusChanged   EventType = "STATUS_CHANGED"
	EventReplySent       EventType = "REPLY_SENT"
	EventAssignedToHuman EventType = "ASSIGNED_TO_HUMAN"
)

// Event is a fire-and-forget notification. Delivery is attempted at most
// once; there is no acknowledgment and no retry.
type Event struct {
	Type     EventType      `json:"type"`
	TicketID string         `json:"ticketId"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Notifier publishes events to interested live clients. Implementations
// must never block the caller on slow consumers.
type Notifier interface {
	Publish(ctx context.Context, event Event)
}
