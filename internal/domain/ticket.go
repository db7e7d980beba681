package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusTriaged      TicketStatus = "triaged"
	TicketStatusWaitingHuman TicketStatus = "waiting_human"
	TicketStatusResolved     TicketStatus = "resolved"
	TicketStatusClosed       TicketStatus = "closed"
)

// TicketCategory enumerates supported ticket topics.
type TicketCategory string

const (
	CategoryBilling  TicketCategory = "billing"
	CategoryTech     TicketCategory = "tech"
	CategoryShipping TicketCategory = "shipping"
	CategoryOther    TicketCategory = "other"
)

// Ticket is the aggregate for support requests.
//
// TraceID is assigned at creation and immutable afterwards; every audit
// event written for this ticket carries the same value.
type Ticket struct {
	ID           string
	ExternalKey  string
	Title        string
	Description  string
	Category     TicketCategory
	Status       TicketStatus
	TraceID      string
	CreatedBy    string
	AssigneeID   *string
	SuggestionID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
