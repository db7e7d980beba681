package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
}

// ReplyRequest payload.
type ReplyRequest struct {
	Message string `json:"message"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// TicketResponse serializes a ticket.
type TicketResponse struct {
	ID           string                `json:"id"`
	ExternalKey  string                `json:"external_key"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Category     domain.TicketCategory `json:"category"`
	Status       domain.TicketStatus   `json:"status"`
	TraceID      string                `json:"trace_id"`
	CreatedBy    string                `json:"created_by"`
	AssigneeID   *string               `json:"assignee_id,omitempty"`
	SuggestionID *string               `json:"suggestion_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketFromDomain maps the aggregate to its response form.
func TicketFromDomain(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		ExternalKey:  ticket.ExternalKey,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Category:     ticket.Category,
		Status:       ticket.Status,
		TraceID:      ticket.TraceID,
		CreatedBy:    ticket.CreatedBy,
		AssigneeID:   ticket.AssigneeID,
		SuggestionID: ticket.SuggestionID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}
