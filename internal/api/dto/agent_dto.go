package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TriageRequest payload.
type TriageRequest struct {
	TicketID string `json:"ticketId"`
}

// SuggestionResponse serializes a triage suggestion.
type SuggestionResponse struct {
	ID                string                `json:"id"`
	TicketID          string                `json:"ticket_id"`
	PredictedCategory domain.TicketCategory `json:"predicted_category"`
	Confidence        float64               `json:"confidence"`
	DraftReply        string                `json:"draft_reply"`
	ArticleIDs        []string              `json:"article_ids"`
	AutoClosed        bool                  `json:"auto_closed"`
	ModelInfo         domain.ModelInfo      `json:"model_info"`
	CreatedAt         time.Time             `json:"created_at"`
}

// SuggestionFromDomain maps a suggestion to its response form.
func SuggestionFromDomain(s *domain.TriageSuggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:                s.ID,
		TicketID:          s.TicketID,
		PredictedCategory: s.PredictedCategory,
		Confidence:        s.Confidence,
		DraftReply:        s.DraftReply,
		ArticleIDs:        s.ArticleIDs,
		AutoClosed:        s.AutoClosed,
		ModelInfo:         s.ModelInfo,
		CreatedAt:         s.CreatedAt,
	}
}

// AuditEventResponse serializes one audit event.
type AuditEventResponse struct {
	ID        int64              `json:"id"`
	TicketID  string             `json:"ticket_id"`
	TraceID   string             `json:"trace_id"`
	Actor     domain.AuditActor  `json:"actor"`
	Action    domain.AuditAction `json:"action"`
	Meta      map[string]any     `json:"meta,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// AuditEventFromDomain maps an audit event to its response form.
func AuditEventFromDomain(e *domain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		ID:        e.ID,
		TicketID:  e.TicketID,
		TraceID:   e.TraceID,
		Actor:     e.Actor,
		Action:    e.Action,
		Meta:      e.Meta,
		Timestamp: e.Timestamp,
	}
}
