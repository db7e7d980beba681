package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AgentHandler exposes the triage pipeline over HTTP.
type AgentHandler struct {
	triage  *service.TriageService
	tickets *service.TicketService
}

// NewAgentHandler constructs handler.
func NewAgentHandler(triage *service.TriageService, tickets *service.TicketService) *AgentHandler {
	return &AgentHandler{triage: triage, tickets: tickets}
}

// Triage POST /agent/triage. Runs triage synchronously; failures surface to
// the caller as operation failures, unlike the detached post-creation path.
func (h *AgentHandler) Triage(c *fiber.Ctx) error {
	var req dto.TriageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TicketID) == "" {
		return errorutil.NewValidationError("ticketId required", nil)
	}
	if err := h.triage.Triage(c.Context(), req.TicketID); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ok": true})
}

// Suggestion GET /agent/suggestion/:ticketId. Returns the latest suggestion.
func (h *AgentHandler) Suggestion(c *fiber.Ctx) error {
	suggestion, err := h.tickets.LatestSuggestion(c.Context(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SuggestionFromDomain(suggestion)})
}
