package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TriageTrigger hands a ticket off for detached triage. Failures on this
// path are logged by the executor, never surfaced to the creating request.
type TriageTrigger interface {
	Enqueue(ticketID string)
}

// TicketService coordinates ticket lifecycle workflows around the triage
// pipeline: creation, listing, replies and manual assignment.
type TicketService struct {
	tickets     repository.TicketRepository
	suggestions repository.SuggestionRepository
	audit       repository.AuditRepository
	notifier    notify.Notifier
	triage      TriageTrigger
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	SuggestionRepo repository.SuggestionRepository
	AuditRepo      repository.AuditRepository
	Notifier       notify.Notifier
	TriageTrigger  TriageTrigger
	Logger         *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Status   *domain.TicketStatus
	Category *domain.TicketCategory
	Limit    int
	Offset   int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		suggestions: deps.SuggestionRepo,
		audit:       deps.AuditRepo,
		notifier:    deps.Notifier,
		triage:      deps.TriageTrigger,
		logger:      logger,
	}
}

// CreateTicket creates a ticket, writes the TICKET_CREATED audit event and
// hands the ticket off for detached triage.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Status:      domain.TicketStatusOpen,
		TraceID:     uuid.NewString(),
		CreatedBy:   userID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if _, err := s.audit.Append(ctx, ticket.ID, ticket.TraceID, domain.ActorUser, domain.ActionTicketCreated, nil); err != nil {
		s.logger.Error("append TICKET_CREATED audit event", zap.Error(err), zap.String("ticket_id", ticket.ID))
	}
	s.publish(ctx, notify.Event{Type: notify.EventTicketCreated, TicketID: ticket.ID})

	if s.triage != nil {
		s.triage.Enqueue(ticket.ID)
	}
	return ticket, nil
}

// ListTickets returns tickets visible to the caller. End-users see only
// their own tickets; agents and admins see everything.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Status:   filter.Status,
		Category: filter.Category,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if !caller.IsStaff() {
		repoFilter.CreatedBy = &caller.ID
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicket fetches a ticket, enforcing ownership for end-users.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !caller.IsStaff() && ticket.CreatedBy != caller.ID {
		return nil, errorutil.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

// Reply records an agent reply as a REPLY_SENT audit event and notifies
// live clients. Replies are part of the audit record, not a separate
// message thread.
func (s *TicketService) Reply(ctx context.Context, agentID, ticketID, message string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("ticket", nil)
		}
		return err
	}
	if _, err := s.audit.Append(ctx, ticket.ID, ticket.TraceID, domain.ActorAgent, domain.ActionReplySent, map[string]any{
		"agent_id": agentID,
		"message":  message,
	}); err != nil {
		return err
	}
	s.publish(ctx, notify.Event{
		Type:     notify.EventReplySent,
		TicketID: ticket.ID,
		Payload:  map[string]any{"message": message},
	})
	return nil
}

// Assign sets the ticket's assignee and records the hand-off.
func (s *TicketService) Assign(ctx context.Context, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	ticket.AssigneeID = &assigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if _, err := s.audit.Append(ctx, ticket.ID, ticket.TraceID, domain.ActorAgent, domain.ActionAssignedToHuman, map[string]any{
		"assignee_id": assigneeID,
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, notify.Event{
		Type:     notify.EventAssignedToHuman,
		TicketID: ticket.ID,
		Payload:  map[string]any{"assigneeId": assigneeID},
	})
	return ticket, nil
}

// ListAudit returns the ticket's audit trail ordered by timestamp ascending.
func (s *TicketService) ListAudit(ctx context.Context, caller *domain.User, ticketID string) ([]domain.AuditEvent, error) {
	if _, err := s.GetTicket(ctx, caller, ticketID); err != nil {
		return nil, err
	}
	return s.audit.ListByTicket(ctx, ticketID)
}

// LatestSuggestion returns the most recent triage suggestion for a ticket.
func (s *TicketService) LatestSuggestion(ctx context.Context, ticketID string) (*domain.TriageSuggestion, error) {
	suggestion, err := s.suggestions.LatestByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("suggestion", nil)
		}
		return nil, err
	}
	return suggestion, nil
}

func (s *TicketService) publish(ctx context.Context, event notify.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, event)
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
