package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type ticketFixture struct {
	svc      *TicketService
	tickets  *memTicketRepo
	audit    *memAuditRepo
	sugg     *memSuggestionRepo
	notifier *recordingNotifier
	trigger  *recordingTrigger
}

func newTicketFixture(t *testing.T, tickets ...domain.Ticket) *ticketFixture {
	t.Helper()
	f := &ticketFixture{
		tickets:  newMemTicketRepo(tickets...),
		audit:    &memAuditRepo{},
		sugg:     &memSuggestionRepo{},
		notifier: &recordingNotifier{},
		trigger:  &recordingTrigger{},
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		SuggestionRepo: f.sugg,
		AuditRepo:      f.audit,
		Notifier:       f.notifier,
		TriageTrigger:  f.trigger,
	})
	return f
}

func endUser(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleUser}
}

func staffUser(id string) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleAgent}
}

func TestCreateTicketAssignsIdentity(t *testing.T) {
	f := newTicketFixture(t)

	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Title:       "  Refund please  ",
		Description: "I was charged twice",
		Category:    domain.CategoryBilling,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.True(t, strings.HasPrefix(ticket.ExternalKey, "TCK-"))
	assert.Len(t, ticket.ExternalKey, len("TCK-")+8)
	assert.NotEmpty(t, ticket.TraceID, "trace id assigned at creation")
	assert.Equal(t, "Refund please", ticket.Title)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, "user-1", ticket.CreatedBy)

	assert.Equal(t, []domain.AuditAction{domain.ActionTicketCreated}, f.audit.actions(ticket.ID))
	events, _ := f.audit.ListByTicket(context.Background(), ticket.ID)
	assert.Equal(t, domain.ActorUser, events[0].Actor)
	assert.Equal(t, ticket.TraceID, events[0].TraceID)

	assert.Equal(t, []string{ticket.ID}, f.trigger.all(), "triage handed off after creation")

	published := f.notifier.all()
	require.Len(t, published, 1)
	assert.Equal(t, notify.EventTicketCreated, published[0].Type)
}

func TestCreateTicketDefaultsCategory(t *testing.T) {
	f := newTicketFixture(t)
	ticket, err := f.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		Title:       "Question",
		Description: "No keywords here",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, ticket.Category)
}

func TestListTicketsScopesEndUsers(t *testing.T) {
	mine := openTicket("t1")
	mine.CreatedBy = "user-1"
	theirs := openTicket("t2")
	theirs.CreatedBy = "user-2"
	f := newTicketFixture(t, mine, theirs)

	got, err := f.svc.ListTickets(context.Background(), endUser("user-1"), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)

	got, err = f.svc.ListTickets(context.Background(), staffUser("agent-1"), TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetTicketHidesOthersFromEndUsers(t *testing.T) {
	ticket := openTicket("t1")
	ticket.CreatedBy = "user-1"
	f := newTicketFixture(t, ticket)

	_, err := f.svc.GetTicket(context.Background(), endUser("user-2"), "t1")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	got, err := f.svc.GetTicket(context.Background(), staffUser("agent-1"), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
}

func TestReplyAppendsAuditAndNotifies(t *testing.T) {
	f := newTicketFixture(t, openTicket("t1"))

	require.NoError(t, f.svc.Reply(context.Background(), "agent-1", "t1", "We refunded you."))

	events, _ := f.audit.ListByTicket(context.Background(), "t1")
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionReplySent, events[0].Action)
	assert.Equal(t, domain.ActorAgent, events[0].Actor)
	assert.Equal(t, "We refunded you.", events[0].Meta["message"])
	assert.Equal(t, "trace-t1", events[0].TraceID)

	published := f.notifier.all()
	require.Len(t, published, 1)
	assert.Equal(t, notify.EventReplySent, published[0].Type)
}

func TestReplyMissingTicket(t *testing.T) {
	f := newTicketFixture(t)
	err := f.svc.Reply(context.Background(), "agent-1", "ghost", "hello")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAssignSetsAssignee(t *testing.T) {
	f := newTicketFixture(t, openTicket("t1"))

	got, err := f.svc.Assign(context.Background(), "t1", "agent-9")
	require.NoError(t, err)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, "agent-9", *got.AssigneeID)

	events, _ := f.audit.ListByTicket(context.Background(), "t1")
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionAssignedToHuman, events[0].Action)
	assert.Equal(t, "agent-9", events[0].Meta["assignee_id"])
}

func TestListAuditEnforcesOwnership(t *testing.T) {
	ticket := openTicket("t1")
	ticket.CreatedBy = "user-1"
	f := newTicketFixture(t, ticket)
	require.NoError(t, f.svc.Reply(context.Background(), "agent-1", "t1", "hi"))

	_, err := f.svc.ListAudit(context.Background(), endUser("user-2"), "t1")
	require.Error(t, err)

	events, err := f.svc.ListAudit(context.Background(), endUser("user-1"), "t1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestLatestSuggestionNotFound(t *testing.T) {
	f := newTicketFixture(t)
	_, err := f.svc.LatestSuggestion(context.Background(), "t1")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
