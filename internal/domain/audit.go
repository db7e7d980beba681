package domain

import "time"

// AuditActor identifies who performed an audited action.
type AuditActor string

const (
	ActorSystem AuditActor = "system"
	ActorAgent  AuditActor = "agent"
	ActorUser   AuditActor = "user"
)

// AuditAction is an entry in the fixed action vocabulary.
type AuditAction string

const (
	ActionTicketCreated    AuditAction = "TICKET_CREATED"
	ActionTicketReceived   AuditAction = "TICKET_RECEIVED"
	ActionAgentClassified  AuditAction = "AGENT_CLASSIFIED"
	ActionKBRetrieved      AuditAction = "KB_RETRIEVED"
	ActionDraftGenerated   AuditAction = "DRAFT_GENERATED"
	ActionAutoClosed       AuditAction = "AUTO_CLOSED"
	ActionAssignedToHuman  AuditAction = "ASSIGNED_TO_HUMAN"
	ActionReplySent        AuditAction = "REPLY_SENT"
)

// AuditEvent is an append-only record of something that happened to a
// ticket. Events sharing a TraceID belong to the same ticket lifecycle;
// ordering within a run follows append order.
type AuditEvent struct {
	ID        int64
	TicketID  string
	TraceID   string
	Actor     AuditActor
	Action    AuditAction
	Meta      map[string]any
	Timestamp time.Time
}
