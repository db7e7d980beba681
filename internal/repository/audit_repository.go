package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AuditRepository appends and reads immutable audit events. Append assigns
// the timestamp at write time; call order per ticket must be preserved, so
// callers append sequentially within a run.
type AuditRepository interface {
	Append(ctx context.Context, ticketID, traceID string, actor domain.AuditActor, action domain.AuditAction, meta map[string]any) (*domain.AuditEvent, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditEvent, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, ticketID, traceID string, actor domain.AuditActor, action domain.AuditAction, meta map[string]any) (*domain.AuditEvent, error) {
	event := &domain.AuditEvent{
		TicketID: ticketID,
		TraceID:  traceID,
		Actor:    actor,
		Action:   action,
		Meta:     meta,
	}
	const query = `
        INSERT INTO audit_events (ticket_id, trace_id, actor, action, meta)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, timestamp`
	if err := r.pool.QueryRow(ctx, query,
		ticketID,
		traceID,
		actor,
		action,
		meta,
	).Scan(&event.ID, &event.Timestamp); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditEvent, error) {
	const query = `
        SELECT id, ticket_id, trace_id, actor, action, meta, timestamp
        FROM audit_events
        WHERE ticket_id=$1
        ORDER BY timestamp ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		if err := rows.Scan(
			&event.ID,
			&event.TicketID,
			&event.TraceID,
			&event.Actor,
			&event.Action,
			&event.Meta,
			&event.Timestamp,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
