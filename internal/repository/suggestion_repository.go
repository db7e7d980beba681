package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SuggestionRepository persists triage suggestions. Suggestions are
// append-only; there is no update path.
type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *domain.TriageSuggestion) error
	LatestByTicket(ctx context.Context, ticketID string) (*domain.TriageSuggestion, error)
}

type suggestionRepository struct {
	pool *pgxpool.Pool
}

// NewSuggestionRepository instantiates repository.
func NewSuggestionRepository(pool *pgxpool.Pool) SuggestionRepository {
	return &suggestionRepository{pool: pool}
}

func (r *suggestionRepository) Create(ctx context.Context, suggestion *domain.TriageSuggestion) error {
	modelInfo, err := json.Marshal(suggestion.ModelInfo)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO triage_suggestions (ticket_id, predicted_category, confidence, draft_reply, article_ids, auto_closed, model_info)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		suggestion.TicketID,
		suggestion.PredictedCategory,
		suggestion.Confidence,
		suggestion.DraftReply,
		suggestion.ArticleIDs,
		suggestion.AutoClosed,
		modelInfo,
	).Scan(&suggestion.ID, &suggestion.CreatedAt)
}

func (r *suggestionRepository) LatestByTicket(ctx context.Context, ticketID string) (*domain.TriageSuggestion, error) {
	const query = `
        SELECT id, ticket_id, predicted_category, confidence, draft_reply, article_ids, auto_closed, model_info, created_at
        FROM triage_suggestions
        WHERE ticket_id=$1
        ORDER BY created_at DESC
        LIMIT 1`
	var (
		suggestion domain.TriageSuggestion
		modelInfo  []byte
	)
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&suggestion.ID,
		&suggestion.TicketID,
		&suggestion.PredictedCategory,
		&suggestion.Confidence,
		&suggestion.DraftReply,
		&suggestion.ArticleIDs,
		&suggestion.AutoClosed,
		&modelInfo,
		&suggestion.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(modelInfo) > 0 {
		if err := json.Unmarshal(modelInfo, &suggestion.ModelInfo); err != nil {
			return nil, err
		}
	}
	return &suggestion, nil
}
