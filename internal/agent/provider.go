package agent

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Classification is the category estimate for a piece of ticket text.
type Classification struct {
	PredictedCategory domain.TicketCategory `json:"predicted_category"`
	Confidence        float64               `json:"confidence"`
}

// CandidateDoc is the slice of a knowledge-base article a provider is
// allowed to cite: id and title only.
type CandidateDoc struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Draft is a suggested reply. Citations must be a subset of the candidate
// document ids passed to Draft; implementations that invent ids are broken.
type Draft struct {
	Reply     string   `json:"draft_reply"`
	Citations []string `json:"citations"`
}

// Provider is the classification/drafting capability used by triage. It is
// side-effect free from the orchestrator's point of view; any network call
// is private to the implementation. The caller enforces timeouts via ctx.
type Provider interface {
	Classify(ctx context.Context, text string) (Classification, error)
	Draft(ctx context.Context, text string, docs []CandidateDoc) (Draft, error)

	// Name, Model and PromptVersion feed suggestion provenance.
	Name() string
	Model() string
	PromptVersion() string
}
