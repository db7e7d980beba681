package domain

import "time"

// ModelInfo records provenance for a triage run's drafting provider.
type ModelInfo struct {
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	PromptVersion string `json:"prompt_version"`
	LatencyMS     int64  `json:"latency_ms"`
}

// TriageSuggestion is the immutable result of one completed triage run.
// A ticket may accumulate several suggestions over time; it references only
// the most recent one.
type TriageSuggestion struct {
	ID                string
	TicketID          string
	PredictedCategory TicketCategory
	Confidence        float64
	DraftReply        string
	ArticleIDs        []string
	AutoClosed        bool
	ModelInfo         ModelInfo
	CreatedAt         time.Time
}
