package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

var (
	billingKeywords  = []string{"refund", "invoice", "payment", "charge", "billing"}
	techKeywords     = []string{"error", "bug", "stack", "crash", "500", "exception"}
	shippingKeywords = []string{"delivery", "shipment", "tracking", "package", "courier"}
)

// otherFloor is the fixed score assigned to the catch-all category; a real
// category must beat it outright to win.
const otherFloor = 0.2

// StubProvider is a deterministic keyword-overlap scorer standing in for a
// real inference provider. Scores are hits/max(3, len(keywords)), capped at
// 1. Ties resolve in declaration order (billing, tech, shipping, other);
// the order is arbitrary but fixed.
type StubProvider struct{}

// NewStubProvider returns the reference provider implementation.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) Name() string          { return "stub" }
func (p *StubProvider) Model() string         { return "heuristic" }
func (p *StubProvider) PromptVersion() string { return "v1" }

// Classify scores the text against each category's keyword list and picks
// the highest.
func (p *StubProvider) Classify(_ context.Context, text string) (Classification, error) {
	candidates := []Classification{
		{PredictedCategory: domain.CategoryBilling, Confidence: scoreByKeywords(text, billingKeywords)},
		{PredictedCategory: domain.CategoryTech, Confidence: scoreByKeywords(text, techKeywords)},
		{PredictedCategory: domain.CategoryShipping, Confidence: scoreByKeywords(text, shippingKeywords)},
		{PredictedCategory: domain.CategoryOther, Confidence: otherFloor},
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, nil
}

// Draft synthesizes a reply that lists the candidate documents in order and
// cites every candidate id verbatim.
func (p *StubProvider) Draft(_ context.Context, _ string, docs []CandidateDoc) (Draft, error) {
	lines := make([]string, 0, len(docs)+2)
	lines = append(lines, "Thanks for reaching out. Here's what we found:")
	citations := make([]string, 0, len(docs))
	for i, doc := range docs {
		lines = append(lines, fmt.Sprintf("%d. %s [%s]", i+1, doc.Title, doc.ID))
		citations = append(citations, doc.ID)
	}
	lines = append(lines, "If this resolves your issue, feel free to close the ticket. Otherwise, reply and an agent will assist you.")
	return Draft{Reply: strings.Join(lines, "\n"), Citations: citations}, nil
}

func scoreByKeywords(text string, keywords []string) float64 {
	lc := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lc, kw) {
			hits++
		}
	}
	denom := len(keywords)
	if denom < 3 {
		denom = 3
	}
	score := float64(hits) / float64(denom)
	if score > 1 {
		score = 1
	}
	return score
}
