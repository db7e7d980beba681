package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/agent"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/lock"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// maxCandidateArticles caps how many knowledge-base documents are handed to
// the drafting provider.
const maxCandidateArticles = 3

// StepError tags a failure with the triage step it occurred in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("triage step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// TriageService orchestrates the automated triage pipeline: classify the
// ticket, retrieve candidate knowledge-base articles, draft a reply, persist
// a suggestion and either auto-close the ticket or hand it to a human.
//
// At most one run per ticket executes at a time within this process; a
// second call observed while the first is active is dropped, not queued.
// The in-memory guard covers a single process; when a Lease is configured,
// an expiring lease in shared Redis extends the same drop semantics across
// instances.
type TriageService struct {
	tickets     repository.TicketRepository
	articles    repository.ArticleRepository
	suggestions repository.SuggestionRepository
	audit       repository.AuditRepository
	settings    repository.SettingsRepository
	provider    agent.Provider
	notifier    notify.Notifier
	lease       lock.Lease
	logger      *zap.Logger
	metrics     *observability.Metrics

	stepTimeout time.Duration
	maxRetries  int
	backoffBase time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	TicketRepo     repository.TicketRepository
	ArticleRepo    repository.ArticleRepository
	SuggestionRepo repository.SuggestionRepository
	AuditRepo      repository.AuditRepository
	SettingsRepo   repository.SettingsRepository
	Provider       agent.Provider
	Notifier       notify.Notifier
	Lease          lock.Lease
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewTriageService constructs the service.
func NewTriageService(cfg config.TriageConfig, deps TriageDependencies) *TriageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{
		tickets:     deps.TicketRepo,
		articles:    deps.ArticleRepo,
		suggestions: deps.SuggestionRepo,
		audit:       deps.AuditRepo,
		settings:    deps.SettingsRepo,
		provider:    deps.Provider,
		notifier:    deps.Notifier,
		lease:       deps.Lease,
		logger:      logger,
		metrics:     deps.Metrics,
		stepTimeout: cfg.StepTimeout(),
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.RetryBackoff(),
		inFlight:    make(map[string]struct{}),
	}
}

// Triage runs the full pipeline for one ticket. A run already in progress
// for the same ticket makes this call a no-op. A missing ticket aborts
// silently. Step failures after retry exhaustion propagate to the caller;
// audit events written before the failure are kept as a partial record.
func (s *TriageService) Triage(ctx context.Context, ticketID string) error {
	if !s.acquire(ticketID) {
		s.logger.Warn("triage already in progress; skipping", zap.String("ticket_id", ticketID))
		return nil
	}
	defer s.release(ticketID)

	if s.lease != nil {
		releaseLease, ok, err := s.lease.Acquire(ctx, ticketID)
		switch {
		case err != nil:
			// The lease is best effort; an unreachable store degrades to
			// process-local exclusion rather than blocking triage.
			s.logger.Warn("triage lease unavailable; proceeding with local guard",
				zap.String("ticket_id", ticketID), zap.Error(err))
		case !ok:
			s.logger.Warn("triage already in progress on another instance; skipping",
				zap.String("ticket_id", ticketID))
			return nil
		default:
			defer releaseLease()
		}
	}

	err := s.run(ctx, ticketID)
	if s.metrics != nil {
		s.metrics.RecordTriageRun(err == nil)
	}
	return err
}

func (s *TriageService) run(ctx context.Context, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Benign race: the ticket was deleted before triage started.
			return nil
		}
		return err
	}

	// Legacy tickets may predate trace ids; assign and persist one before
	// writing any audit event.
	if ticket.TraceID == "" {
		ticket.TraceID = uuid.NewString()
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return err
		}
	}
	traceID := ticket.TraceID

	if _, err := s.audit.Append(ctx, ticket.ID, traceID, domain.ActorSystem, domain.ActionTicketReceived, nil); err != nil {
		return err
	}

	classifyInput := ticket.Title + "\n" + ticket.Description
	classification, err := withRetry(ctx, s.maxRetries, s.backoffBase, "classify", s.logger, func() (agent.Classification, error) {
		return callWithTimeout(ctx, s.stepTimeout, "classify", func(stepCtx context.Context) (agent.Classification, error) {
			return s.provider.Classify(stepCtx, classifyInput)
		})
	})
	if err != nil {
		return err
	}
	if _, err := s.audit.Append(ctx, ticket.ID, traceID, domain.ActorSystem, domain.ActionAgentClassified, map[string]any{
		"predicted_category": classification.PredictedCategory,
		"confidence":         classification.Confidence,
	}); err != nil {
		return err
	}

	articles, err := s.articles.Search(ctx, ticket.Title, maxCandidateArticles)
	if err != nil {
		return err
	}
	candidates := make([]agent.CandidateDoc, 0, len(articles))
	articleIDs := make([]string, 0, len(articles))
	for _, article := range articles {
		candidates = append(candidates, agent.CandidateDoc{ID: article.ID, Title: article.Title})
		articleIDs = append(articleIDs, article.ID)
	}
	if _, err := s.audit.Append(ctx, ticket.ID, traceID, domain.ActorSystem, domain.ActionKBRetrieved, map[string]any{
		"article_ids": articleIDs,
	}); err != nil {
		return err
	}

	started := time.Now()
	draft, err := withRetry(ctx, s.maxRetries, s.backoffBase, "draft", s.logger, func() (agent.Draft, error) {
		return callWithTimeout(ctx, s.stepTimeout, "draft", func(stepCtx context.Context) (agent.Draft, error) {
			return s.provider.Draft(stepCtx, ticket.Description, candidates)
		})
	})
	if err != nil {
		return err
	}
	latencyMS := time.Since(started).Milliseconds()
	if _, err := s.audit.Append(ctx, ticket.ID, traceID, domain.ActorSystem, domain.ActionDraftGenerated, map[string]any{
		"draft_reply": draft.Reply,
		"citations":   draft.Citations,
	}); err != nil {
		return err
	}

	// Policy uses whatever settings are current at this point in the run.
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	autoClose := settings.AutoCloseEnabled && classification.Confidence >= settings.ConfidenceThreshold

	suggestion := &domain.TriageSuggestion{
		TicketID:          ticket.ID,
		PredictedCategory: classification.PredictedCategory,
		Confidence:        classification.Confidence,
		DraftReply:        draft.Reply,
		ArticleIDs:        draft.Citations,
		AutoClosed:        autoClose,
		ModelInfo: domain.ModelInfo{
			Provider:      s.provider.Name(),
			Model:         s.provider.Model(),
			PromptVersion: s.provider.PromptVersion(),
			LatencyMS:     latencyMS,
		},
	}
	if err := s.suggestions.Create(ctx, suggestion); err != nil {
		return err
	}

	ticket.SuggestionID = &suggestion.ID
	if autoClose {
		ticket.Status = domain.TicketStatusResolved
	} else {
		ticket.Status = domain.TicketStatusWaitingHuman
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return err
	}

	terminalAction := domain.ActionAssignedToHuman
	if autoClose {
		terminalAction = domain.ActionAutoClosed
	}
	if _, err := s.audit.Append(ctx, ticket.ID, traceID, domain.ActorSystem, terminalAction, nil); err != nil {
		return err
	}
	s.notify(ctx, notify.Event{
		Type:     notify.EventStatusChanged,
		TicketID: ticket.ID,
		Payload:  map[string]any{"status": string(ticket.Status)},
	})

	s.logger.Info("triage completed",
		zap.String("ticket_id", ticket.ID),
		zap.String("trace_id", traceID),
		zap.String("category", string(classification.PredictedCategory)),
		zap.Float64("confidence", classification.Confidence),
		zap.Bool("auto_closed", autoClose))
	return nil
}

func (s *TriageService) notify(ctx context.Context, event notify.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, event)
}

func (s *TriageService) acquire(ticketID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.inFlight[ticketID]; exists {
		return false
	}
	s.inFlight[ticketID] = struct{}{}
	return true
}

func (s *TriageService) release(ticketID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, ticketID)
}

// callWithTimeout runs fn under a deadline. On expiry the step fails with a
// step-tagged timeout error; the underlying call is abandoned, not killed,
// and its eventual result is discarded.
func callWithTimeout[T any](ctx context.Context, budget time.Duration, step string, fn func(context.Context) (T, error)) (T, error) {
	stepCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		val, err := fn(stepCtx)
		done <- outcome{val: val, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			var zero T
			return zero, &StepError{Step: step, Err: res.err}
		}
		return res.val, nil
	case <-stepCtx.Done():
		var zero T
		return zero, &StepError{Step: step, Err: stepCtx.Err()}
	}
}

// withRetry runs fn up to retries+1 times with linearly increasing backoff
// between attempts. The last error propagates; there is no degraded result.
func withRetry[T any](ctx context.Context, retries int, backoff time.Duration, step string, logger *zap.Logger, fn func() (T, error)) (T, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		val, err := fn()
		if err == nil {
			return val, nil
		}
		lastErr = err
		logger.Warn("retrying triage step",
			zap.String("step", step),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < retries {
			select {
			case <-time.After(backoff * time.Duration(attempt+1)):
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}
		}
	}
	var zero T
	return zero, lastErr
}
