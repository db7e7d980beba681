package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/agent"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	updates int
}

func newMemTicketRepo(tickets ...domain.Ticket) *memTicketRepo {
	repo := &memTicketRepo{tickets: make(map[string]domain.Ticket)}
	for _, t := range tickets {
		repo.tickets[t.ID] = t
	}
	return repo
}

func (m *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	m.tickets[ticket.ID] = *ticket
	return nil
}

func (m *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	m.tickets[ticket.ID] = *ticket
	m.updates++
	return nil
}

func (m *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (m *memTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range m.tickets {
		if filter.CreatedBy != nil && ticket.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && ticket.Category != *filter.Category {
			continue
		}
		result = append(result, ticket)
	}
	return result, nil
}

func (m *memTicketRepo) get(id string) domain.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickets[id]
}

type memArticleRepo struct {
	mu       sync.Mutex
	articles []domain.Article
}

func (m *memArticleRepo) Create(_ context.Context, article *domain.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	m.articles = append(m.articles, *article)
	return nil
}

func (m *memArticleRepo) Update(_ context.Context, article *domain.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.articles {
		if m.articles[i].ID == article.ID {
			m.articles[i] = *article
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memArticleRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.articles {
		if m.articles[i].ID == id {
			m.articles = append(m.articles[:i], m.articles[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, article := range m.articles {
		if article.ID == id {
			copied := article
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memArticleRepo) ListPublished(_ context.Context, limit int) ([]domain.Article, error) {
	return m.Search(context.Background(), "", limit)
}

func (m *memArticleRepo) Search(_ context.Context, _ string, limit int) ([]domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Article
	for _, article := range m.articles {
		if article.Status != domain.ArticleStatusPublished {
			continue
		}
		result = append(result, article)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

type memSuggestionRepo struct {
	mu          sync.Mutex
	suggestions []domain.TriageSuggestion
}

func (m *memSuggestionRepo) Create(_ context.Context, suggestion *domain.TriageSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	suggestion.ID = uuid.NewString()
	suggestion.CreatedAt = time.Now()
	m.suggestions = append(m.suggestions, *suggestion)
	return nil
}

func (m *memSuggestionRepo) LatestByTicket(_ context.Context, ticketID string) (*domain.TriageSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.suggestions) - 1; i >= 0; i-- {
		if m.suggestions[i].TicketID == ticketID {
			copied := m.suggestions[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memSuggestionRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.suggestions)
}

func (m *memSuggestionRepo) all() []domain.TriageSuggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TriageSuggestion{}, m.suggestions...)
}

type memAuditRepo struct {
	mu     sync.Mutex
	nextID int64
	events []domain.AuditEvent
}

func (m *memAuditRepo) Append(_ context.Context, ticketID, traceID string, actor domain.AuditActor, action domain.AuditAction, meta map[string]any) (*domain.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	event := domain.AuditEvent{
		ID:        m.nextID,
		TicketID:  ticketID,
		TraceID:   traceID,
		Actor:     actor,
		Action:    action,
		Meta:      meta,
		Timestamp: time.Now(),
	}
	m.events = append(m.events, event)
	return &event, nil
}

func (m *memAuditRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.AuditEvent
	for _, event := range m.events {
		if event.TicketID == ticketID {
			result = append(result, event)
		}
	}
	return result, nil
}

func (m *memAuditRepo) actions(ticketID string) []domain.AuditAction {
	events, _ := m.ListByTicket(context.Background(), ticketID)
	actions := make([]domain.AuditAction, 0, len(events))
	for _, event := range events {
		actions = append(actions, event.Action)
	}
	return actions
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings *domain.TriageSettings
}

func (m *memSettingsRepo) Get(_ context.Context) (domain.TriageSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return domain.DefaultTriageSettings(), nil
	}
	return *m.settings, nil
}

func (m *memSettingsRepo) Upsert(_ context.Context, settings domain.TriageSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &settings
	return nil
}

func (m *memSettingsRepo) set(settings domain.TriageSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &settings
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Publish(_ context.Context, event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) all() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Event{}, n.events...)
}

// fakeProvider lets tests script classification and drafting behavior.
type fakeProvider struct {
	classifyFn    func(ctx context.Context, text string) (agent.Classification, error)
	draftFn       func(ctx context.Context, text string, docs []agent.CandidateDoc) (agent.Draft, error)
	classifyCalls int64
	draftCalls    int64
	mu            sync.Mutex
}

func (p *fakeProvider) Classify(ctx context.Context, text string) (agent.Classification, error) {
	p.mu.Lock()
	p.classifyCalls++
	p.mu.Unlock()
	if p.classifyFn != nil {
		return p.classifyFn(ctx, text)
	}
	return agent.Classification{PredictedCategory: domain.CategoryOther, Confidence: 0.2}, nil
}

func (p *fakeProvider) Draft(ctx context.Context, text string, docs []agent.CandidateDoc) (agent.Draft, error) {
	p.mu.Lock()
	p.draftCalls++
	p.mu.Unlock()
	if p.draftFn != nil {
		return p.draftFn(ctx, text, docs)
	}
	citations := make([]string, 0, len(docs))
	for _, doc := range docs {
		citations = append(citations, doc.ID)
	}
	return agent.Draft{Reply: "drafted reply", Citations: citations}, nil
}

func (p *fakeProvider) Name() string          { return "fake" }
func (p *fakeProvider) Model() string         { return "fake-model" }
func (p *fakeProvider) PromptVersion() string { return "test" }

func (p *fakeProvider) classifyCount() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.classifyCalls
}

type fakeLease struct {
	mu       sync.Mutex
	denied   bool
	err      error
	acquired int
	released int
}

func (l *fakeLease) Acquire(context.Context, string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.denied {
		return nil, false, nil
	}
	l.acquired++
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
	}, true, nil
}

func (l *fakeLease) counts() (acquired, released int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired, l.released
}

type recordingTrigger struct {
	mu  sync.Mutex
	ids []string
}

func (t *recordingTrigger) Enqueue(ticketID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = append(t.ids, ticketID)
}

func (t *recordingTrigger) all() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.ids...)
}
