package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TriageRunner is the subset of the triage service the queue needs.
type TriageRunner interface {
	Triage(ctx context.Context, ticketID string) error
}

// TriageQueue decouples ticket creation from triage latency. Enqueued
// tickets are processed by a fixed pool of workers; failures are logged and
// dropped, never retried here (a manual re-run stays available through the
// agent endpoint). When the queue is full the ticket is dropped with a log
// line rather than blocking the creating request.
type TriageQueue struct {
	runner TriageRunner
	logger *zap.Logger
	jobs   chan string
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewTriageQueue starts the worker pool.
func NewTriageQueue(runner TriageRunner, logger *zap.Logger, queueSize, workers int) *TriageQueue {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 1
	}
	q := &TriageQueue{
		runner: runner,
		logger: logger,
		jobs:   make(chan string, queueSize),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q
}

// Enqueue schedules a triage run without blocking the caller.
func (q *TriageQueue) Enqueue(ticketID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	select {
	case q.jobs <- ticketID:
	default:
		q.logger.Warn("triage queue full; dropping ticket", zap.String("ticket_id", ticketID))
	}
}

// Close stops accepting work and waits for in-flight runs to finish.
func (q *TriageQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *TriageQueue) work() {
	defer q.wg.Done()
	for ticketID := range q.jobs {
		if err := q.runner.Triage(context.Background(), ticketID); err != nil {
			q.logger.Error("failed to triage ticket",
				zap.String("ticket_id", ticketID),
				zap.Error(err))
		}
	}
}
