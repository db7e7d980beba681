package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeRunner struct {
	mu    sync.Mutex
	seen  []string
	block chan struct{}
	err   error
	done  chan string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{done: make(chan string, 64)}
}

func (r *fakeRunner) Triage(_ context.Context, ticketID string) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.seen = append(r.seen, ticketID)
	r.mu.Unlock()
	r.done <- ticketID
	return r.err
}

func (r *fakeRunner) processed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.seen...)
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for ticket %s", want)
	}
}

func TestTriageQueueProcessesEnqueuedTickets(t *testing.T) {
	runner := newFakeRunner()
	q := NewTriageQueue(runner, zap.NewNop(), 8, 2)
	defer q.Close()

	q.Enqueue("t1")
	q.Enqueue("t2")

	waitFor(t, runner.done, "t1")
	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("second ticket never processed")
	}
	assert.ElementsMatch(t, []string{"t1", "t2"}, runner.processed())
}

func TestTriageQueueDropsWhenFull(t *testing.T) {
	runner := newFakeRunner()
	runner.block = make(chan struct{})
	q := NewTriageQueue(runner, zap.NewNop(), 1, 1)

	// First ticket occupies the single worker, second fills the buffer,
	// third must be dropped without blocking.
	q.Enqueue("t1")
	q.Enqueue("t2")

	enqueued := make(chan struct{})
	go func() {
		q.Enqueue("t3")
		close(enqueued)
	}()
	select {
	case <-enqueued:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(runner.block)
	q.Close()
	assert.NotContains(t, runner.processed(), "t3")
}

func TestTriageQueueFailuresAreSwallowed(t *testing.T) {
	runner := newFakeRunner()
	runner.err = errors.New("triage failed")
	q := NewTriageQueue(runner, zap.NewNop(), 8, 1)

	q.Enqueue("t1")
	waitFor(t, runner.done, "t1")
	q.Close()
	assert.Equal(t, []string{"t1"}, runner.processed())
}

func TestTriageQueueEnqueueAfterCloseIsNoop(t *testing.T) {
	runner := newFakeRunner()
	q := NewTriageQueue(runner, zap.NewNop(), 8, 1)
	q.Close()

	assert.NotPanics(t, func() { q.Enqueue("t1") })
	assert.Empty(t, runner.processed())
}

func TestTriageQueueCloseDrainsInFlight(t *testing.T) {
	runner := newFakeRunner()
	runner.block = make(chan struct{})
	q := NewTriageQueue(runner, zap.NewNop(), 8, 1)
	q.Enqueue("t1")

	time.AfterFunc(50*time.Millisecond, func() { close(runner.block) })
	q.Close()
	assert.Equal(t, []string{"t1"}, runner.processed())
}
