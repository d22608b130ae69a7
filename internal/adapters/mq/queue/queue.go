// Package queue buffers submitted sessions between the API and the workers
// that log them.
package queue

import (
	"context"
	"sync"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a session without blocking. It returns ErrFull when the
	// buffer is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, s model.Session) error
	// Dequeue returns the channel workers read from. It is closed by Close
	// once drained.
	Dequeue(ctx context.Context) <-chan model.Session
	Len(ctx context.Context) int
	Capacity() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	sessions chan model.Session
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue holding up to 10000 sessions unless overridden.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.sessions = make(chan model.Session, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a session without blocking. A full queue returns ErrFull.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s model.Session) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	select {
	case q.sessions <- s:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns the channel workers read sessions from.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan model.Session {
	return q.sessions
}

// Len is the number of buffered sessions.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.observe()
	return len(q.sessions)
}

// Capacity is the buffer size.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close stops accepting sessions. Buffered sessions remain readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.sessions)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.sessions)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
