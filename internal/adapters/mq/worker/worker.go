// Package worker drains the session queue into the store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/pkg/logger"
	"github.com/okian/dugout/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Recorder persists a session.
type Recorder interface {
	LogSession(ctx context.Context, s model.Session) (model.Session, error)
}

// Queue defines how workers receive sessions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Session
}

// FailureHandler is told about sessions that could not be logged.
type FailureHandler func(ctx context.Context, s model.Session, err error)

// Worker logs sessions read from a queue.
type Worker interface {
	// Run consumes until the queue closes, ctx is cancelled or Shutdown is called.
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	recorder  Recorder
	name      string
	onFailure FailureHandler

	// shared with the owning pool
	active    *atomic.Int64
	processed *atomic.Int64

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading q and writing to rec.
func NewInMemoryWorker(q Queue, rec Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		recorder:  rec,
		name:      "worker",
		active:    &atomic.Int64{},
		processed: &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run logs sessions until the queue closes, ctx is cancelled or Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	sessions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-sessions:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "error logging session", logger.String("session_id", s.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker without draining.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

func (w *InMemoryWorker) process(ctx context.Context, s model.Session) (err error) {
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	// A bad record must not take the pool down with it.
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "panic")
			err = fmt.Errorf("log session %s: %w: %v", s.ID, ErrRecorderPanic, r)
			if w.onFailure != nil {
				w.onFailure(ctx, s, err)
			}
		}
	}()

	if _, err := w.recorder.LogSession(ctx, s); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "log_session")
		if w.onFailure != nil {
			w.onFailure(ctx, s, err)
		}
		return fmt.Errorf("log session %s: %w", s.ID, err)
	}
	w.processed.Add(1)
	metrics.RecordSessionLogged()
	return nil
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	active    atomic.Int64
	processed atomic.Int64
	started   atomic.Bool
	logger    logger.Logger
}

// NewPool creates workerCount workers. A count below one selects
// 2*runtime.NumCPU(). Options apply to every worker.
func NewPool(workerCount int, q Queue, rec Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, rec, wopts...)
		w.active = &p.active
		w.processed = &p.processed
		p.workers[i] = w
	}
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Size is the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active is the number of workers currently logging a session.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Processed is the number of sessions logged since start.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Shutdown closes the queue when it can, lets workers drain what is buffered
// and stops any still running when ctx or the pool timeout expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if !p.started.Load() {
		return nil
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-drainCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			w.stop()
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool drain: %w", drainCtx.Err())
	}
	return nil
}
