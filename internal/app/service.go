// Package service wires the store, the ingestion pipeline and the aggregation
// engines behind the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/dugout/internal/adapters/cache"
	"github.com/okian/dugout/internal/adapters/mq/queue"
	"github.com/okian/dugout/internal/adapters/mq/worker"
	"github.com/okian/dugout/internal/adapters/repository"
	"github.com/okian/dugout/internal/domain/breakdown"
	"github.com/okian/dugout/internal/domain/dedupe"
	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/workload"
	"github.com/okian/dugout/pkg/logger"
	"github.com/okian/dugout/pkg/metrics"
)

const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 100_000
	defaultCacheBytes = 16 << 20
)

// Service implements the API dependencies for the analytics system.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	memo    *cache.Memo
	engine  *breakdown.Engine

	workerCount     int
	queueSize       int
	dedupeSize      int
	cacheSizeBytes  int
	cacheTTLSeconds int
	engineOpts      []breakdown.Option
	defaultWindow   int
	trendWeeks      int
	now             func() time.Time

	started bool
	logger  logger.Logger
}

// Submission reports how a session submission was handled.
type Submission struct {
	SessionID string `json:"session_id"`
	Duplicate bool   `json:"duplicate"`
}

// New constructs a Service over store. A nil store gets an empty in-memory one.
func New(store repository.Store, opts ...Option) *Service {
	if store == nil {
		store = repository.NewMemoryStore()
	}
	s := &Service{
		store:          store,
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		cacheSizeBytes: defaultCacheBytes,
		defaultWindow:  workload.DefaultWindow(),
		trendWeeks:     workload.DefaultWeeks(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = breakdown.New(s.engineOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	if s.cacheSizeBytes > 0 {
		s.memo = cache.New(cache.WithSizeBytes(s.cacheSizeBytes), cache.WithTTL(s.cacheTTLSeconds))
	}
	return s
}

// Start creates the queue and launches the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store,
		worker.WithFailureHandler(s.onLogFailure),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("memoized", s.memo != nil),
	)
	return nil
}

// Stop closes the queue and waits for queued sessions to be logged.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping analytics service...")
	err := s.pool.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "analytics service stopped", logger.Int("processed", int(s.pool.Processed())))
	return err
}

// onLogFailure releases the ID so a corrected submission can be retried.
func (s *Service) onLogFailure(ctx context.Context, sess model.Session, err error) {
	s.deduper.Unrecord(ctx, sess.ID)
	s.logger.Warn(ctx, "session rejected by store",
		logger.String("session_id", sess.ID),
		logger.String("player_id", sess.PlayerID),
		logger.Error(err),
	)
}

// SubmitSession validates a session and queues it for logging. Sessions are
// idempotent by ID: an ID already stored or already queued is reported as a
// duplicate and dropped.
func (s *Service) SubmitSession(ctx context.Context, sess model.Session) (Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Submission{}, ErrNotStarted
	}
	if sess.PlayerID == "" {
		metrics.RecordSessionRejected("invalid")
		return Submission{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}
	for i, set := range sess.Sets {
		if set.RepsAttempted < 0 || set.RepsExecuted < 0 || set.HardHits < 0 || set.Strikeouts < 0 {
			metrics.RecordSessionRejected("invalid")
			return Submission{}, fmt.Errorf("%w: set %d has a negative count", ErrInvalidInput, i)
		}
	}
	if _, err := s.store.Player(ctx, sess.PlayerID); err != nil {
		metrics.RecordSessionRejected("unknown_player")
		return Submission{}, err
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	if s.store.HasSession(ctx, sess.ID) || s.deduper.SeenAndRecord(ctx, sess.ID) {
		metrics.RecordSessionDuplicate()
		s.logger.Debug(ctx, "duplicate session skipped", logger.String("session_id", sess.ID))
		return Submission{SessionID: sess.ID, Duplicate: true}, nil
	}

	if err := s.queue.Enqueue(ctx, sess); err != nil {
		s.deduper.Unrecord(ctx, sess.ID)
		switch {
		case errors.Is(err, queue.ErrFull):
			metrics.RecordSessionRejected("queue_full")
			return Submission{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		case errors.Is(err, queue.ErrClosed):
			metrics.RecordSessionRejected("closed")
			return Submission{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		default:
			return Submission{}, err
		}
	}
	s.logger.Debug(ctx, "session queued",
		logger.String("session_id", sess.ID),
		logger.String("player_id", sess.PlayerID),
		logger.Int("sets", len(sess.Sets)),
	)
	return Submission{SessionID: sess.ID}, nil
}

// LogSession writes a session synchronously, bypassing the queue. The ID is
// recorded so a later submission of it is reported as a duplicate.
func (s *Service) LogSession(ctx context.Context, sess model.Session) (model.Session, error) {
	stored, err := s.store.LogSession(ctx, sess)
	if err != nil {
		return model.Session{}, err
	}
	s.deduper.SeenAndRecord(ctx, stored.ID)
	return stored, nil
}

// CreateTeam stores a team.
func (s *Service) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	return s.store.AddTeam(ctx, t)
}

// CreatePlayer stores a roster member.
func (s *Service) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	return s.store.AddPlayer(ctx, p)
}

// CreateDrill stores a drill template.
func (s *Service) CreateDrill(ctx context.Context, d model.Drill) (model.Drill, error) {
	return s.store.AddDrill(ctx, d)
}

// CreateGoal stores a personal or team goal.
func (s *Service) CreateGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	return s.store.AddGoal(ctx, g)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"dedupeSeen":  s.deduper.Size(),
		"store":       s.store.Stats(ctx),
	}
	if s.memo != nil {
		stats["cache"] = s.memo.Stats()
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["activeWorkers"] = s.pool.Active()
		stats["sessionsProcessed"] = s.pool.Processed()
	}
	return stats
}
