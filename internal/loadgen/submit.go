package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/pkg/logger"
)

const (
	maxRetries     = 5
	retryBackoff   = 50 * time.Millisecond
	reportInterval = time.Second
)

// outcome of one submission.
type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

type ackResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Duplicate bool   `json:"duplicate"`
}

// createRoster writes teams, players and drills in dependency order.
func createRoster(ctx context.Context, c *client, ds Dataset) error {
	for _, t := range ds.Teams {
		if _, err := c.post(ctx, "/teams", t, nil); err != nil {
			return fmt.Errorf("team %s: %w", t.ID, err)
		}
	}
	for _, p := range ds.Players {
		if _, err := c.post(ctx, "/players", p, nil); err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}
	}
	for _, d := range ds.Drills {
		if _, err := c.post(ctx, "/drills", d, nil); err != nil {
			return fmt.Errorf("drill %s: %w", d.ID, err)
		}
	}
	logger.Get().Info(ctx, "roster created",
		logger.Int("teams", len(ds.Teams)),
		logger.Int("players", len(ds.Players)),
		logger.Int("drills", len(ds.Drills)),
	)
	return nil
}

// submitSessions posts sessions with cfg.Workers concurrent submitters.
func submitSessions(ctx context.Context, cfg *Config, c *client, sessions []model.Session, stats *Stats) {
	log := logger.Get().Named("loadgen")
	var accepted, duplicate, failed, retried, submitted atomic.Int64

	jobs := make(chan model.Session, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				res, retries := submitOne(ctx, c, s)
				retried.Add(int64(retries))
				submitted.Add(1)
				switch res {
				case outcomeAccepted:
					accepted.Add(1)
				case outcomeDuplicate:
					duplicate.Add(1)
				default:
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "session submission failed", logger.String("session_id", s.ID))
					}
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(reportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				log.Info(ctx, "progress",
					logger.Int("submitted", int(submitted.Load())),
					logger.Int("total", len(sessions)),
					logger.Int("failed", int(failed.Load())),
				)
			}
		}
	}()

	go func() {
		defer close(jobs)
		for _, s := range sessions {
			select {
			case <-ctx.Done():
				return
			case jobs <- s:
			}
		}
	}()

	wg.Wait()
	close(done)

	stats.Accepted += int(accepted.Load())
	stats.Duplicate += int(duplicate.Load())
	stats.Failed += int(failed.Load())
	stats.Retried += int(retried.Load())
}

// submitOne posts a session, backing off while the service reports a full queue.
func submitOne(ctx context.Context, c *client, s model.Session) (outcome, int) {
	for attempt := 0; ; attempt++ {
		var ack ackResponse
		status, err := c.post(ctx, "/sessions", s, &ack)
		switch {
		case err == nil && status == http.StatusAccepted:
			return outcomeAccepted, attempt
		case err == nil && status == http.StatusOK && ack.Duplicate:
			return outcomeDuplicate, attempt
		case status == http.StatusTooManyRequests && attempt < maxRetries:
			select {
			case <-ctx.Done():
				return outcomeFailed, attempt
			case <-time.After(retryBackoff * time.Duration(attempt+1)):
			}
		default:
			return outcomeFailed, attempt
		}
	}
}
