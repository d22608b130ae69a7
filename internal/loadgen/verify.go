package loadgen

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"go.uber.org/multierr"

	"github.com/okian/dugout/internal/domain/types"
	"github.com/okian/dugout/pkg/logger"
)

const (
	pollInterval = 100 * time.Millisecond
	tolerance    = 1e-6
	workloadDays = 14
)

// waitForTeams polls each team's breakdown until its reps reach the expected
// total or settle runs out.
func waitForTeams(ctx context.Context, c *client, want map[string]Totals, settle time.Duration) (map[string]types.TeamBreakdown, error) {
	deadline := time.Now().Add(settle)
	got := make(map[string]types.TeamBreakdown, len(want))
	for {
		pending := 0
		for id, exp := range want {
			if b, ok := got[id]; ok && int(math.Round(b.TotalReps)) == exp.Reps {
				continue
			}
			var b types.TeamBreakdown
			if _, err := c.get(ctx, "/teams/"+url.PathEscape(id)+"/breakdown", &b); err != nil {
				return nil, err
			}
			got[id] = b
			if int(math.Round(b.TotalReps)) != exp.Reps {
				pending++
			}
		}
		if pending == 0 || time.Now().After(deadline) {
			return got, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// verifyTeams checks every team's analytics against the client-side totals
// and reports all mismatches together.
func verifyTeams(ctx context.Context, cfg *Config, c *client, want map[string]Totals, stats *Stats) error {
	got, err := waitForTeams(ctx, c, want, cfg.Settle)
	if err != nil {
		return err
	}

	var errs error
	for id, exp := range want {
		before := len(multierr.Errors(errs))
		b := got[id]
		if int(math.Round(b.TotalReps)) != exp.Reps {
			errs = multierr.Append(errs, fmt.Errorf("%w: team %s reps %v, want %d", ErrMismatch, id, b.TotalReps, exp.Reps))
			continue
		}
		if math.Abs(b.Execution-exp.Execution()) > tolerance {
			errs = multierr.Append(errs, fmt.Errorf("%w: team %s execution %.4f, want %.4f", ErrMismatch, id, b.Execution, exp.Execution()))
		}

		var board []types.LeaderboardEntry
		if _, err := c.get(ctx, "/teams/"+url.PathEscape(id)+"/leaderboard?metric=execution", &board); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for i := 1; i < len(board); i++ {
			if board[i].Value > board[i-1].Value || board[i].Rank != i+1 {
				errs = multierr.Append(errs, fmt.Errorf("%w: team %s leaderboard out of order at %d", ErrMismatch, id, i))
				break
			}
		}

		var days []types.DayBucket
		if _, err := c.get(ctx, fmt.Sprintf("/teams/%s/workload?days=%d", url.PathEscape(id), workloadDays), &days); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(days) != workloadDays {
			errs = multierr.Append(errs, fmt.Errorf("%w: team %s workload has %d days, want %d", ErrMismatch, id, len(days), workloadDays))
		}
		if len(multierr.Errors(errs)) == before {
			stats.TeamsVerified++
		}
	}
	if errs == nil {
		logger.Get().Info(ctx, "analytics verified", logger.Int("teams", stats.TeamsVerified))
	}
	return errs
}
