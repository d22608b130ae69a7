package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/okian/dugout/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
	percentMultiplier   = 100
)

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, msg string) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, msg))
		}
	}
	check(c.BaseURL != "", "url must not be empty")
	check(c.Teams > 0, "teams must be positive")
	check(c.PlayersPerTeam > 0, "players must be positive")
	check(c.Sessions >= 0, "sessions must not be negative")
	check(c.Workers > 0, "workers must be positive")
	check(c.Timeout > 0, "timeout must be positive")
	return errs
}

// Run executes the complete load run: health check, roster, sessions,
// duplicate resubmissions and verification.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Get().Named("loadgen")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("teams", cfg.Teams),
		logger.Int("playersPerTeam", cfg.PlayersPerTeam),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if _, err := c.get(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	ds := Generate(cfg, time.Now().UTC())
	stats.SessionsGenerated = len(ds.Sessions)
	if cfg.OutputFile != "" {
		if err := saveDataset(cfg.OutputFile, ds); err != nil {
			log.Warn(ctx, "failed to save dataset", logger.Error(err))
		}
	}

	if err := createRoster(ctx, c, ds); err != nil {
		return stats, fmt.Errorf("roster creation failed: %w", err)
	}
	submitSessions(ctx, cfg, c, ds.Sessions, stats)
	submitSessions(ctx, cfg, c, Resubmissions(ds), stats)

	verifyErr := verifyTeams(ctx, cfg, c, ExpectedTotals(ds), stats)

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 {
		verifyErr = multierr.Append(verifyErr, fmt.Errorf("%d sessions failed to submit", stats.Failed))
	}
	return stats, verifyErr
}

// saveDataset writes the generated dataset as indented JSON.
func saveDataset(filename string, ds Dataset) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	submitted := stats.Accepted + stats.Duplicate + stats.Failed
	if submitted > 0 {
		successRate = float64(stats.Accepted+stats.Duplicate) / float64(submitted) * percentMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("sessionsGenerated", stats.SessionsGenerated),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("retried", stats.Retried),
		logger.Int("failed", stats.Failed),
		logger.Int("teamsVerified", stats.TeamsVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("sessionsPerSecond", perSecond),
	)
}
