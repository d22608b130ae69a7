// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/multierr"

	"github.com/okian/dugout/internal/domain/workload"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches log lines to JSON.
	LogJSON bool `koanf:"log_json"`
	// LogFile, when set, also writes logs to a size-rotated file.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// QueueSize bounds the in-memory session queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets how many session IDs are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// CacheSizeMB sizes the aggregation memo.
	CacheSizeMB int `koanf:"cache_size_mb"`
	// CacheTTLSeconds expires memoized results; zero keeps them until evicted.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// SeedFile is an optional YAML dataset loaded at startup.
	SeedFile string `koanf:"seed_file"`

	// Aggregation thresholds.
	LeaderboardMinReps int `koanf:"leaderboard_min_reps"`
	WeakSpotMinReps    int `koanf:"weak_spot_min_reps"`
	TopPlayers         int `koanf:"top_players"`
	TopDrills          int `koanf:"top_drills"`
	WeakSpotLimit      int `koanf:"weak_spot_limit"`

	// DefaultWindowDays is the workload window when a request omits one.
	DefaultWindowDays int `koanf:"default_window_days"`
	// TrendWeeks is the default trend length.
	TrendWeeks int `koanf:"trend_weeks"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogMaxSizeMB:       100,
		LogMaxBackups:      3,
		LogMaxAgeDays:      28,
		Addr:               ":9080",
		ShutdownTimeout:    10 * time.Second,
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         100_000,
		CacheSizeMB:        16,
		LeaderboardMinReps: 10,
		WeakSpotMinReps:    20,
		TopPlayers:         3,
		TopDrills:          5,
		WeakSpotLimit:      5,
		DefaultWindowDays:  workload.DefaultWindow(),
		TrendWeeks:         workload.DefaultWeeks(),
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, msg string) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, msg))
		}
	}
	check(c.Addr != "", "addr must not be empty")

	check(c.QueueSize > 0, fmt.Sprintf("queue_size must be positive, got %d", c.QueueSize))
	check(c.WorkerCount > 0, fmt.Sprintf("worker_count must be positive, got %d", c.WorkerCount))
	check(c.CacheSizeMB >= 0, fmt.Sprintf("cache_size_mb must not be negative, got %d", c.CacheSizeMB))
	check(c.CacheTTLSeconds >= 0, fmt.Sprintf("cache_ttl_seconds must not be negative, got %d", c.CacheTTLSeconds))
	check(c.LeaderboardMinReps > 0, fmt.Sprintf("leaderboard_min_reps must be positive, got %d", c.LeaderboardMinReps))
	check(c.WeakSpotMinReps > 0, fmt.Sprintf("weak_spot_min_reps must be positive, got %d", c.WeakSpotMinReps))
	check(c.TopPlayers > 0, fmt.Sprintf("top_players must be positive, got %d", c.TopPlayers))
	check(c.TopDrills > 0, fmt.Sprintf("top_drills must be positive, got %d", c.TopDrills))
	check(c.WeakSpotLimit > 0, fmt.Sprintf("weak_spot_limit must be positive, got %d", c.WeakSpotLimit))
	check(workload.ValidWindow(c.DefaultWindowDays), fmt.Sprintf("default_window_days must be one of %v, got %d", workload.Windows, c.DefaultWindowDays))
	check(c.TrendWeeks > 0, fmt.Sprintf("trend_weeks must be positive, got %d", c.TrendWeeks))
	return errs
}
