package loadgen

import (
	"fmt"
	"os"

	"github.com/okian/dugout/pkg/logger"
)

// SetupLogging initializes the global logger, teeing to logFile when set.
func SetupLogging(logFile string, verbose bool) error {
	var opts []logger.Option
	if logFile != "" {
		opts = append(opts, logger.WithFile(logger.FileOutput{Path: logFile}))
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the load generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`dugout load generator
=====================

Creates a synthetic roster, submits practice sessions concurrently, resends a
share of them to exercise idempotency, then checks team breakdowns, leaderboards
and workload against totals computed locally.

Usage:
  go run ./cmd/loadgen [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -teams int         Number of teams (default 3)
  -players int       Players per team (default 12)
  -sessions int      Sessions to submit (default 5000)
  -workers int       Concurrent submitters (default CPU cores * 2)
  -timeout duration  HTTP request timeout (default 30s)
  -settle duration   How long to wait for queued sessions (default 30s)
  -seed uint         Random seed (default 1)
  -output string     Write the generated dataset as JSON
  -log string        Also write logs to this file (rotated)
  -verbose           Log every failed request
  -help              Show this help message

Examples:
  go run ./cmd/loadgen -sessions 50000 -workers 16
  go run ./cmd/loadgen -url http://localhost:8080 -seed 42 -output /tmp/dataset.json
`)
}
