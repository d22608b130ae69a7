package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/dugout/internal/loadgen"
)

// Default configuration constants.
const (
	defaultTeams    = 3
	defaultPlayers  = 12
	defaultSessions = 5000
	defaultWorkers  = 2 // multiplier for runtime.NumCPU()
	defaultTimeout  = 30 * time.Second
	defaultSettle   = 30 * time.Second
	defaultRunLimit = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		teams    = flag.Int("teams", defaultTeams, "Number of teams")
		players  = flag.Int("players", defaultPlayers, "Players per team")
		sessions = flag.Int("sessions", defaultSessions, "Sessions to submit")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent submitters")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle   = flag.Duration("settle", defaultSettle, "How long to wait for queued sessions")
		seed     = flag.Uint64("seed", 1, "Random seed")
		output   = flag.String("output", "", "Write the generated dataset as JSON")
		logFile  = flag.String("log", "", "Also write logs to this file")
		verbose  = flag.Bool("verbose", false, "Log every failed request")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := loadgen.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, defaultRunLimit)

	_, err := loadgen.Run(ctx, &loadgen.Config{
		BaseURL:        *baseURL,
		Teams:          *teams,
		PlayersPerTeam: *players,
		Sessions:       *sessions,
		Workers:        *workers,
		Timeout:        *timeout,
		Settle:         *settle,
		Seed:           *seed,
		OutputFile:     *output,
		Verbose:        *verbose,
	})
	cancel()
	stop()
	if err != nil {
		_, _ = os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
