// Package loadgen drives a running dugout service with a synthetic roster and
// practice sessions, then checks the derived analytics against totals computed
// on the client side.
package loadgen

import (
	"errors"
	"time"

	"github.com/okian/dugout/internal/domain/model"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Teams          int           // Number of teams to create
	PlayersPerTeam int           // Roster size per team
	Sessions       int           // Number of sessions to submit
	Workers        int           // Number of concurrent submitters
	Timeout        time.Duration // HTTP request timeout
	Settle         time.Duration // How long to wait for the queue to drain
	Seed           uint64        // Random seed; equal seeds produce equal datasets
	OutputFile     string        // Optional JSON dump of the generated dataset
	Verbose        bool          // Log every failed request
}

// Validation errors.
var (
	ErrInvalidConfig = errors.New("invalid loadgen config")
	ErrMismatch      = errors.New("analytics mismatch")
)

// Dataset is everything a run submits.
type Dataset struct {
	Teams    []model.Team    `json:"teams"`
	Players  []model.Player  `json:"players"`
	Drills   []model.Drill   `json:"drills"`
	Sessions []model.Session `json:"sessions"`
}

// Totals are the figures a team breakdown must report once every session is stored.
type Totals struct {
	Reps     int
	Executed int
}

// Execution is the team's simple execution percentage.
func (t Totals) Execution() float64 {
	if t.Reps == 0 {
		return 0
	}
	return float64(t.Executed) / float64(t.Reps) * 100
}

// Stats holds run statistics.
type Stats struct {
	SessionsGenerated int
	Accepted          int
	Duplicate         int
	Retried           int
	Failed            int
	TeamsVerified     int
	StartTime         time.Time
	Duration          time.Duration
}
