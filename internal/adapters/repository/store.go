// Package repository holds teams, rosters, drills, goals and logged sessions.
package repository

import (
	"context"

	"github.com/okian/dugout/internal/domain/model"
)

// Reader is the read side used by the aggregation layer.
type Reader interface {
	SessionsForTeam(ctx context.Context, teamID string) ([]model.Session, error)
	SessionsForPlayer(ctx context.Context, playerID string) ([]model.Session, error)
	DrillsForTeam(ctx context.Context, teamID string) ([]model.Drill, error)
	GoalsForPlayer(ctx context.Context, playerID string) ([]model.Goal, error)
	TeamGoals(ctx context.Context, teamID string) ([]model.Goal, error)
	PlayersInTeam(ctx context.Context, teamID string) ([]model.Player, error)
	Player(ctx context.Context, playerID string) (model.Player, error)
	Team(ctx context.Context, teamID string) (model.Team, error)
	Drill(ctx context.Context, drillID string) (model.Drill, error)
	HasSession(ctx context.Context, sessionID string) bool
	// Version changes after every successful write.
	Version() uint64
	Stats(ctx context.Context) Stats
}

// Writer records new data. Each method returns the record as stored.
type Writer interface {
	AddTeam(ctx context.Context, t model.Team) (model.Team, error)
	AddPlayer(ctx context.Context, p model.Player) (model.Player, error)
	AddDrill(ctx context.Context, d model.Drill) (model.Drill, error)
	AddGoal(ctx context.Context, g model.Goal) (model.Goal, error)
	// LogSession stores a session in the right-handed zone frame with drill
	// defaults materialized on every set.
	LogSession(ctx context.Context, s model.Session) (model.Session, error)
}

// Store provides read/write access to coaching data.
type Store interface {
	Reader
	Writer
}

// Stats counts stored records.
type Stats struct {
	Teams    int    `json:"teams"`
	Players  int    `json:"players"`
	Drills   int    `json:"drills"`
	Goals    int    `json:"goals"`
	Sessions int    `json:"sessions"`
	Version  uint64 `json:"version"`
}
