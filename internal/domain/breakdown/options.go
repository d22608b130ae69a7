// Package breakdown slices a team's history into ranked buckets per axis.
package breakdown

// Default thresholds.
const (
	defaultLeaderboardMinReps = 10
	defaultWeakSpotMinReps    = 20
	defaultTopPlayers         = 3
	defaultTopDrills          = 5
	defaultWeakSpotLimit      = 5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLeaderboardMinReps sets the reps a player needs to appear on a bucket leaderboard.
func WithLeaderboardMinReps(n float64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.leaderboardMinReps = n
		}
	}
}

// WithWeakSpotMinReps sets the reps a bucket needs to be reported as a weak spot.
func WithWeakSpotMinReps(n float64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.weakSpotMinReps = n
		}
	}
}

// WithTopPlayers caps each bucket leaderboard.
func WithTopPlayers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topPlayers = n
		}
	}
}

// WithTopDrills caps each effectiveness ranking.
func WithTopDrills(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topDrills = n
		}
	}
}

// WithWeakSpotLimit caps the weak spot list.
func WithWeakSpotLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.weakSpotLimit = n
		}
	}
}
