// Package types contains the presentation shapes returned by the analytics engine.
package types

import "time"

// LeaderboardEntry is one ranked player inside a bucket.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Reps     float64 `json:"reps"`
}

// BreakdownRow is one bucket of a breakdown axis.
type BreakdownRow struct {
	Name       string             `json:"name"`
	Reps       float64            `json:"reps"`
	Execution  float64            `json:"execution"`
	Power      float64            `json:"power"`
	Contact    float64            `json:"contact"`
	TopPlayers []LeaderboardEntry `json:"top_players"`
}

// RankedDrill is a drill placed in an effectiveness ranking.
type RankedDrill struct {
	Name       string             `json:"name"`
	Value      float64            `json:"value"`
	Reps       float64            `json:"reps"`
	TopPlayers []LeaderboardEntry `json:"top_players"`
}

// WeakSpot is a well-sampled bucket where the team executes below its average.
type WeakSpot struct {
	Axis      string  `json:"axis"`
	Name      string  `json:"name"`
	Reps      float64 `json:"reps"`
	Execution float64 `json:"execution"`
	Gap       float64 `json:"gap"`
}

// Effectiveness holds the top drills per metric.
type Effectiveness struct {
	Execution []RankedDrill `json:"execution"`
	Power     []RankedDrill `json:"power"`
	Contact   []RankedDrill `json:"contact"`
}

// TeamBreakdown is the full team analytics view.
type TeamBreakdown struct {
	TotalReps     float64        `json:"total_reps"`
	Execution     float64        `json:"execution"`
	ByDrill       []BreakdownRow `json:"by_drill"`
	ByPitch       []BreakdownRow `json:"by_pitch"`
	ByCount       []BreakdownRow `json:"by_count"`
	ByZone        []BreakdownRow `json:"by_zone"`
	Effectiveness Effectiveness  `json:"effectiveness"`
	WeakSpots     []WeakSpot     `json:"weak_spots"`
}

// PlayerDay is one player's activity on a calendar day.
type PlayerDay struct {
	PlayerID  string  `json:"player_id"`
	Name      string  `json:"name"`
	Reps      int     `json:"reps"`
	Execution float64 `json:"execution"`
	AvgGrade  float64 `json:"avg_grade"`
}

// DayBucket is one calendar day in a workload window.
type DayBucket struct {
	Date    string      `json:"date"`
	Reps    int         `json:"reps"`
	Players []PlayerDay `json:"players"`
}

// WeekBucket is one 7-day window of a trend.
type WeekBucket struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Sessions     int     `json:"sessions"`
	Reps         int     `json:"reps"`
	AvgReps      float64 `json:"avg_reps"`
	AvgExecution float64 `json:"avg_execution"`
}

// Trend labels.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Trend is a sequence of week buckets with a direction label.
type Trend struct {
	Weeks []WeekBucket `json:"weeks"`
	Label string       `json:"label"`
	Delta float64      `json:"delta"`
}

// GoalProgress is a goal with its derived current value.
type GoalProgress struct {
	GoalID        string    `json:"goal_id"`
	Metric        string    `json:"metric"`
	Current       float64   `json:"current"`
	Target        float64   `json:"target"`
	Percent       float64   `json:"percent"`
	Achieved      bool      `json:"achieved"`
	TargetDate    time.Time `json:"target_date"`
	DaysRemaining int       `json:"days_remaining"`
	Overdue       bool      `json:"overdue"`
}

// Recommendation is a suggested target for a drill template.
type Recommendation struct {
	DrillID string  `json:"drill_id"`
	Metric  string  `json:"metric"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Sets    int     `json:"sets"`
}
