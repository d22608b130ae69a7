// Package goals derives the current value and progress of goals from logged sessions.
package goals

import (
	"math"
	"strings"
	"time"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
	"github.com/okian/dugout/internal/domain/types"
)

const (
	fullProgress = 100
	hoursPerDay  = 24
)

// FilterSets flattens the sessions into the sets that count toward goal.
//
// The drill-type filter matches the set's own drill type, falling back to the
// referenced drill. Zone and pitch filters match when any tag intersects any
// filter tag. Zones are compared in the right-handed frame the store keeps.
func FilterSets(goal model.Goal, sessions []model.Session, drills []model.Drill) []model.SetResult {
	idx := model.DrillIndex(drills)
	drillType := strings.TrimSpace(goal.DrillType)

	var out []model.SetResult
	for _, sess := range sessions {
		drill := idx[sess.DrillID]
		for _, raw := range sess.Sets {
			set := raw.WithDefaults(drill)
			if drillType != "" && !strings.EqualFold(strings.TrimSpace(set.DrillType), drillType) {
				continue
			}
			if !intersects(set.TargetZones, goal.TargetZones) || !intersects(set.PitchTypes, goal.PitchTypes) {
				continue
			}
			out = append(out, set)
		}
	}
	return out
}

// CurrentValue is the goal's derived value over the filtered sets. Count
// metrics are raw sums and are not clamped.
func CurrentValue(goal model.Goal, sessions []model.Session, drills []model.Drill) float64 {
	return Value(goal.Metric, FilterSets(goal, sessions, drills))
}

// Value computes a metric over sets. Percentages use the simple ratio.
func Value(m model.Metric, sets []model.SetResult) float64 {
	switch m {
	case model.TotalReps:
		total := 0
		for _, s := range sets {
			total += s.RepsAttempted
		}
		return float64(total)
	case model.NoStrikeouts:
		total := 0
		for _, s := range sets {
			total += s.Strikeouts
		}
		return float64(total)
	}
	if num, ok := scoring.NumeratorFor(m); ok {
		return scoring.SimpleRatio(sets, num)
	}
	return 0
}

// ProgressPercent converts a current value into a 0-100 progress figure.
//
// Ascending metrics report current/target. No Strikeouts is inverted: each
// strikeout eats into the allowance, and a zero allowance is all or nothing.
func ProgressPercent(m model.Metric, current, target float64) float64 {
	if m.Descending() {
		if target <= 0 {
			if current <= 0 {
				return fullProgress
			}
			return 0
		}
		return scoring.Clamp(fullProgress - current/target*fullProgress)
	}
	if target <= 0 {
		return 0
	}
	return scoring.Clamp(current / target * fullProgress)
}

// Achieved reports whether the current value meets the target.
func Achieved(m model.Metric, current, target float64) bool {
	if m.Descending() {
		return current <= target
	}
	return target > 0 && current >= target
}

// Evaluate resolves one goal against the history at the given time.
func Evaluate(goal model.Goal, sessions []model.Session, drills []model.Drill, now time.Time) types.GoalProgress {
	current := CurrentValue(goal, sessions, drills)
	p := types.GoalProgress{
		GoalID:     goal.ID,
		Metric:     string(goal.Metric),
		Current:    current,
		Target:     goal.TargetValue,
		Percent:    ProgressPercent(goal.Metric, current, goal.TargetValue),
		Achieved:   Achieved(goal.Metric, current, goal.TargetValue),
		TargetDate: goal.TargetDate,
	}
	if !goal.TargetDate.IsZero() {
		days := civilDays(now, goal.TargetDate)
		p.DaysRemaining = max(days, 0)
		p.Overdue = days < 0 && !p.Achieved
	}
	return p
}

// EvaluateAll resolves every goal in order.
func EvaluateAll(goals []model.Goal, sessions []model.Session, drills []model.Drill, now time.Time) []types.GoalProgress {
	out := make([]types.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, Evaluate(g, sessions, drills, now))
	}
	return out
}

// civilDays counts calendar days from a to b using each time's own date.
func civilDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(bd.Sub(ad).Hours() / hoursPerDay))
}

// intersects is true when filter is empty or any tag matches any filter entry.
func intersects(tags, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, t := range tags {
		for _, f := range filter {
			if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(f)) {
				return true
			}
		}
	}
	return false
}
