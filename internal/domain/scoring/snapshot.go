package scoring

import "github.com/okian/dugout/internal/domain/model"

// SkillSnapshot is the grade-weighted skill radar for one player.
type SkillSnapshot struct {
	Execution      float64 `json:"execution"`
	Power          float64 `json:"power"`
	Contact        float64 `json:"contact"`
	ClutchExec     float64 `json:"clutch_execution"`
	AvgGrade       float64 `json:"avg_grade"`
	TotalReps      int     `json:"total_reps"`
	Sets           int     `json:"sets"`
	ClutchSets     int     `json:"clutch_sets"`
	SimpleExecRate float64 `json:"simple_execution"`
}

// Snapshot builds the skill radar from a player's sets.
func Snapshot(sets []model.SetResult) SkillSnapshot {
	snap := SkillSnapshot{
		Execution:      WeightedMetric(sets, ExecutionRate),
		Power:          WeightedMetric(sets, PowerRate),
		Contact:        WeightedMetric(sets, ContactRate),
		SimpleExecRate: SimpleExecution(sets),
		Sets:           len(sets),
	}

	var clutch []model.SetResult
	var gradeSum float64
	var graded int
	for _, s := range sets {
		snap.TotalReps += s.RepsAttempted
		if s.Clutch() {
			clutch = append(clutch, s)
		}
		if g, ok := ValidGrade(s); ok {
			gradeSum += g
			graded++
		}
	}
	snap.ClutchSets = len(clutch)
	snap.ClutchExec = WeightedMetric(clutch, ExecutionRate)
	if graded > 0 {
		snap.AvgGrade = gradeSum / float64(graded)
	}
	return snap
}

// Flatten collects every set from the sessions, in order.
func Flatten(sessions []model.Session) []model.SetResult {
	n := 0
	for _, s := range sessions {
		n += len(s.Sets)
	}
	out := make([]model.SetResult, 0, n)
	for _, s := range sessions {
		out = append(out, s.Sets...)
	}
	return out
}
