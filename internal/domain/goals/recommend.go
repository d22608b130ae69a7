package goals

import (
	"math"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
)

// Recommendation tuning.
const (
	pctStep          = 5
	pctFloor         = 50
	pctCeiling       = 100
	pctNoHistory     = 70
	repsGrowthPct    = 110
	repsStep         = 10
	repsNoHistory    = 100
	strikeoutCut     = 0.8
	strikeoutDefault = 0
	epsilon          = 1e-9
)

// RecommendTarget suggests a target for a drill template from a player's
// history with that drill. Percentage targets sit one step above the current
// rate; volume targets grow by ten percent; strikeout allowances shrink.
func RecommendTarget(m model.Metric, sets []model.SetResult) float64 {
	attempted := 0
	for _, s := range sets {
		if s.RepsAttempted > 0 {
			attempted += s.RepsAttempted
		}
	}

	switch {
	case m.IsPercentage():
		if attempted == 0 {
			return pctNoHistory
		}
		num, _ := scoring.NumeratorFor(m)
		current := scoring.SimpleRatio(sets, num)
		target := math.Ceil((current+pctStep)/pctStep-epsilon) * pctStep
		return math.Max(pctFloor, math.Min(pctCeiling, target))
	case m == model.TotalReps:
		if attempted == 0 {
			return repsNoHistory
		}
		// integer math keeps 100 reps at 110 rather than 120
		return float64((attempted*repsGrowthPct + repsStep*100 - 1) / (repsStep * 100) * repsStep)
	case m == model.NoStrikeouts:
		if attempted == 0 {
			return strikeoutDefault
		}
		return math.Floor(Value(m, sets) * strikeoutCut)
	default:
		return 0
	}
}
