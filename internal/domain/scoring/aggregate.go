package scoring

import "github.com/okian/dugout/internal/domain/model"

// WeightedMetric averages rate across sets using attempted reps times the
// grade factor as the weight. Sets with no attempts are skipped.
//
// This is the skill-radar aggregate. Dashboards and leaderboards use
// SimpleRatio, which ignores grades; the two diverge whenever grades vary.
func WeightedMetric(sets []model.SetResult, rate Rate) float64 {
	var totalWeight, weighted float64
	for _, s := range sets {
		if s.RepsAttempted <= 0 {
			continue
		}
		w := float64(s.RepsAttempted) * GradeFactor(s)
		totalWeight += w
		weighted += rate(s) * w
	}
	if totalWeight <= 0 {
		return 0
	}
	return Clamp(weighted / totalWeight)
}

// Numerator extracts the counted outcome of a set for SimpleRatio.
type Numerator func(model.SetResult) float64

// Numerators for the simple-ratio metrics.
var (
	Executed      Numerator = func(s model.SetResult) float64 { return float64(s.RepsExecuted) }
	HardHits      Numerator = func(s model.SetResult) float64 { return float64(s.HardHits) }
	Strikeouts    Numerator = func(s model.SetResult) float64 { return float64(s.Strikeouts) }
	NonStrikeouts Numerator = func(s model.SetResult) float64 { return float64(s.RepsAttempted - s.Strikeouts) }
)

// SimpleRatio sums the numerator and attempted reps over all sets and divides.
// Sets with no attempts contribute nothing.
func SimpleRatio(sets []model.SetResult, num Numerator) float64 {
	var n, d float64
	for _, s := range sets {
		if s.RepsAttempted <= 0 {
			continue
		}
		n += num(s)
		d += float64(s.RepsAttempted)
	}
	return percent(n, d)
}

// SimpleExecution is the plain executed/attempted percentage.
func SimpleExecution(sets []model.SetResult) float64 { return SimpleRatio(sets, Executed) }

// SimplePower is the plain hard-hit percentage.
func SimplePower(sets []model.SetResult) float64 { return SimpleRatio(sets, HardHits) }

// SimpleContact is the plain contact percentage.
func SimpleContact(sets []model.SetResult) float64 { return SimpleRatio(sets, NonStrikeouts) }

// NumeratorFor maps a percentage metric to its simple-ratio numerator.
func NumeratorFor(m model.Metric) (Numerator, bool) {
	switch m {
	case model.ExecutionPct:
		return Executed, true
	case model.HardHitPct:
		return HardHits, true
	case model.ContactPct:
		return NonStrikeouts, true
	default:
		return nil, false
	}
}

// Totals accumulates raw counts, optionally with a fractional share per set
// so a set split across several buckets is not double-counted.
type Totals struct {
	Attempted  float64
	Executed   float64
	HardHits   float64
	Strikeouts float64
}

// Add accumulates share of the set's counts. Sets with no attempts are ignored.
func (t *Totals) Add(s model.SetResult, share float64) {
	if s.RepsAttempted <= 0 || share <= 0 {
		return
	}
	t.Attempted += float64(s.RepsAttempted) * share
	t.Executed += float64(s.RepsExecuted) * share
	t.HardHits += float64(s.HardHits) * share
	t.Strikeouts += float64(s.Strikeouts) * share
}

// Merge adds o into t.
func (t *Totals) Merge(o Totals) {
	t.Attempted += o.Attempted
	t.Executed += o.Executed
	t.HardHits += o.HardHits
	t.Strikeouts += o.Strikeouts
}

// Execution is executed reps over attempted reps, as a percentage.
func (t Totals) Execution() float64 { return percent(t.Executed, t.Attempted) }

// Power is hard hits over attempted reps, as a percentage.
func (t Totals) Power() float64 { return percent(t.HardHits, t.Attempted) }

// Contact is the share of attempted reps that did not end in a strikeout.
func (t Totals) Contact() float64 { return percent(t.Attempted-t.Strikeouts, t.Attempted) }

// Value returns the percentage for a metric; count metrics report raw sums.
func (t Totals) Value(m model.Metric) float64 {
	switch m {
	case model.ExecutionPct:
		return t.Execution()
	case model.HardHitPct:
		return t.Power()
	case model.ContactPct:
		return t.Contact()
	case model.TotalReps:
		return t.Attempted
	case model.NoStrikeouts:
		return t.Strikeouts
	default:
		return 0
	}
}
