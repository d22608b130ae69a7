// Package scoring computes per-set rates and aggregates them across sets.
package scoring

import (
	"math"

	"github.com/okian/dugout/internal/domain/model"
)

// Percentage and grade bounds.
const (
	minPercent   = 0
	maxPercent   = 100
	minGrade     = 1
	maxGrade     = 10
	defaultGrade = 5
)

// Rate computes a 0-100 percentage from a single set.
type Rate func(model.SetResult) float64

// ExecutionRate is the share of attempted reps executed successfully.
func ExecutionRate(s model.SetResult) float64 {
	return percent(float64(s.RepsExecuted), float64(s.RepsAttempted))
}

// PowerRate is the share of attempted reps that were hard hits.
func PowerRate(s model.SetResult) float64 {
	return percent(float64(s.HardHits), float64(s.RepsAttempted))
}

// ContactRate is the complement of StrikeoutRate.
func ContactRate(s model.SetResult) float64 {
	return percent(float64(s.RepsAttempted-s.Strikeouts), float64(s.RepsAttempted))
}

// StrikeoutRate is the share of attempted reps ending in a strikeout.
func StrikeoutRate(s model.SetResult) float64 {
	return percent(float64(s.Strikeouts), float64(s.RepsAttempted))
}

// RateFor maps a percentage metric to its per-set rate. ok is false for
// count metrics.
func RateFor(m model.Metric) (Rate, bool) {
	switch m {
	case model.ExecutionPct:
		return ExecutionRate, true
	case model.HardHitPct:
		return PowerRate, true
	case model.ContactPct:
		return ContactRate, true
	default:
		return nil, false
	}
}

// GradeFactor returns the set's grade clamped to [1,10], or 5 when the grade
// is missing or not a finite number.
func GradeFactor(s model.SetResult) float64 {
	if s.Grade == nil {
		return defaultGrade
	}
	g := *s.Grade
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return defaultGrade
	}
	return math.Max(minGrade, math.Min(maxGrade, g))
}

// ValidGrade returns the grade and true when it is present and finite.
func ValidGrade(s model.SetResult) (float64, bool) {
	if s.Grade == nil || math.IsNaN(*s.Grade) || math.IsInf(*s.Grade, 0) {
		return 0, false
	}
	return *s.Grade, true
}

// percent returns num/den*100 clamped to [0,100]; 0 when den <= 0.
func percent(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return Clamp(num / den * maxPercent)
}

// Clamp bounds a percentage to [0,100]. NaN maps to 0.
func Clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(minPercent, math.Min(maxPercent, p))
}
