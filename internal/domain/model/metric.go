package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a payload names a metric that does not exist.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric is the closed set of goal metrics.
type Metric string

const (
	MetricUnknown Metric = ""
	ExecutionPct  Metric = "Execution %"
	HardHitPct    Metric = "Hard Hit %"
	ContactPct    Metric = "Contact %"
	TotalReps     Metric = "Total Reps"
	NoStrikeouts  Metric = "No Strikeouts"
)

// Metrics lists every known metric in display order.
var Metrics = []Metric{ExecutionPct, HardHitPct, ContactPct, TotalReps, NoStrikeouts}

// ParseMetric accepts the display label or a snake_case key ("hard_hit_pct").
func ParseMetric(s string) Metric {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("%", "pct", " ", "_", "-", "_").Replace(key)
	key = strings.ReplaceAll(key, "__", "_")
	switch key {
	case "execution_pct", "execution", "exec_pct":
		return ExecutionPct
	case "hard_hit_pct", "hard_hit", "power", "power_pct":
		return HardHitPct
	case "contact_pct", "contact":
		return ContactPct
	case "total_reps", "reps":
		return TotalReps
	case "no_strikeouts", "strikeouts":
		return NoStrikeouts
	default:
		return MetricUnknown
	}
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// IsPercentage is true for metrics reported on a 0-100 scale.
func (m Metric) IsPercentage() bool {
	return m == ExecutionPct || m == HardHitPct || m == ContactPct
}

// Descending is true when lower values are better.
func (m Metric) Descending() bool { return m == NoStrikeouts }

// UnmarshalText lets JSON and koanf payloads use either spelling. Empty input
// is MetricUnknown; anything else must name a known metric.
func (m *Metric) UnmarshalText(b []byte) error {
	raw := string(b)
	parsed := ParseMetric(raw)
	if parsed == MetricUnknown && strings.TrimSpace(raw) != "" {
		return fmt.Errorf("%w %q", ErrUnknownMetric, raw)
	}
	*m = parsed
	return nil
}

// MarshalJSON always emits the display label.
func (m Metric) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}
