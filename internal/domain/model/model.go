// Package model contains domain records passed between layers.
package model

import (
	"strings"
	"time"
)

// Hand is a batter's stance.
type Hand string

const (
	HandRight  Hand = "R"
	HandLeft   Hand = "L"
	HandSwitch Hand = "S"
)

// ParseHand accepts R/L/S or the spelled-out forms. Anything else is right-handed.
func ParseHand(s string) Hand {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "lefty":
		return HandLeft
	case "s", "switch":
		return HandSwitch
	default:
		return HandRight
	}
}

// CountSituation is the ball/strike count context a set was taken in.
type CountSituation string

const (
	CountUnknown CountSituation = ""
	CountAhead   CountSituation = "Ahead"
	CountEven    CountSituation = "Even"
	CountBehind  CountSituation = "Behind"
)

// ParseCountSituation is case-insensitive; unrecognized input maps to CountUnknown.
func ParseCountSituation(s string) CountSituation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ahead":
		return CountAhead
	case "even":
		return CountEven
	case "behind":
		return CountBehind
	default:
		return CountUnknown
	}
}

// SetResult is one logged block of repetitions. Optional fields are nil/empty
// when absent; defaulting happens in the scoring package.
type SetResult struct {
	RepsAttempted  int            `json:"reps_attempted" koanf:"reps_attempted"`
	RepsExecuted   int            `json:"reps_executed" koanf:"reps_executed"`
	HardHits       int            `json:"hard_hits" koanf:"hard_hits"`
	Strikeouts     int            `json:"strikeouts" koanf:"strikeouts"`
	Grade          *float64       `json:"grade,omitempty" koanf:"grade"`
	CountSituation CountSituation `json:"count_situation,omitempty" koanf:"count_situation"`
	TargetZones    []string       `json:"target_zones,omitempty" koanf:"target_zones"`
	PitchTypes     []string       `json:"pitch_types,omitempty" koanf:"pitch_types"`
	DrillType      string         `json:"drill_type,omitempty" koanf:"drill_type"`
	BaseRunners    []string       `json:"base_runners,omitempty" koanf:"base_runners"`
}

// Clutch reports whether runners were on base for the set.
func (s SetResult) Clutch() bool { return len(s.BaseRunners) > 0 }

// Session is an ordered sequence of sets logged by one player on one day.
type Session struct {
	ID         string      `json:"id" koanf:"id"`
	TeamID     string      `json:"team_id" koanf:"team_id"`
	PlayerID   string      `json:"player_id" koanf:"player_id"`
	DrillID    string      `json:"drill_id,omitempty" koanf:"drill_id"`
	Name       string      `json:"name" koanf:"name"`
	Date       time.Time   `json:"date" koanf:"date"`
	Sets       []SetResult `json:"sets" koanf:"sets"`
	BatterHand Hand        `json:"batter_hand,omitempty" koanf:"batter_hand"`
}

// TotalReps sums attempted reps across the session.
func (s Session) TotalReps() int {
	total := 0
	for _, set := range s.Sets {
		total += set.RepsAttempted
	}
	return total
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (s Session) Clone() Session {
	out := s
	out.Sets = make([]SetResult, len(s.Sets))
	for i, set := range s.Sets {
		c := set
		if set.Grade != nil {
			g := *set.Grade
			c.Grade = &g
		}
		c.TargetZones = cloneStrings(set.TargetZones)
		c.PitchTypes = cloneStrings(set.PitchTypes)
		c.BaseRunners = cloneStrings(set.BaseRunners)
		out.Sets[i] = c
	}
	return out
}

// Drill is a team-wide template with a goal metric and default situational tags.
type Drill struct {
	ID              string         `json:"id" koanf:"id"`
	TeamID          string         `json:"team_id" koanf:"team_id"`
	Name            string         `json:"name" koanf:"name"`
	DrillType       string         `json:"drill_type,omitempty" koanf:"drill_type"`
	GoalType        Metric         `json:"goal_type" koanf:"goal_type"`
	GoalTargetValue float64        `json:"goal_target_value" koanf:"goal_target_value"`
	TargetZones     []string       `json:"target_zones,omitempty" koanf:"target_zones"`
	PitchTypes      []string       `json:"pitch_types,omitempty" koanf:"pitch_types"`
	CountSituation  CountSituation `json:"count_situation,omitempty" koanf:"count_situation"`
	BaseRunners     []string       `json:"base_runners,omitempty" koanf:"base_runners"`
}

// ResolvedType is the drill's type, falling back to its name.
func (d Drill) ResolvedType() string {
	if t := strings.TrimSpace(d.DrillType); t != "" {
		return t
	}
	return strings.TrimSpace(d.Name)
}

// GoalScope distinguishes personal goals from team goals.
type GoalScope string

const (
	ScopePersonal GoalScope = "personal"
	ScopeTeam     GoalScope = "team"
)

// Goal is a target definition. Its current value is always derived.
type Goal struct {
	ID          string    `json:"id" koanf:"id"`
	Scope       GoalScope `json:"scope" koanf:"scope"`
	OwnerID     string    `json:"owner_id,omitempty" koanf:"owner_id"` // player id for personal goals
	TeamID      string    `json:"team_id" koanf:"team_id"`
	Metric      Metric    `json:"metric" koanf:"metric"`
	TargetValue float64   `json:"target_value" koanf:"target_value"`
	TargetDate  time.Time `json:"target_date" koanf:"target_date"`
	DrillType   string    `json:"drill_type,omitempty" koanf:"drill_type"`
	TargetZones []string  `json:"target_zones,omitempty" koanf:"target_zones"`
	PitchTypes  []string  `json:"pitch_types,omitempty" koanf:"pitch_types"`
}

// Player is a roster member.
type Player struct {
	ID       string `json:"id" koanf:"id"`
	TeamID   string `json:"team_id" koanf:"team_id"`
	Name     string `json:"name" koanf:"name"`
	Bats     Hand   `json:"bats" koanf:"bats"`
	Position string `json:"position,omitempty" koanf:"position"`
}

// Team groups players, drills, sessions and goals.
type Team struct {
	ID   string `json:"id" koanf:"id"`
	Name string `json:"name" koanf:"name"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// WithDefaults fills the set's empty situational tags from the drill template.
// Set-level values always win. A nil drill returns the set unchanged.
func (s SetResult) WithDefaults(d *Drill) SetResult {
	if d == nil {
		return s
	}
	if strings.TrimSpace(s.DrillType) == "" {
		s.DrillType = d.ResolvedType()
	}
	if len(s.TargetZones) == 0 {
		s.TargetZones = cloneStrings(d.TargetZones)
	}
	if len(s.PitchTypes) == 0 {
		s.PitchTypes = cloneStrings(d.PitchTypes)
	}
	if s.CountSituation == CountUnknown {
		s.CountSituation = d.CountSituation
	}
	if len(s.BaseRunners) == 0 {
		s.BaseRunners = cloneStrings(d.BaseRunners)
	}
	return s
}

// DrillIndex maps drill IDs to drills.
func DrillIndex(drills []Drill) map[string]*Drill {
	idx := make(map[string]*Drill, len(drills))
	for i := range drills {
		idx[drills[i].ID] = &drills[i]
	}
	return idx
}

// PlayerIndex maps player IDs to players.
func PlayerIndex(players []Player) map[string]*Player {
	idx := make(map[string]*Player, len(players))
	for i := range players {
		idx[players[i].ID] = &players[i]
	}
	return idx
}
