package breakdown

import (
	"sort"
	"strings"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
)

// Axis names.
const (
	AxisDrill = "drill"
	AxisPitch = "pitch"
	AxisCount = "count"
	AxisZone  = "zone"
)

// repsEpsilon absorbs float error from fractional attribution when comparing
// against sample thresholds.
const repsEpsilon = 1e-9

// bucket accumulates one named slice of an axis.
type bucket struct {
	name        string
	totals      scoring.Totals
	players     map[string]*scoring.Totals
	playerOrder []string
}

func (b *bucket) add(playerID string, set model.SetResult, share float64) {
	b.totals.Add(set, share)
	pt, ok := b.players[playerID]
	if !ok {
		pt = &scoring.Totals{}
		b.players[playerID] = pt
		b.playerOrder = append(b.playerOrder, playerID)
	}
	pt.Add(set, share)
}

// axis keeps buckets in first-seen order so ranking ties are stable.
type axis struct {
	buckets map[string]*bucket
	order   []*bucket
}

func newAxis() *axis {
	return &axis{buckets: make(map[string]*bucket)}
}

func (a *axis) add(name, playerID string, set model.SetResult, share float64) {
	b, ok := a.buckets[name]
	if !ok {
		b = &bucket{name: name, players: make(map[string]*scoring.Totals)}
		a.buckets[name] = b
		a.order = append(a.order, b)
	}
	b.add(playerID, set, share)
}

// addSplit attributes the set evenly across its distinct tags.
func (a *axis) addSplit(tags []string, playerID string, set model.SetResult) {
	uniq := distinct(tags)
	if len(uniq) == 0 {
		return
	}
	share := 1 / float64(len(uniq))
	for _, t := range uniq {
		a.add(t, playerID, set, share)
	}
}

// ranked returns buckets by reps descending, ties in first-seen order.
func (a *axis) ranked() []*bucket {
	out := make([]*bucket, len(a.order))
	copy(out, a.order)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].totals.Attempted > out[j].totals.Attempted
	})
	return out
}

// distinct trims tags and drops blanks and repeats, keeping order.
func distinct(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
