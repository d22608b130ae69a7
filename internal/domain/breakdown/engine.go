package breakdown

import (
	"sort"
	"strings"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
	"github.com/okian/dugout/internal/domain/types"
)

// Engine builds team breakdowns. It holds only thresholds and is safe for
// concurrent use.
type Engine struct {
	leaderboardMinReps float64
	weakSpotMinReps    float64
	topPlayers         int
	topDrills          int
	weakSpotLimit      int
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		leaderboardMinReps: defaultLeaderboardMinReps,
		weakSpotMinReps:    defaultWeakSpotMinReps,
		topPlayers:         defaultTopPlayers,
		topDrills:          defaultTopDrills,
		weakSpotLimit:      defaultWeakSpotLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// dataset is one pass over the team's sets with drill defaults applied.
type dataset struct {
	drill, pitch, count, zone *axis
	overall                   scoring.Totals
	names                     map[string]string
}

// record pairs a resolved set with the player that logged it.
type record struct {
	playerID string
	set      model.SetResult
}

func resolve(sessions []model.Session, drills []model.Drill) []record {
	idx := model.DrillIndex(drills)
	var out []record
	for _, sess := range sessions {
		d := idx[sess.DrillID]
		for _, s := range sess.Sets {
			if s.RepsAttempted <= 0 {
				continue
			}
			out = append(out, record{playerID: sess.PlayerID, set: s.WithDefaults(d)})
		}
	}
	return out
}

func collect(records []record, players []model.Player) *dataset {
	ds := &dataset{
		drill: newAxis(),
		pitch: newAxis(),
		count: newAxis(),
		zone:  newAxis(),
		names: make(map[string]string, len(players)),
	}
	for _, p := range players {
		ds.names[p.ID] = p.Name
	}
	for _, r := range records {
		ds.overall.Add(r.set, 1)
		if t := strings.TrimSpace(r.set.DrillType); t != "" {
			ds.drill.add(t, r.playerID, r.set, 1)
		}
		if r.set.CountSituation != model.CountUnknown {
			ds.count.add(string(r.set.CountSituation), r.playerID, r.set, 1)
		}
		ds.pitch.addSplit(r.set.PitchTypes, r.playerID, r.set)
		ds.zone.addSplit(r.set.TargetZones, r.playerID, r.set)
	}
	return ds
}

// Build computes the full team breakdown. Zones are expected in the
// right-handed frame, which is how the store keeps them.
func (e *Engine) Build(sessions []model.Session, players []model.Player, drills []model.Drill) types.TeamBreakdown {
	records := resolve(sessions, drills)
	ds := collect(records, players)

	out := types.TeamBreakdown{
		TotalReps: ds.overall.Attempted,
		Execution: ds.overall.Execution(),
		ByDrill:   e.rows(ds.drill, ds.names),
		ByPitch:   e.rows(ds.pitch, ds.names),
		ByCount:   e.rows(ds.count, ds.names),
		ByZone:    e.rows(ds.zone, ds.names),
	}
	out.Effectiveness = types.Effectiveness{
		Execution: e.effectiveness(ds, records, model.ExecutionPct),
		Power:     e.effectiveness(ds, records, model.HardHitPct),
		Contact:   e.effectiveness(ds, records, model.ContactPct),
	}
	out.WeakSpots = e.weakSpots(ds)
	return out
}

func (e *Engine) rows(a *axis, names map[string]string) []types.BreakdownRow {
	ranked := a.ranked()
	out := make([]types.BreakdownRow, 0, len(ranked))
	for _, b := range ranked {
		out = append(out, types.BreakdownRow{
			Name:       b.name,
			Reps:       b.totals.Attempted,
			Execution:  b.totals.Execution(),
			Power:      b.totals.Power(),
			Contact:    b.totals.Contact(),
			TopPlayers: e.leaderboard(b.playerOrder, b.players, names, model.ExecutionPct, e.leaderboardMinReps, e.topPlayers),
		})
	}
	return out
}

// effectiveness ranks drills by one metric and attaches a leaderboard built
// by re-filtering the full record set for each ranked drill. Drills with
// fewer reps than a leaderboard entry needs are not ranked.
func (e *Engine) effectiveness(ds *dataset, records []record, m model.Metric) []types.RankedDrill {
	drills := make([]*bucket, 0, len(ds.drill.order))
	for _, b := range ds.drill.order {
		if b.totals.Attempted+repsEpsilon >= e.leaderboardMinReps {
			drills = append(drills, b)
		}
	}
	sort.SliceStable(drills, func(i, j int) bool {
		return drills[i].totals.Value(m) > drills[j].totals.Value(m)
	})
	if len(drills) > e.topDrills {
		drills = drills[:e.topDrills]
	}

	out := make([]types.RankedDrill, 0, len(drills))
	for _, d := range drills {
		order, per := playersFor(records, func(r record) bool {
			return strings.TrimSpace(r.set.DrillType) == d.name
		})
		out = append(out, types.RankedDrill{
			Name:       d.name,
			Value:      d.totals.Value(m),
			Reps:       d.totals.Attempted,
			TopPlayers: e.leaderboard(order, per, ds.names, m, e.leaderboardMinReps, e.topPlayers),
		})
	}
	return out
}

// weakSpots lists well-sampled pitch, count and zone buckets that execute
// below the team average, worst first.
func (e *Engine) weakSpots(ds *dataset) []types.WeakSpot {
	avg := ds.overall.Execution()
	var out []types.WeakSpot
	for _, ax := range []struct {
		name string
		a    *axis
	}{{AxisPitch, ds.pitch}, {AxisCount, ds.count}, {AxisZone, ds.zone}} {
		for _, b := range ax.a.order {
			if b.totals.Attempted+repsEpsilon < e.weakSpotMinReps {
				continue
			}
			exec := b.totals.Execution()
			if exec >= avg {
				continue
			}
			out = append(out, types.WeakSpot{
				Axis:      ax.name,
				Name:      b.name,
				Reps:      b.totals.Attempted,
				Execution: exec,
				Gap:       avg - exec,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Execution < out[j].Execution })
	if len(out) > e.weakSpotLimit {
		out = out[:e.weakSpotLimit]
	}
	return out
}

// Leaderboard ranks every player on the team by one metric across all of
// their sets. Players below minReps are left out.
func (e *Engine) Leaderboard(sessions []model.Session, players []model.Player, drills []model.Drill, m model.Metric, limit int) []types.LeaderboardEntry {
	records := resolve(sessions, drills)
	order, per := playersFor(records, func(record) bool { return true })
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	if limit <= 0 {
		limit = len(order)
	}
	return e.leaderboard(order, per, names, m, e.leaderboardMinReps, limit)
}

func playersFor(records []record, keep func(record) bool) ([]string, map[string]*scoring.Totals) {
	per := make(map[string]*scoring.Totals)
	var order []string
	for _, r := range records {
		if !keep(r) {
			continue
		}
		t, ok := per[r.playerID]
		if !ok {
			t = &scoring.Totals{}
			per[r.playerID] = t
			order = append(order, r.playerID)
		}
		t.Add(r.set, 1)
	}
	return order, per
}

// leaderboard ranks qualifying players by m. Sorting is stable, so ties keep
// first-seen order. Descending metrics rank the lowest value first.
func (e *Engine) leaderboard(order []string, per map[string]*scoring.Totals, names map[string]string, m model.Metric, minReps float64, limit int) []types.LeaderboardEntry {
	out := make([]types.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		t := per[id]
		if t.Attempted+repsEpsilon < minReps {
			continue
		}
		name := names[id]
		if name == "" {
			name = id
		}
		out = append(out, types.LeaderboardEntry{PlayerID: id, Name: name, Value: t.Value(m), Reps: t.Attempted})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if m.Descending() {
			return out[i].Value < out[j].Value
		}
		return out[i].Value > out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
