package loadgen

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/dugout/internal/domain/model"
)

const (
	maxSetsPerSession = 4
	maxRepsPerSet     = 25
	historyDays       = 14
	// every resubmitEvery-th session is sent twice to exercise idempotency
	resubmitEvery = 20
)

var (
	zones     = []string{"Inside-High", "Inside-Low", "Middle", "Outside-High", "Outside-Low"}
	pitches   = []string{"Fastball", "Curveball", "Slider", "Changeup"}
	counts    = []model.CountSituation{model.CountAhead, model.CountEven, model.CountBehind}
	hands     = []model.Hand{model.HandRight, model.HandRight, model.HandLeft, model.HandSwitch}
	drillKind = []struct {
		name   string
		metric model.Metric
	}{
		{"Tee Work", model.ExecutionPct},
		{"Front Toss", model.HardHitPct},
		{"Live BP", model.ContactPct},
		{"Two Strike Approach", model.NoStrikeouts},
	}
)

// Generate builds a reproducible dataset for cfg. IDs are UUIDs derived from
// the seeded source, so equal seeds give equal datasets.
func Generate(cfg *Config, now time.Time) Dataset {
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	id := func(prefix string) string {
		u, _ := uuid.NewRandomFromReader(readerFunc(func(p []byte) (int, error) {
			for i := range p {
				p[i] = byte(r.Uint32())
			}
			return len(p), nil
		}))
		return prefix + "-" + u.String()
	}

	var ds Dataset
	drillsByTeam := make(map[string][]model.Drill, cfg.Teams)
	for t := 0; t < cfg.Teams; t++ {
		team := model.Team{ID: id("team"), Name: fmt.Sprintf("Team %d", t+1)}
		ds.Teams = append(ds.Teams, team)
		for p := 0; p < cfg.PlayersPerTeam; p++ {
			ds.Players = append(ds.Players, model.Player{
				ID:     id("player"),
				TeamID: team.ID,
				Name:   fmt.Sprintf("Player %d-%d", t+1, p+1),
				Bats:   hands[r.IntN(len(hands))],
			})
		}
		for _, k := range drillKind {
			d := model.Drill{
				ID:          id("drill"),
				TeamID:      team.ID,
				Name:        k.name,
				GoalType:    k.metric,
				TargetZones: []string{zones[r.IntN(len(zones))]},
				PitchTypes:  []string{pitches[r.IntN(len(pitches))]},
			}
			ds.Drills = append(ds.Drills, d)
			drillsByTeam[team.ID] = append(drillsByTeam[team.ID], d)
		}
	}
	if len(ds.Players) == 0 {
		return ds
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < cfg.Sessions; i++ {
		p := ds.Players[r.IntN(len(ds.Players))]
		sess := model.Session{
			ID:       id("session"),
			TeamID:   p.TeamID,
			PlayerID: p.ID,
			Date:     day.AddDate(0, 0, -r.IntN(historyDays)).Add(time.Duration(8+r.IntN(10)) * time.Hour),
		}
		if drills := drillsByTeam[p.TeamID]; r.IntN(4) > 0 {
			sess.DrillID = drills[r.IntN(len(drills))].ID
		}
		sets := 1 + r.IntN(maxSetsPerSession)
		for s := 0; s < sets; s++ {
			sess.Sets = append(sess.Sets, randomSet(r))
		}
		ds.Sessions = append(ds.Sessions, sess)
	}
	return ds
}

func randomSet(r *rand.Rand) model.SetResult {
	attempted := 1 + r.IntN(maxRepsPerSet)
	executed := r.IntN(attempted + 1)
	set := model.SetResult{
		RepsAttempted: attempted,
		RepsExecuted:  executed,
		HardHits:      r.IntN(executed + 1),
		Strikeouts:    r.IntN(attempted-executed+1) / 2,
	}
	if r.IntN(3) > 0 {
		g := float64(1 + r.IntN(10))
		set.Grade = &g
	}
	if r.IntN(2) == 0 {
		set.CountSituation = counts[r.IntN(len(counts))]
	}
	if r.IntN(3) == 0 {
		set.TargetZones = []string{zones[r.IntN(len(zones))]}
	}
	return set
}

// Resubmissions lists the sessions sent a second time.
func Resubmissions(ds Dataset) []model.Session {
	var out []model.Session
	for i := resubmitEvery - 1; i < len(ds.Sessions); i += resubmitEvery {
		out = append(out, ds.Sessions[i])
	}
	return out
}

// ExpectedTotals sums attempted and executed reps per team.
func ExpectedTotals(ds Dataset) map[string]Totals {
	out := make(map[string]Totals, len(ds.Teams))
	for _, t := range ds.Teams {
		out[t.ID] = Totals{}
	}
	for _, s := range ds.Sessions {
		t := out[s.TeamID]
		for _, set := range s.Sets {
			t.Reps += set.RepsAttempted
			t.Executed += set.RepsExecuted
		}
		out[s.TeamID] = t
	}
	return out
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
