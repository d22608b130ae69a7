package breakdown_test

import (
	"testing"

	"github.com/okian/dugout/internal/domain/breakdown"
	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func teamFixture() ([]model.Session, []model.Player, []model.Drill) {
	players := []model.Player{
		{ID: "p1", Name: "Ana", Bats: model.HandRight},
		{ID: "p2", Name: "Ben", Bats: model.HandLeft},
		{ID: "p3", Name: "Cal", Bats: model.HandRight},
	}
	drills := []model.Drill{
		{ID: "d1", Name: "Tee Work", DrillType: "Tee"},
		{ID: "d2", Name: "Live BP"},
	}
	sessions := []model.Session{
		{ID: "s1", PlayerID: "p1", DrillID: "d1", Sets: []model.SetResult{{
			RepsAttempted: 20, RepsExecuted: 16, HardHits: 8, Strikeouts: 2,
			PitchTypes: []string{"Fastball", "Curveball"}, TargetZones: []string{"Inside-High", "Outside-Low"},
			CountSituation: model.CountAhead,
		}}},
		{ID: "s2", PlayerID: "p2", DrillID: "d2", BatterHand: model.HandLeft, Sets: []model.SetResult{{
			RepsAttempted: 12, RepsExecuted: 6, HardHits: 3, Strikeouts: 3,
			PitchTypes: []string{"Fastball"}, TargetZones: []string{"Inside-High"},
			CountSituation: model.CountBehind,
		}}},
		{ID: "s3", PlayerID: "p3", DrillID: "d1", Sets: []model.SetResult{{
			RepsAttempted: 5, RepsExecuted: 5, PitchTypes: []string{"Fastball"},
		}}},
		{ID: "s4", PlayerID: "p1", DrillID: "d2", Sets: []model.SetResult{
			{RepsAttempted: 10, RepsExecuted: 5, HardHits: 2, Strikeouts: 4, PitchTypes: []string{"Slider"}, CountSituation: model.CountBehind},
			{RepsAttempted: 0, RepsExecuted: 3, PitchTypes: []string{"Knuckleball"}},
		}},
	}
	return sessions, players, drills
}

func names(rows []types.BreakdownRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func sumReps(rows []types.BreakdownRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Reps
	}
	return total
}

func TestEngine_Build(t *testing.T) {
	Convey("Given a team's logged sessions", t, func() {
		sessions, players, drills := teamFixture()
		engine := breakdown.New()

		Convey("When building the breakdown", func() {
			out := engine.Build(sessions, players, drills)

			Convey("Then team totals skip zero-attempt sets", func() {
				So(out.TotalReps, ShouldEqual, 47.0)
				So(out.Execution, ShouldAlmostEqual, 32.0/47*100, 1e-9)
			})

			Convey("Then drill rows use the drill type or name, ranked by reps", func() {
				So(names(out.ByDrill), ShouldResemble, []string{"Tee", "Live BP"})
				So(out.ByDrill[0].Reps, ShouldEqual, 25.0)
				So(out.ByDrill[0].Execution, ShouldEqual, 84.0)
			})

			Convey("Then multi-pitch sets are split evenly and reps are conserved", func() {
				So(names(out.ByPitch), ShouldResemble, []string{"Fastball", "Curveball", "Slider"})
				So(out.ByPitch[0].Reps, ShouldEqual, 27.0)
				So(sumReps(out.ByPitch), ShouldAlmostEqual, 47.0, 1e-9)
			})

			Convey("Then zone rows only count tagged sets", func() {
				So(names(out.ByZone), ShouldResemble, []string{"Inside-High", "Outside-Low"})
				So(sumReps(out.ByZone), ShouldAlmostEqual, 32.0, 1e-9)
			})

			Convey("Then count rows are ranked by reps", func() {
				So(names(out.ByCount), ShouldResemble, []string{"Behind", "Ahead"})
				So(out.ByCount[0].Execution, ShouldEqual, 50.0)
			})

			Convey("Then leaderboards need ten reps and rank by execution", func() {
				top := out.ByPitch[0].TopPlayers
				So(len(top), ShouldEqual, 2)
				So(top[0].PlayerID, ShouldEqual, "p1")
				So(top[0].Name, ShouldEqual, "Ana")
				So(top[0].Value, ShouldEqual, 80.0)
				So(top[0].Rank, ShouldEqual, 1)
				So(top[1].PlayerID, ShouldEqual, "p2")
				for _, row := range append(append(out.ByPitch, out.ByZone...), out.ByDrill...) {
					for _, e := range row.TopPlayers {
						So(e.Reps, ShouldBeGreaterThanOrEqualTo, 10.0)
						So(e.PlayerID, ShouldNotEqual, "p3")
					}
				}
			})

			Convey("Then effectiveness ranks drills per metric with their own leaderboards", func() {
				So(out.Effectiveness.Execution[0].Name, ShouldEqual, "Tee")
				So(out.Effectiveness.Execution[0].Value, ShouldEqual, 84.0)
				So(len(out.Effectiveness.Execution[0].TopPlayers), ShouldEqual, 1)
				So(out.Effectiveness.Execution[0].TopPlayers[0].PlayerID, ShouldEqual, "p1")
				So(out.Effectiveness.Power[0].Name, ShouldEqual, "Tee")
				So(len(out.Effectiveness.Contact), ShouldEqual, 2)
			})

			Convey("Then weak spots need twenty reps and sit below the team average", func() {
				So(len(out.WeakSpots), ShouldEqual, 2)
				So(out.WeakSpots[0].Axis, ShouldEqual, breakdown.AxisCount)
				So(out.WeakSpots[0].Name, ShouldEqual, "Behind")
				So(out.WeakSpots[1].Axis, ShouldEqual, breakdown.AxisZone)
				So(out.WeakSpots[1].Name, ShouldEqual, "Inside-High")
				for _, w := range out.WeakSpots {
					So(w.Reps, ShouldBeGreaterThanOrEqualTo, 20.0)
					So(w.Gap, ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When the thresholds are tightened", func() {
			out := breakdown.New(breakdown.WithLeaderboardMinReps(15), breakdown.WithTopDrills(1)).Build(sessions, players, drills)

			Convey("Then fewer players and drills are listed", func() {
				So(len(out.ByPitch[0].TopPlayers), ShouldEqual, 0)
				So(len(out.Effectiveness.Execution), ShouldEqual, 1)
			})
		})

		Convey("When a drill has only a handful of reps", func() {
			sparse := append(sessions, model.Session{ID: "s5", PlayerID: "p3", Sets: []model.SetResult{{
				RepsAttempted: 1, RepsExecuted: 1, HardHits: 1, DrillType: "Soft Toss",
			}}})
			out := engine.Build(sparse, players, drills)

			Convey("Then it is broken down but not ranked for effectiveness", func() {
				So(names(out.ByDrill), ShouldContain, "Soft Toss")
				for _, ranked := range [][]types.RankedDrill{out.Effectiveness.Execution, out.Effectiveness.Power, out.Effectiveness.Contact} {
					So(ranked, ShouldHaveLength, 2)
					for _, d := range ranked {
						So(d.Name, ShouldNotEqual, "Soft Toss")
					}
				}
				So(out.Effectiveness.Execution[0].Name, ShouldEqual, "Tee")
			})
		})

		Convey("When there is no history", func() {
			out := engine.Build(nil, players, drills)

			Convey("Then every list is empty and totals are zero", func() {
				So(out.TotalReps, ShouldEqual, 0)
				So(out.Execution, ShouldEqual, 0)
				So(out.ByDrill, ShouldBeEmpty)
				So(out.WeakSpots, ShouldBeEmpty)
			})
		})
	})
}

func TestFractionalAttribution(t *testing.T) {
	Convey("Given a set tagged with three zones and a repeated tag", t, func() {
		sessions := []model.Session{{PlayerID: "p", Sets: []model.SetResult{{
			RepsAttempted: 10, RepsExecuted: 7,
			TargetZones: []string{"A", "B", "C", "A", " "},
		}}}}

		Convey("When building the breakdown", func() {
			out := breakdown.New().Build(sessions, nil, nil)

			Convey("Then each distinct zone gets an equal share summing to the attempts", func() {
				So(len(out.ByZone), ShouldEqual, 3)
				for _, r := range out.ByZone {
					So(r.Reps, ShouldAlmostEqual, 10.0/3, 1e-9)
					So(r.Execution, ShouldAlmostEqual, 70.0, 1e-9)
				}
				So(sumReps(out.ByZone), ShouldAlmostEqual, 10.0, 1e-9)
			})
		})
	})
}

func TestEngine_Leaderboard(t *testing.T) {
	Convey("Given a team's logged sessions", t, func() {
		sessions, players, drills := teamFixture()
		engine := breakdown.New()

		Convey("When ranking by execution", func() {
			lb := engine.Leaderboard(sessions, players, drills, model.ExecutionPct, 0)

			Convey("Then qualifying players are ranked", func() {
				So(len(lb), ShouldEqual, 2)
				So(lb[0].PlayerID, ShouldEqual, "p1")
				So(lb[0].Value, ShouldEqual, 70.0)
				So(lb[0].Reps, ShouldEqual, 30.0)
				So(lb[1].PlayerID, ShouldEqual, "p2")
			})
		})

		Convey("When ranking by strikeouts", func() {
			lb := engine.Leaderboard(sessions, players, drills, model.NoStrikeouts, 1)

			Convey("Then fewer strikeouts rank first and the limit applies", func() {
				So(len(lb), ShouldEqual, 1)
				So(lb[0].PlayerID, ShouldEqual, "p2")
				So(lb[0].Value, ShouldEqual, 3.0)
			})
		})

		Convey("When players tie", func() {
			tied := []model.Session{
				{PlayerID: "x", Sets: []model.SetResult{{RepsAttempted: 10, RepsExecuted: 5}}},
				{PlayerID: "y", Sets: []model.SetResult{{RepsAttempted: 20, RepsExecuted: 10}}},
			}
			lb := engine.Leaderboard(tied, nil, nil, model.ExecutionPct, 0)

			Convey("Then insertion order breaks the tie and unknown names fall back to ids", func() {
				So(lb[0].PlayerID, ShouldEqual, "x")
				So(lb[0].Name, ShouldEqual, "x")
				So(lb[1].PlayerID, ShouldEqual, "y")
			})
		})
	})
}
