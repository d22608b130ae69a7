package scoring_test

import (
	"math"
	"testing"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func grade(g float64) *float64 { return &g }

func TestPrimitives(t *testing.T) {
	Convey("Given a set with attempts", t, func() {
		set := model.SetResult{RepsAttempted: 20, RepsExecuted: 15, HardHits: 6, Strikeouts: 4}

		Convey("Then every rate is a plain percentage", func() {
			So(scoring.ExecutionRate(set), ShouldEqual, 75.0)
			So(scoring.PowerRate(set), ShouldEqual, 30.0)
			So(scoring.ContactRate(set), ShouldEqual, 80.0)
			So(scoring.StrikeoutRate(set), ShouldEqual, 20.0)
		})
	})

	Convey("Given sets with no attempts", t, func() {
		sets := []model.SetResult{
			{},
			{RepsAttempted: 0, RepsExecuted: 5, HardHits: 3, Strikeouts: 1},
			{RepsAttempted: -3, RepsExecuted: 2},
		}

		Convey("Then every rate is exactly zero", func() {
			for _, s := range sets {
				So(scoring.ExecutionRate(s), ShouldEqual, 0)
				So(scoring.PowerRate(s), ShouldEqual, 0)
				So(scoring.ContactRate(s), ShouldEqual, 0)
				So(scoring.StrikeoutRate(s), ShouldEqual, 0)
			}
		})
	})

	Convey("Given out-of-range raw counts", t, func() {
		set := model.SetResult{RepsAttempted: 10, RepsExecuted: 14, HardHits: -2, Strikeouts: 12}

		Convey("Then the rates are clamped to [0,100]", func() {
			So(scoring.ExecutionRate(set), ShouldEqual, 100.0)
			So(scoring.PowerRate(set), ShouldEqual, 0.0)
			So(scoring.ContactRate(set), ShouldEqual, 0.0)
			So(scoring.StrikeoutRate(set), ShouldEqual, 100.0)
		})
	})
}

func TestGradeFactor(t *testing.T) {
	Convey("Given grades of every shape", t, func() {
		So(scoring.GradeFactor(model.SetResult{}), ShouldEqual, 5.0)
		So(scoring.GradeFactor(model.SetResult{Grade: grade(math.NaN())}), ShouldEqual, 5.0)
		So(scoring.GradeFactor(model.SetResult{Grade: grade(math.Inf(1))}), ShouldEqual, 5.0)
		So(scoring.GradeFactor(model.SetResult{Grade: grade(0)}), ShouldEqual, 1.0)
		So(scoring.GradeFactor(model.SetResult{Grade: grade(42)}), ShouldEqual, 10.0)
		So(scoring.GradeFactor(model.SetResult{Grade: grade(7.5)}), ShouldEqual, 7.5)
	})
}

func TestAggregators(t *testing.T) {
	Convey("Given two sets with different grades", t, func() {
		sets := []model.SetResult{
			{RepsAttempted: 10, RepsExecuted: 8, Grade: grade(10)},
			{RepsAttempted: 10, RepsExecuted: 4, Grade: grade(2)},
		}

		Convey("When aggregating execution both ways", func() {
			weighted := scoring.WeightedMetric(sets, scoring.ExecutionRate)
			simple := scoring.SimpleExecution(sets)

			Convey("Then the grade-weighted and simple aggregates diverge", func() {
				So(weighted, ShouldAlmostEqual, 73.3333, 0.001)
				So(simple, ShouldEqual, 60.0)
				So(weighted, ShouldNotAlmostEqual, simple, 0.001)
			})
		})
	})

	Convey("Given sets that all carry grade 5", t, func() {
		sets := []model.SetResult{
			{RepsAttempted: 30, RepsExecuted: 12, Grade: grade(5)},
			{RepsAttempted: 10, RepsExecuted: 9, Grade: grade(5)},
			{RepsAttempted: 5, RepsExecuted: 1},
		}

		Convey("Then the weighted metric equals the reps-weighted average", func() {
			expected := (40.0*30 + 90.0*10 + 20.0*5) / 45
			So(scoring.WeightedMetric(sets, scoring.ExecutionRate), ShouldAlmostEqual, expected, 1e-9)
			So(scoring.SimpleExecution(sets), ShouldAlmostEqual, expected, 1e-9)
		})
	})

	Convey("Given empty or zero-attempt input", t, func() {
		zero := []model.SetResult{{RepsAttempted: 0, RepsExecuted: 3}}

		Convey("Then both aggregators report zero", func() {
			So(scoring.WeightedMetric(nil, scoring.ExecutionRate), ShouldEqual, 0)
			So(scoring.WeightedMetric(zero, scoring.ExecutionRate), ShouldEqual, 0)
			So(scoring.SimpleExecution(nil), ShouldEqual, 0)
			So(scoring.SimpleExecution(zero), ShouldEqual, 0)
		})
	})
}

func TestTotals(t *testing.T) {
	Convey("Given a set split across two buckets", t, func() {
		set := model.SetResult{RepsAttempted: 9, RepsExecuted: 6, HardHits: 3, Strikeouts: 3}
		var a, b scoring.Totals
		a.Add(set, 0.5)
		b.Add(set, 0.5)

		Convey("Then the shares add back to the set totals", func() {
			So(a.Attempted+b.Attempted, ShouldAlmostEqual, 9.0, 1e-9)
			So(a.Execution(), ShouldAlmostEqual, scoring.ExecutionRate(set), 1e-9)
		})

		Convey("And merged totals report the combined rates", func() {
			a.Merge(b)
			So(a.Value(model.TotalReps), ShouldAlmostEqual, 9.0, 1e-9)
			So(a.Value(model.NoStrikeouts), ShouldAlmostEqual, 3.0, 1e-9)
			So(a.Value(model.HardHitPct), ShouldAlmostEqual, 100.0/3, 1e-9)
			So(a.Contact(), ShouldAlmostEqual, 200.0/3, 1e-9)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a player's sets with runners on some", t, func() {
		sets := []model.SetResult{
			{RepsAttempted: 10, RepsExecuted: 8, HardHits: 4, Strikeouts: 1, Grade: grade(8), BaseRunners: []string{"1B"}},
			{RepsAttempted: 10, RepsExecuted: 5, HardHits: 2, Strikeouts: 3},
		}

		Convey("When building the snapshot", func() {
			snap := scoring.Snapshot(sets)

			Convey("Then it reports clutch and grade data", func() {
				So(snap.TotalReps, ShouldEqual, 20)
				So(snap.Sets, ShouldEqual, 2)
				So(snap.ClutchSets, ShouldEqual, 1)
				So(snap.ClutchExec, ShouldEqual, 80.0)
				So(snap.AvgGrade, ShouldEqual, 8.0)
				So(snap.SimpleExecRate, ShouldEqual, 65.0)
				So(snap.Execution, ShouldBeBetween, 65.0, 80.0)
			})
		})
	})
}
