// Package workload projects session history onto calendar windows.
package workload

import (
	"sort"
	"time"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
	"github.com/okian/dugout/internal/domain/types"
)

const (
	dateLayout      = "2006-01-02"
	daysPerWeek     = 7
	trendThreshold  = 5
	defaultWindow   = 14
	defaultTrendLen = 4
)

// Windows lists the supported calendar windows in days.
var Windows = []int{7, 14, 30}

// ValidWindow reports whether days is one of the supported windows.
func ValidWindow(days int) bool {
	for _, w := range Windows {
		if w == days {
			return true
		}
	}
	return false
}

// DefaultWindow is used when a caller does not choose one.
func DefaultWindow() int { return defaultWindow }

// DefaultWeeks is the trend length used when a caller does not choose one.
func DefaultWeeks() int { return defaultTrendLen }

// civil strips the clock and location, keeping the date as written.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Key is the calendar date of t in its own location.
func Key(t time.Time) string { return civil(t).Format(dateLayout) }

// dayAccumulator gathers one player's sets for one day.
type dayAccumulator struct {
	reps int
	sets []model.SetResult
}

// Daily returns exactly days buckets ending today, oldest first. Days without
// sessions are present with zero reps and an empty player list.
func Daily(sessions []model.Session, players []model.Player, today time.Time, days int) []types.DayBucket {
	if days <= 0 {
		return []types.DayBucket{}
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	end := civil(today)
	start := end.AddDate(0, 0, -(days - 1))
	keys := make([]string, days)
	perDay := make(map[string]map[string]*dayAccumulator, days)
	for i := 0; i < days; i++ {
		keys[i] = start.AddDate(0, 0, i).Format(dateLayout)
		perDay[keys[i]] = make(map[string]*dayAccumulator)
	}

	for _, sess := range sessions {
		day, ok := perDay[Key(sess.Date)]
		if !ok {
			continue
		}
		acc, ok := day[sess.PlayerID]
		if !ok {
			acc = &dayAccumulator{}
			day[sess.PlayerID] = acc
		}
		acc.reps += sess.TotalReps()
		acc.sets = append(acc.sets, sess.Sets...)
	}

	out := make([]types.DayBucket, 0, days)
	for _, k := range keys {
		b := types.DayBucket{Date: k, Players: []types.PlayerDay{}}
		for id, acc := range perDay[k] {
			name := names[id]
			if name == "" {
				name = id
			}
			b.Reps += acc.reps
			b.Players = append(b.Players, types.PlayerDay{
				PlayerID:  id,
				Name:      name,
				Reps:      acc.reps,
				Execution: scoring.SimpleExecution(acc.sets),
				AvgGrade:  avgGrade(acc.sets),
			})
		}
		sort.Slice(b.Players, func(i, j int) bool {
			if b.Players[i].Reps != b.Players[j].Reps {
				return b.Players[i].Reps > b.Players[j].Reps
			}
			return b.Players[i].PlayerID < b.Players[j].PlayerID
		})
		out = append(out, b)
	}
	return out
}

// Weekly groups the last weeks*7 days into 7-day buckets, oldest first, and
// labels the direction of execution between the first and last active week.
func Weekly(sessions []model.Session, today time.Time, weeks int) types.Trend {
	if weeks <= 0 {
		return types.Trend{Weeks: []types.WeekBucket{}, Label: types.TrendStable}
	}
	end := civil(today)
	start := end.AddDate(0, 0, -(weeks*daysPerWeek - 1))

	sets := make([][]model.SetResult, weeks)
	out := types.Trend{Weeks: make([]types.WeekBucket, weeks)}
	for i := range out.Weeks {
		ws := start.AddDate(0, 0, i*daysPerWeek)
		out.Weeks[i].Start = ws.Format(dateLayout)
		out.Weeks[i].End = ws.AddDate(0, 0, daysPerWeek-1).Format(dateLayout)
	}

	for _, sess := range sessions {
		d := civil(sess.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		i := int(d.Sub(start).Hours()/24) / daysPerWeek
		out.Weeks[i].Sessions++
		out.Weeks[i].Reps += sess.TotalReps()
		sets[i] = append(sets[i], sess.Sets...)
	}

	first, last := -1, -1
	for i := range out.Weeks {
		w := &out.Weeks[i]
		if w.Sessions == 0 {
			continue
		}
		w.AvgReps = float64(w.Reps) / float64(w.Sessions)
		w.AvgExecution = scoring.SimpleExecution(sets[i])
		if first < 0 {
			first = i
		}
		last = i
	}

	out.Label = types.TrendStable
	if first >= 0 && last > first {
		out.Delta = out.Weeks[last].AvgExecution - out.Weeks[first].AvgExecution
		switch {
		case out.Delta > trendThreshold:
			out.Label = types.TrendImproving
		case out.Delta < -trendThreshold:
			out.Label = types.TrendDeclining
		}
	}
	return out
}

func avgGrade(sets []model.SetResult) float64 {
	var sum float64
	n := 0
	for _, s := range sets {
		if g, ok := scoring.ValidGrade(s); ok {
			sum += g
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
