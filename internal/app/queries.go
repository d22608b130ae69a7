package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/dugout/internal/adapters/cache"
	"github.com/okian/dugout/internal/domain/goals"
	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/scoring"
	"github.com/okian/dugout/internal/domain/types"
	"github.com/okian/dugout/internal/domain/workload"
	"github.com/okian/dugout/pkg/metrics"
)

const maxTrendWeeks = 52

// Cache operation names, also used as metric labels.
const (
	opBreakdown      = "breakdown"
	opLeaderboard    = "leaderboard"
	opSnapshot       = "snapshot"
	opPlayerGoals    = "player_goals"
	opTeamGoals      = "team_goals"
	opWorkload       = "workload"
	opPlayerTrend    = "player_trend"
	opTeamTrend      = "team_trend"
	opRecommendation = "recommendation"
)

// PlayerSnapshot is a player's skill radar.
type PlayerSnapshot struct {
	PlayerID string                `json:"player_id"`
	Name     string                `json:"name"`
	Bats     model.Hand            `json:"bats"`
	Skills   scoring.SkillSnapshot `json:"skills"`
}

// remember memoizes compute under the current store version. The version is
// read before any data so a result is never cached under a newer version than
// the data it saw.
func remember[T any](s *Service, op string, args []string, compute func() (T, error)) (T, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAggregationLatency(op, float64(time.Since(start).Microseconds())/1000)
	}()
	key := cache.Key(op, s.store.Version(), args...)
	return cache.Remember(s.memo, op, key, compute)
}

// today is the civil date used in cache keys for date-relative views.
func (s *Service) today() (time.Time, string) {
	now := s.now()
	return now, workload.Key(now)
}

type teamData struct {
	sessions []model.Session
	players  []model.Player
	drills   []model.Drill
}

func (s *Service) loadTeam(ctx context.Context, teamID string) (teamData, error) {
	var td teamData
	var err error
	if td.sessions, err = s.store.SessionsForTeam(ctx, teamID); err != nil {
		return teamData{}, err
	}
	if td.players, err = s.store.PlayersInTeam(ctx, teamID); err != nil {
		return teamData{}, err
	}
	if td.drills, err = s.store.DrillsForTeam(ctx, teamID); err != nil {
		return teamData{}, err
	}
	return td, nil
}

// TeamBreakdown aggregates every set the team has logged.
func (s *Service) TeamBreakdown(ctx context.Context, teamID string) (types.TeamBreakdown, error) {
	return remember(s, opBreakdown, []string{teamID}, func() (types.TeamBreakdown, error) {
		td, err := s.loadTeam(ctx, teamID)
		if err != nil {
			return types.TeamBreakdown{}, err
		}
		return s.engine.Build(td.sessions, td.players, td.drills), nil
	})
}

// TeamLeaderboard ranks the team's players on one metric. A limit <= 0
// returns everyone who qualifies.
func (s *Service) TeamLeaderboard(ctx context.Context, teamID, metric string, limit int) ([]types.LeaderboardEntry, error) {
	m := model.ParseMetric(metric)
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, metric)
	}
	return remember(s, opLeaderboard, []string{teamID, string(m), strconv.Itoa(limit)}, func() ([]types.LeaderboardEntry, error) {
		td, err := s.loadTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return s.engine.Leaderboard(td.sessions, td.players, td.drills, m, limit), nil
	})
}

// PlayerSnapshot builds the grade-weighted skill radar for one player.
func (s *Service) PlayerSnapshot(ctx context.Context, playerID string) (PlayerSnapshot, error) {
	return remember(s, opSnapshot, []string{playerID}, func() (PlayerSnapshot, error) {
		p, err := s.store.Player(ctx, playerID)
		if err != nil {
			return PlayerSnapshot{}, err
		}
		sessions, err := s.store.SessionsForPlayer(ctx, playerID)
		if err != nil {
			return PlayerSnapshot{}, err
		}
		return PlayerSnapshot{
			PlayerID: p.ID,
			Name:     p.Name,
			Bats:     p.Bats,
			Skills:   scoring.Snapshot(scoring.Flatten(sessions)),
		}, nil
	})
}

// PlayerGoals resolves the player's personal goals against their own sessions.
func (s *Service) PlayerGoals(ctx context.Context, playerID string) ([]types.GoalProgress, error) {
	now, day := s.today()
	return remember(s, opPlayerGoals, []string{playerID, day}, func() ([]types.GoalProgress, error) {
		p, err := s.store.Player(ctx, playerID)
		if err != nil {
			return nil, err
		}
		gs, err := s.store.GoalsForPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		sessions, err := s.store.SessionsForPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		drills, err := s.store.DrillsForTeam(ctx, p.TeamID)
		if err != nil {
			return nil, err
		}
		return goals.EvaluateAll(gs, sessions, drills, now), nil
	})
}

// TeamGoals resolves team goals against every session the team logged.
func (s *Service) TeamGoals(ctx context.Context, teamID string) ([]types.GoalProgress, error) {
	now, day := s.today()
	return remember(s, opTeamGoals, []string{teamID, day}, func() ([]types.GoalProgress, error) {
		gs, err := s.store.TeamGoals(ctx, teamID)
		if err != nil {
			return nil, err
		}
		td, err := s.loadTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return goals.EvaluateAll(gs, td.sessions, td.drills, now), nil
	})
}

// Workload returns one bucket per day of the window ending today. days == 0
// selects the configured default.
func (s *Service) Workload(ctx context.Context, teamID string, days int) ([]types.DayBucket, error) {
	if days == 0 {
		days = s.defaultWindow
	}
	if !workload.ValidWindow(days) {
		return nil, fmt.Errorf("%w: window must be one of %v days", ErrInvalidInput, workload.Windows)
	}
	now, day := s.today()
	return remember(s, opWorkload, []string{teamID, day, strconv.Itoa(days)}, func() ([]types.DayBucket, error) {
		sessions, err := s.store.SessionsForTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		players, err := s.store.PlayersInTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return workload.Daily(sessions, players, now, days), nil
	})
}

func (s *Service) weeks(weeks int) (int, error) {
	if weeks == 0 {
		return s.trendWeeks, nil
	}
	if weeks < 0 || weeks > maxTrendWeeks {
		return 0, fmt.Errorf("%w: weeks must be between 1 and %d", ErrInvalidInput, maxTrendWeeks)
	}
	return weeks, nil
}

// PlayerTrend labels the direction of a player's execution over recent weeks.
func (s *Service) PlayerTrend(ctx context.Context, playerID string, weeks int) (types.Trend, error) {
	weeks, err := s.weeks(weeks)
	if err != nil {
		return types.Trend{}, err
	}
	now, day := s.today()
	return remember(s, opPlayerTrend, []string{playerID, day, strconv.Itoa(weeks)}, func() (types.Trend, error) {
		sessions, err := s.store.SessionsForPlayer(ctx, playerID)
		if err != nil {
			return types.Trend{}, err
		}
		return workload.Weekly(sessions, now, weeks), nil
	})
}

// TeamTrend is PlayerTrend over the whole team.
func (s *Service) TeamTrend(ctx context.Context, teamID string, weeks int) (types.Trend, error) {
	weeks, err := s.weeks(weeks)
	if err != nil {
		return types.Trend{}, err
	}
	now, day := s.today()
	return remember(s, opTeamTrend, []string{teamID, day, strconv.Itoa(weeks)}, func() (types.Trend, error) {
		sessions, err := s.store.SessionsForTeam(ctx, teamID)
		if err != nil {
			return types.Trend{}, err
		}
		return workload.Weekly(sessions, now, weeks), nil
	})
}

// RecommendTarget suggests a target for a drill from the player's history
// with it. Drills without a goal type are scored on execution.
func (s *Service) RecommendTarget(ctx context.Context, playerID, drillID string) (types.Recommendation, error) {
	return remember(s, opRecommendation, []string{playerID, drillID}, func() (types.Recommendation, error) {
		d, err := s.store.Drill(ctx, drillID)
		if err != nil {
			return types.Recommendation{}, err
		}
		p, err := s.store.Player(ctx, playerID)
		if err != nil {
			return types.Recommendation{}, err
		}
		if p.TeamID != d.TeamID {
			return types.Recommendation{}, fmt.Errorf("%w: player %q is not on the drill's team", ErrInvalidInput, playerID)
		}
		sessions, err := s.store.SessionsForPlayer(ctx, playerID)
		if err != nil {
			return types.Recommendation{}, err
		}

		m := d.GoalType
		if !m.Valid() {
			m = model.ExecutionPct
		}
		var sets []model.SetResult
		for _, sess := range sessions {
			if sess.DrillID != drillID {
				continue
			}
			for _, set := range sess.Sets {
				sets = append(sets, set.WithDefaults(&d))
			}
		}
		return types.Recommendation{
			DrillID: d.ID,
			Metric:  string(m),
			Current: goals.Value(m, sets),
			Target:  goals.RecommendTarget(m, sets),
			Sets:    len(sets),
		}, nil
	})
}
