package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/dugout/internal/domain/types"
)

const defaultLeaderboardMetric = "execution"

// TeamDependencies defines the interface for team-level analytics.
type TeamDependencies interface {
	TeamBreakdown(ctx context.Context, teamID string) (types.TeamBreakdown, error)
	TeamLeaderboard(ctx context.Context, teamID, metric string, limit int) ([]types.LeaderboardEntry, error)
	Workload(ctx context.Context, teamID string, days int) ([]types.DayBucket, error)
	TeamGoals(ctx context.Context, teamID string) ([]types.GoalProgress, error)
	TeamTrend(ctx context.Context, teamID string, weeks int) (types.Trend, error)
}

// TeamHandler handles /teams/{teamID}/... requests.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleBreakdown handles GET /teams/{teamID}/breakdown.
func (h *TeamHandler) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_breakdown"
	out, err := h.deps.TeamBreakdown(r.Context(), r.PathValue("teamID"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleLeaderboard handles GET /teams/{teamID}/leaderboard?metric=&limit=.
func (h *TeamHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_leaderboard"
	limit, err := queryInt(r, op, "limit")
	if err != nil {
		fail(w, r, err)
		return
	}
	metric := strings.TrimSpace(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = defaultLeaderboardMetric
	}
	out, err := h.deps.TeamLeaderboard(r.Context(), r.PathValue("teamID"), metric, limit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleWorkload handles GET /teams/{teamID}/workload?days=.
func (h *TeamHandler) HandleWorkload(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_workload"
	days, err := queryInt(r, op, "days")
	if err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.deps.Workload(r.Context(), r.PathValue("teamID"), days)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGoals handles GET /teams/{teamID}/goals.
func (h *TeamHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_goals"
	out, err := h.deps.TeamGoals(r.Context(), r.PathValue("teamID"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleTrend handles GET /teams/{teamID}/trend?weeks=.
func (h *TeamHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_trend"
	weeks, err := queryInt(r, op, "weeks")
	if err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.deps.TeamTrend(r.Context(), r.PathValue("teamID"), weeks)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
