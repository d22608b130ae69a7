package api

import (
	"context"
	"net/http"

	service "github.com/okian/dugout/internal/app"
	"github.com/okian/dugout/internal/domain/types"
)

// PlayerDependencies defines the interface for per-player analytics.
type PlayerDependencies interface {
	PlayerSnapshot(ctx context.Context, playerID string) (service.PlayerSnapshot, error)
	PlayerGoals(ctx context.Context, playerID string) ([]types.GoalProgress, error)
	PlayerTrend(ctx context.Context, playerID string, weeks int) (types.Trend, error)
}

// PlayerHandler handles /players/{playerID}/... requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleSnapshot handles GET /players/{playerID}/snapshot.
func (h *PlayerHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_snapshot"
	out, err := h.deps.PlayerSnapshot(r.Context(), r.PathValue("playerID"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGoals handles GET /players/{playerID}/goals.
func (h *PlayerHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_goals"
	out, err := h.deps.PlayerGoals(r.Context(), r.PathValue("playerID"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleTrend handles GET /players/{playerID}/trend?weeks=.
func (h *PlayerHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_trend"
	weeks, err := queryInt(r, op, "weeks")
	if err != nil {
		fail(w, r, err)
		return
	}
	out, err := h.deps.PlayerTrend(r.Context(), r.PathValue("playerID"), weeks)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
