package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/dugout/internal/domain/types"
)

// DrillDependencies defines the interface for drill template queries.
type DrillDependencies interface {
	RecommendTarget(ctx context.Context, playerID, drillID string) (types.Recommendation, error)
}

// DrillHandler handles /drills/{drillID}/... requests.
type DrillHandler struct {
	deps DrillDependencies
}

// NewDrillHandler creates a new drill handler.
func NewDrillHandler(deps DrillDependencies) *DrillHandler {
	return &DrillHandler{deps: deps}
}

// HandleRecommendation handles GET /drills/{drillID}/recommendation?player=.
func (h *DrillHandler) HandleRecommendation(w http.ResponseWriter, r *http.Request) {
	const op = "api.drill_recommendation"
	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if player == "" {
		fail(w, r, WrapKind(op, ErrBadRequest, errors.New("missing player")))
		return
	}
	out, err := h.deps.RecommendTarget(r.Context(), player, r.PathValue("drillID"))
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}
