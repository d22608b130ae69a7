package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/dugout/internal/domain/model"
)

// RosterDependencies defines the interface for roster and goal writes.
type RosterDependencies interface {
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	CreateDrill(ctx context.Context, d model.Drill) (model.Drill, error)
	CreateGoal(ctx context.Context, g model.Goal) (model.Goal, error)
}

// RosterHandler handles team, player, drill and goal creation.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleCreateTeam handles POST /teams.
func (h *RosterHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_team"
	var t model.Team
	if err := decode(w, r, op, &t); err != nil {
		fail(w, r, err)
		return
	}
	created, err := h.deps.CreateTeam(r.Context(), t)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleCreatePlayer handles POST /players.
func (h *RosterHandler) HandleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_player"
	var p model.Player
	if err := decode(w, r, op, &p); err != nil {
		fail(w, r, err)
		return
	}
	created, err := h.deps.CreatePlayer(r.Context(), p)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleCreateDrill handles POST /drills.
func (h *RosterHandler) HandleCreateDrill(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_drill"
	var d model.Drill
	if err := decode(w, r, op, &d); err != nil {
		fail(w, r, err)
		return
	}
	created, err := h.deps.CreateDrill(r.Context(), d)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// goalRequest accepts a bare calendar date for target_date.
type goalRequest struct {
	ID          string          `json:"id"`
	Scope       model.GoalScope `json:"scope"`
	OwnerID     string          `json:"owner_id"`
	TeamID      string          `json:"team_id"`
	Metric      model.Metric    `json:"metric"`
	TargetValue float64         `json:"target_value"`
	TargetDate  string          `json:"target_date"`
	DrillType   string          `json:"drill_type"`
	TargetZones []string        `json:"target_zones"`
	PitchTypes  []string        `json:"pitch_types"`
}

// HandleCreateGoal handles POST /goals.
func (h *RosterHandler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_goal"
	var req goalRequest
	if err := decode(w, r, op, &req); err != nil {
		fail(w, r, err)
		return
	}
	date, err := parseDate("target_date", req.TargetDate)
	if err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.CreateGoal(r.Context(), model.Goal{
		ID:          strings.TrimSpace(req.ID),
		Scope:       model.GoalScope(strings.ToLower(strings.TrimSpace(string(req.Scope)))),
		OwnerID:     strings.TrimSpace(req.OwnerID),
		TeamID:      strings.TrimSpace(req.TeamID),
		Metric:      req.Metric,
		TargetValue: req.TargetValue,
		TargetDate:  date,
		DrillType:   req.DrillType,
		TargetZones: req.TargetZones,
		PitchTypes:  req.PitchTypes,
	})
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
