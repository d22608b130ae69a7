package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/multierr"

	service "github.com/okian/dugout/internal/app"
	"github.com/okian/dugout/internal/domain/model"
)

// SessionDependencies defines the interface for session ingestion.
type SessionDependencies interface {
	SubmitSession(ctx context.Context, s model.Session) (service.Submission, error)
	LogSession(ctx context.Context, s model.Session) (model.Session, error)
}

// SessionHandler handles session logging requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// sessionRequest mirrors the OpenAPI schema for POST /sessions.
type sessionRequest struct {
	ID         string            `json:"id"`
	TeamID     string            `json:"team_id"`
	PlayerID   string            `json:"player_id"`
	DrillID    string            `json:"drill_id"`
	Name       string            `json:"name"`
	Date       string            `json:"date"`
	BatterHand string            `json:"batter_hand"`
	Sets       []model.SetResult `json:"sets"`
}

// toSession validates the request, reporting every problem at once.
func (req sessionRequest) toSession() (model.Session, error) {
	var errs error
	if strings.TrimSpace(req.PlayerID) == "" {
		errs = multierr.Append(errs, errors.New("missing player_id"))
	}
	date, err := parseDate("date", req.Date)
	errs = multierr.Append(errs, err)
	for i, s := range req.Sets {
		if s.RepsAttempted < 0 || s.RepsExecuted < 0 || s.HardHits < 0 || s.Strikeouts < 0 {
			errs = multierr.Append(errs, fmt.Errorf("set %d has a negative count", i))
		}
	}
	if errs != nil {
		return model.Session{}, errs
	}
	var hand model.Hand
	if strings.TrimSpace(req.BatterHand) != "" {
		hand = model.ParseHand(req.BatterHand)
	}
	return model.Session{
		ID:         strings.TrimSpace(req.ID),
		TeamID:     strings.TrimSpace(req.TeamID),
		PlayerID:   strings.TrimSpace(req.PlayerID),
		DrillID:    strings.TrimSpace(req.DrillID),
		Name:       req.Name,
		Date:       date,
		Sets:       req.Sets,
		BatterHand: hand,
	}, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostSession handles POST /sessions. Sessions are queued for logging
// unless ?sync=true asks for the stored record back.
func (h *SessionHandler) HandlePostSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_session"
	var req sessionRequest
	if err := decode(w, r, op, &req); err != nil {
		fail(w, r, err)
		return
	}
	sess, err := req.toSession()
	if err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	if r.URL.Query().Get("sync") == "true" {
		stored, err := h.deps.LogSession(r.Context(), sess)
		if err != nil {
			fail(w, r, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusCreated, stored)
		return
	}

	sub, err := h.deps.SubmitSession(r.Context(), sess)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if sub.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", SessionID: sub.SessionID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", SessionID: sub.SessionID})
}
