// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/dugout/internal/adapters/repository"
	service "github.com/okian/dugout/internal/app"
	"github.com/okian/dugout/pkg/logger"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	RosterDependencies
	TeamDependencies
	PlayerDependencies
	DrillDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	sessionHandler *SessionHandler
	rosterHandler  *RosterHandler
	teamHandler    *TeamHandler
	playerHandler  *PlayerHandler
	drillHandler   *DrillHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		sessionHandler: NewSessionHandler(deps),
		rosterHandler:  NewRosterHandler(deps),
		teamHandler:    NewTeamHandler(deps),
		playerHandler:  NewPlayerHandler(deps),
		drillHandler:   NewDrillHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /teams", MetricsMiddleware(s.rosterHandler.HandleCreateTeam, "create_team"))
	mux.HandleFunc("POST /players", MetricsMiddleware(s.rosterHandler.HandleCreatePlayer, "create_player"))
	mux.HandleFunc("POST /drills", MetricsMiddleware(s.rosterHandler.HandleCreateDrill, "create_drill"))
	mux.HandleFunc("POST /goals", MetricsMiddleware(s.rosterHandler.HandleCreateGoal, "create_goal"))
	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionHandler.HandlePostSession, "sessions"))

	mux.HandleFunc("GET /teams/{teamID}/breakdown", MetricsMiddleware(s.teamHandler.HandleBreakdown, "team_breakdown"))
	mux.HandleFunc("GET /teams/{teamID}/leaderboard", MetricsMiddleware(s.teamHandler.HandleLeaderboard, "team_leaderboard"))
	mux.HandleFunc("GET /teams/{teamID}/workload", MetricsMiddleware(s.teamHandler.HandleWorkload, "team_workload"))
	mux.HandleFunc("GET /teams/{teamID}/goals", MetricsMiddleware(s.teamHandler.HandleGoals, "team_goals"))
	mux.HandleFunc("GET /teams/{teamID}/trend", MetricsMiddleware(s.teamHandler.HandleTrend, "team_trend"))

	mux.HandleFunc("GET /players/{playerID}/snapshot", MetricsMiddleware(s.playerHandler.HandleSnapshot, "player_snapshot"))
	mux.HandleFunc("GET /players/{playerID}/goals", MetricsMiddleware(s.playerHandler.HandleGoals, "player_goals"))
	mux.HandleFunc("GET /players/{playerID}/trend", MetricsMiddleware(s.playerHandler.HandleTrend, "player_trend"))

	mux.HandleFunc("GET /drills/{drillID}/recommendation", MetricsMiddleware(s.drillHandler.HandleRecommendation, "drill_recommendation"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps an error chain onto a status code and writes it.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidRecord):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrBackpressure), errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decode reads a JSON body of at most maxBodyBytes into v.
func decode(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// parseDate accepts RFC3339 or a bare calendar date. Empty input is the zero time.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s; must be RFC3339 or YYYY-MM-DD", field)
	}
	return t, nil
}

// queryInt reads an optional integer query parameter. Missing means 0.
func queryInt(r *http.Request, op, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, WrapKind(op, ErrBadRequest, fmt.Errorf("%s must be a non-negative integer", name))
	}
	return n, nil
}
