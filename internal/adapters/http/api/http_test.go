package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/dugout/internal/adapters/http/api"
	"github.com/okian/dugout/internal/adapters/repository"
	service "github.com/okian/dugout/internal/app"
	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/types"
	"github.com/okian/dugout/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// mockDeps records the arguments it was called with and returns canned results.
type mockDeps struct {
	submitted  []model.Session
	logged     []model.Session
	submitErr  error
	duplicate  bool
	queryErr   error
	lastTeam   string
	lastMetric string
	lastLimit  int
	lastDays   int
	lastWeeks  int
	lastPlayer string
	lastDrill  string
	goals      []model.Goal
}

func (m *mockDeps) SubmitSession(_ context.Context, s model.Session) (service.Submission, error) {
	if m.submitErr != nil {
		return service.Submission{}, m.submitErr
	}
	m.submitted = append(m.submitted, s)
	id := s.ID
	if id == "" {
		id = "generated"
	}
	return service.Submission{SessionID: id, Duplicate: m.duplicate}, nil
}

func (m *mockDeps) LogSession(_ context.Context, s model.Session) (model.Session, error) {
	m.logged = append(m.logged, s)
	s.ID = "stored"
	return s, nil
}

func (m *mockDeps) CreateTeam(_ context.Context, t model.Team) (model.Team, error) {
	if t.Name == "" {
		return model.Team{}, fmt.Errorf("%w: team name is required", repository.ErrInvalidRecord)
	}
	if t.ID == "taken" {
		return model.Team{}, fmt.Errorf("%w: team %q", repository.ErrDuplicate, t.ID)
	}
	return t, nil
}

func (m *mockDeps) CreatePlayer(_ context.Context, p model.Player) (model.Player, error) {
	return p, nil
}

func (m *mockDeps) CreateDrill(_ context.Context, d model.Drill) (model.Drill, error) {
	return d, nil
}

func (m *mockDeps) CreateGoal(_ context.Context, g model.Goal) (model.Goal, error) {
	m.goals = append(m.goals, g)
	return g, nil
}

func (m *mockDeps) TeamBreakdown(_ context.Context, teamID string) (types.TeamBreakdown, error) {
	m.lastTeam = teamID
	return types.TeamBreakdown{TotalReps: 45, Execution: 60}, m.queryErr
}

func (m *mockDeps) TeamLeaderboard(_ context.Context, teamID, metric string, limit int) ([]types.LeaderboardEntry, error) {
	m.lastTeam, m.lastMetric, m.lastLimit = teamID, metric, limit
	if metric == "bogus" {
		return nil, fmt.Errorf("%w: unknown metric %q", service.ErrInvalidInput, metric)
	}
	return []types.LeaderboardEntry{{Rank: 1, PlayerID: "ana", Value: 68, Reps: 25}}, m.queryErr
}

func (m *mockDeps) Workload(_ context.Context, teamID string, days int) ([]types.DayBucket, error) {
	m.lastTeam, m.lastDays = teamID, days
	return []types.DayBucket{{Date: "2026-05-20", Players: []types.PlayerDay{}}}, m.queryErr
}

func (m *mockDeps) TeamGoals(_ context.Context, teamID string) ([]types.GoalProgress, error) {
	m.lastTeam = teamID
	return []types.GoalProgress{}, m.queryErr
}

func (m *mockDeps) TeamTrend(_ context.Context, teamID string, weeks int) (types.Trend, error) {
	m.lastTeam, m.lastWeeks = teamID, weeks
	return types.Trend{Label: types.TrendStable}, m.queryErr
}

func (m *mockDeps) PlayerSnapshot(_ context.Context, playerID string) (service.PlayerSnapshot, error) {
	m.lastPlayer = playerID
	if playerID == "ghost" {
		return service.PlayerSnapshot{}, fmt.Errorf("%w: player %q", repository.ErrNotFound, playerID)
	}
	return service.PlayerSnapshot{PlayerID: playerID, Name: "Ana"}, m.queryErr
}

func (m *mockDeps) PlayerGoals(_ context.Context, playerID string) ([]types.GoalProgress, error) {
	m.lastPlayer = playerID
	return []types.GoalProgress{{GoalID: "g1", Current: 25, Target: 50, Percent: 50}}, m.queryErr
}

func (m *mockDeps) PlayerTrend(_ context.Context, playerID string, weeks int) (types.Trend, error) {
	m.lastPlayer, m.lastWeeks = playerID, weeks
	return types.Trend{Label: types.TrendImproving, Delta: 20}, m.queryErr
}

func (m *mockDeps) RecommendTarget(_ context.Context, playerID, drillID string) (types.Recommendation, error) {
	m.lastPlayer, m.lastDrill = playerID, drillID
	return types.Recommendation{DrillID: drillID, Target: 65}, m.queryErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "dugout_")
		})

		Convey("Then the health endpoint answers JSON when asked", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			req.Header.Set("Accept", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then the stats endpoint returns the provider's stats", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then the wrong method is refused", func() {
			w := do(mux, http.MethodPost, "/teams/t1/breakdown", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then unknown paths are not found", func() {
			w := do(mux, http.MethodGet, "/events", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSessionHandler(t *testing.T) {
	Convey("Given a session handler", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When a valid session is posted", func() {
			w := do(mux, http.MethodPost, "/sessions", `{
				"id": "s1", "player_id": "ana", "drill_id": "d1", "date": "2026-05-18", "batter_hand": "left",
				"sets": [{"reps_attempted": 10, "reps_executed": 7, "grade": 8}]
			}`)

			Convey("Then it is accepted and queued", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"status":"accepted"`)
				So(deps.submitted, ShouldHaveLength, 1)
				s := deps.submitted[0]
				So(s.PlayerID, ShouldEqual, "ana")
				So(s.BatterHand, ShouldEqual, model.HandLeft)
				So(s.Date.Format("2006-01-02"), ShouldEqual, "2026-05-18")
				So(s.Sets[0].RepsExecuted, ShouldEqual, 7)
				So(*s.Sets[0].Grade, ShouldEqual, 8)
			})
		})

		Convey("When the session is a duplicate", func() {
			deps.duplicate = true
			w := do(mux, http.MethodPost, "/sessions", `{"id":"s1","player_id":"ana"}`)

			Convey("Then it is acknowledged without queuing twice", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
			})
		})

		Convey("When the queue is full", func() {
			deps.submitErr = fmt.Errorf("%w: queue full", service.ErrBackpressure)
			w := do(mux, http.MethodPost, "/sessions", `{"player_id":"ana"}`)

			Convey("Then it reports backpressure", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(errorCode(w), ShouldEqual, "backpressure")
			})
		})

		Convey("When the service is not running", func() {
			deps.submitErr = service.ErrNotStarted
			w := do(mux, http.MethodPost, "/sessions", `{"player_id":"ana"}`)

			Convey("Then it is unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/sessions", `{not json`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorCode(w), ShouldEqual, "bad_request")
			})
		})

		Convey("When several fields are invalid", func() {
			w := do(mux, http.MethodPost, "/sessions", `{"date":"yesterday","sets":[{"reps_attempted":-1}]}`)

			Convey("Then every problem is reported", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "missing player_id")
				So(w.Body.String(), ShouldContainSubstring, "invalid date")
				So(w.Body.String(), ShouldContainSubstring, "set 0 has a negative count")
				So(deps.submitted, ShouldBeEmpty)
			})
		})

		Convey("When a synchronous write is requested", func() {
			w := do(mux, http.MethodPost, "/sessions?sync=true", `{"player_id":"ana"}`)

			Convey("Then the stored session is returned", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(deps.logged, ShouldHaveLength, 1)
				So(deps.submitted, ShouldBeEmpty)
				So(w.Body.String(), ShouldContainSubstring, `"id":"stored"`)
			})
		})
	})
}

func TestRosterHandler(t *testing.T) {
	Convey("Given a roster handler", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("Then a team is created", func() {
			w := do(mux, http.MethodPost, "/teams", `{"id":"t1","name":"Hawks"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(w.Body.String(), ShouldContainSubstring, `"name":"Hawks"`)
		})

		Convey("Then an invalid team is a bad request", func() {
			w := do(mux, http.MethodPost, "/teams", `{"id":"t1"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then a repeated team ID conflicts", func() {
			w := do(mux, http.MethodPost, "/teams", `{"id":"taken","name":"Hawks"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(errorCode(w), ShouldEqual, "conflict")
		})

		Convey("Then players and drills are created", func() {
			So(do(mux, http.MethodPost, "/players", `{"id":"ana","team_id":"t1","name":"Ana","bats":"R"}`).Code, ShouldEqual, http.StatusCreated)
			So(do(mux, http.MethodPost, "/drills", `{"id":"d1","team_id":"t1","name":"Tee Work","goal_type":"Execution %"}`).Code, ShouldEqual, http.StatusCreated)
		})

		Convey("Then a drill naming an unknown goal type is a bad request", func() {
			w := do(mux, http.MethodPost, "/drills", `{"team_id":"t1","name":"Launch","goal_type":"Launch Angle"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")
			So(w.Body.String(), ShouldContainSubstring, "Launch Angle")
		})

		Convey("Then goals accept a calendar date and metric keys", func() {
			w := do(mux, http.MethodPost, "/goals", `{"scope":"Personal","owner_id":"ana","metric":"total_reps","target_value":50,"target_date":"2026-05-30"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(deps.goals, ShouldHaveLength, 1)
			So(deps.goals[0].Scope, ShouldEqual, model.ScopePersonal)
			So(deps.goals[0].Metric, ShouldEqual, model.TotalReps)
			So(deps.goals[0].TargetDate.Format("2006-01-02"), ShouldEqual, "2026-05-30")
		})

		Convey("Then a malformed goal date is a bad request", func() {
			w := do(mux, http.MethodPost, "/goals", `{"scope":"team","team_id":"t1","metric":"contact","target_date":"soon"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.goals, ShouldBeEmpty)
		})
	})
}

func TestAnalyticsHandlers(t *testing.T) {
	Convey("Given the analytics routes", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("Then the breakdown is served for the path team", func() {
			w := do(mux, http.MethodGet, "/teams/t1/breakdown", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastTeam, ShouldEqual, "t1")
			So(w.Body.String(), ShouldContainSubstring, `"total_reps":45`)
		})

		Convey("Then the leaderboard defaults to execution", func() {
			w := do(mux, http.MethodGet, "/teams/t1/leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastMetric, ShouldEqual, "execution")
			So(deps.lastLimit, ShouldEqual, 0)
		})

		Convey("Then leaderboard parameters are passed through", func() {
			w := do(mux, http.MethodGet, "/teams/t1/leaderboard?metric=power&limit=3", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastMetric, ShouldEqual, "power")
			So(deps.lastLimit, ShouldEqual, 3)
		})

		Convey("Then an unknown metric is a bad request", func() {
			w := do(mux, http.MethodGet, "/teams/t1/leaderboard?metric=bogus", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then a malformed limit is a bad request", func() {
			w := do(mux, http.MethodGet, "/teams/t1/leaderboard?limit=-1", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then workload and trend read their windows", func() {
			So(do(mux, http.MethodGet, "/teams/t1/workload?days=30", "").Code, ShouldEqual, http.StatusOK)
			So(deps.lastDays, ShouldEqual, 30)
			So(do(mux, http.MethodGet, "/teams/t1/trend?weeks=6", "").Code, ShouldEqual, http.StatusOK)
			So(deps.lastWeeks, ShouldEqual, 6)
			So(do(mux, http.MethodGet, "/teams/t1/workload?days=abc", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then team goals are served", func() {
			w := do(mux, http.MethodGet, "/teams/t1/goals", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("Then player views are served", func() {
			So(do(mux, http.MethodGet, "/players/ana/snapshot", "").Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodGet, "/players/ana/goals", "").Code, ShouldEqual, http.StatusOK)
			w := do(mux, http.MethodGet, "/players/ana/trend", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"label":"improving"`)
			So(deps.lastPlayer, ShouldEqual, "ana")
		})

		Convey("Then an unknown player is not found", func() {
			w := do(mux, http.MethodGet, "/players/ghost/snapshot", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(errorCode(w), ShouldEqual, "not_found")
		})

		Convey("Then a recommendation needs a player", func() {
			So(do(mux, http.MethodGet, "/drills/d1/recommendation", "").Code, ShouldEqual, http.StatusBadRequest)
			w := do(mux, http.MethodGet, "/drills/d1/recommendation?player=ana", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastDrill, ShouldEqual, "d1")
			So(deps.lastPlayer, ShouldEqual, "ana")
		})

		Convey("Then unexpected failures are internal errors", func() {
			deps.queryErr = errors.New("boom")
			w := do(mux, http.MethodGet, "/teams/t1/breakdown", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(errorCode(w), ShouldEqual, "internal_error")
		})
	})
}
