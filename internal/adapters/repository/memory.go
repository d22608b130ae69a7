package repository

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/dugout/internal/domain/model"
	"github.com/okian/dugout/internal/domain/zone"
	"github.com/okian/dugout/pkg/metrics"
)

// snapshot is an immutable view of the store. Writers build a new one and
// publish it; readers never lock.
type snapshot struct {
	version  uint64
	teams    map[string]model.Team
	players  map[string]model.Player
	drills   map[string]model.Drill
	goals    map[string]model.Goal
	goalIDs  []string
	sessions map[string][]model.Session // by team, in logging order
	count    int
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu         sync.Mutex // serializes writers
	sessionIDs map[string]struct{}
	version    atomic.Uint64
	snap       atomic.Pointer[snapshot]

	newID func() string
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessionIDs: make(map[string]struct{}),
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap.Store(&snapshot{
		teams:    map[string]model.Team{},
		players:  map[string]model.Player{},
		drills:   map[string]model.Drill{},
		goals:    map[string]model.Goal{},
		sessions: map[string][]model.Session{},
	})
	return s
}

var _ Store = (*MemoryStore)(nil)

// HasSession reports whether a session with this ID has been logged.
func (s *MemoryStore) HasSession(_ context.Context, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessionIDs[sessionID]
	return ok
}

// Version returns the number of successful writes so far.
func (s *MemoryStore) Version() uint64 { return s.version.Load() }

// read loads the current snapshot and records the query latency when done.
func (s *MemoryStore) read() (*snapshot, func()) {
	start := time.Now()
	return s.snap.Load(), func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// publish installs next as the current snapshot. Callers hold s.mu.
func (s *MemoryStore) publish(next *snapshot, start time.Time) {
	next.version = s.version.Add(1)
	s.snap.Store(next)

	metrics.UpdateRepositoryVersion(next.version)
	metrics.UpdateRepositoryRecords("teams", len(next.teams))
	metrics.UpdateRepositoryRecords("players", len(next.players))
	metrics.UpdateRepositoryRecords("drills", len(next.drills))
	metrics.UpdateRepositoryRecords("goals", len(next.goals))
	metrics.UpdateRepositoryRecords("sessions", next.count)
	metrics.RecordRepositoryWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
}

// clone copies the snapshot maps. Session slices are shared: writers only
// append, and readers never look past the length they loaded.
func (snap *snapshot) clone() *snapshot {
	return &snapshot{
		teams:    maps.Clone(snap.teams),
		players:  maps.Clone(snap.players),
		drills:   maps.Clone(snap.drills),
		goals:    maps.Clone(snap.goals),
		goalIDs:  snap.goalIDs[:len(snap.goalIDs):len(snap.goalIDs)],
		sessions: maps.Clone(snap.sessions),
		count:    snap.count,
	}
}

// Team returns a team by ID.
func (s *MemoryStore) Team(ctx context.Context, teamID string) (model.Team, error) {
	snap, done := s.read()
	defer done()
	t, ok := snap.teams[teamID]
	if !ok {
		return model.Team{}, fmt.Errorf("%w: team %q", ErrNotFound, teamID)
	}
	return t, nil
}

// Player returns a player by ID.
func (s *MemoryStore) Player(ctx context.Context, playerID string) (model.Player, error) {
	snap, done := s.read()
	defer done()
	p, ok := snap.players[playerID]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: player %q", ErrNotFound, playerID)
	}
	return p, nil
}

// Drill returns a copy of a drill by ID.
func (s *MemoryStore) Drill(ctx context.Context, drillID string) (model.Drill, error) {
	snap, done := s.read()
	defer done()
	d, ok := snap.drills[drillID]
	if !ok {
		return model.Drill{}, fmt.Errorf("%w: drill %q", ErrNotFound, drillID)
	}
	return cloneDrill(d), nil
}

// PlayersInTeam lists a team's roster.
func (s *MemoryStore) PlayersInTeam(ctx context.Context, teamID string) ([]model.Player, error) {
	snap, done := s.read()
	defer done()
	if _, ok := snap.teams[teamID]; !ok {
		return nil, fmt.Errorf("%w: team %q", ErrNotFound, teamID)
	}
	out := make([]model.Player, 0)
	for _, p := range snap.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sortByID(out, func(p model.Player) string { return p.ID })
	return out, nil
}

// DrillsForTeam lists a team's drills.
func (s *MemoryStore) DrillsForTeam(ctx context.Context, teamID string) ([]model.Drill, error) {
	snap, done := s.read()
	defer done()
	if _, ok := snap.teams[teamID]; !ok {
		return nil, fmt.Errorf("%w: team %q", ErrNotFound, teamID)
	}
	out := make([]model.Drill, 0)
	for _, d := range snap.drills {
		if d.TeamID == teamID {
			out = append(out, cloneDrill(d))
		}
	}
	sortByID(out, func(d model.Drill) string { return d.ID })
	return out, nil
}

// SessionsForTeam returns copies of a team's sessions in logging order.
func (s *MemoryStore) SessionsForTeam(ctx context.Context, teamID string) ([]model.Session, error) {
	snap, done := s.read()
	defer done()
	if _, ok := snap.teams[teamID]; !ok {
		return nil, fmt.Errorf("%w: team %q", ErrNotFound, teamID)
	}
	stored := snap.sessions[teamID]
	out := make([]model.Session, len(stored))
	for i, sess := range stored {
		out[i] = sess.Clone()
	}
	return out, nil
}

// SessionsForPlayer returns copies of one player's sessions in logging order.
func (s *MemoryStore) SessionsForPlayer(ctx context.Context, playerID string) ([]model.Session, error) {
	snap, done := s.read()
	defer done()
	p, ok := snap.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: player %q", ErrNotFound, playerID)
	}
	out := make([]model.Session, 0)
	for _, sess := range snap.sessions[p.TeamID] {
		if sess.PlayerID == playerID {
			out = append(out, sess.Clone())
		}
	}
	return out, nil
}

// GoalsForPlayer lists a player's personal goals.
func (s *MemoryStore) GoalsForPlayer(ctx context.Context, playerID string) ([]model.Goal, error) {
	snap, done := s.read()
	defer done()
	if _, ok := snap.players[playerID]; !ok {
		return nil, fmt.Errorf("%w: player %q", ErrNotFound, playerID)
	}
	return snap.goalsWhere(func(g model.Goal) bool {
		return g.Scope == model.ScopePersonal && g.OwnerID == playerID
	}), nil
}

// TeamGoals lists a team's goals.
func (s *MemoryStore) TeamGoals(ctx context.Context, teamID string) ([]model.Goal, error) {
	snap, done := s.read()
	defer done()
	if _, ok := snap.teams[teamID]; !ok {
		return nil, fmt.Errorf("%w: team %q", ErrNotFound, teamID)
	}
	return snap.goalsWhere(func(g model.Goal) bool {
		return g.Scope == model.ScopeTeam && g.TeamID == teamID
	}), nil
}

// goalsWhere returns matching goals in creation order.
func (snap *snapshot) goalsWhere(keep func(model.Goal) bool) []model.Goal {
	out := make([]model.Goal, 0)
	for _, id := range snap.goalIDs {
		if g := snap.goals[id]; keep(g) {
			out = append(out, cloneGoal(g))
		}
	}
	return out
}

// Stats counts the stored records.
func (s *MemoryStore) Stats(ctx context.Context) Stats {
	snap, done := s.read()
	defer done()
	return Stats{
		Teams:    len(snap.teams),
		Players:  len(snap.players),
		Drills:   len(snap.drills),
		Goals:    len(snap.goals),
		Sessions: snap.count,
		Version:  snap.version,
	}
}

// AddTeam stores a team, assigning an ID when missing.
func (s *MemoryStore) AddTeam(ctx context.Context, t model.Team) (model.Team, error) {
	start := time.Now()
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return model.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()
	if t.ID == "" {
		t.ID = s.newID()
	}
	if _, ok := cur.teams[t.ID]; ok {
		return model.Team{}, fmt.Errorf("%w: team %q", ErrDuplicate, t.ID)
	}
	next := cur.clone()
	next.teams[t.ID] = t
	s.publish(next, start)
	return t, nil
}

// AddPlayer stores a player on an existing team.
func (s *MemoryStore) AddPlayer(ctx context.Context, p model.Player) (model.Player, error) {
	start := time.Now()
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return model.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidRecord)
	}
	p.Bats = model.ParseHand(string(p.Bats))

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()
	if _, ok := cur.teams[p.TeamID]; !ok {
		return model.Player{}, fmt.Errorf("%w: team %q", ErrNotFound, p.TeamID)
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	if _, ok := cur.players[p.ID]; ok {
		return model.Player{}, fmt.Errorf("%w: player %q", ErrDuplicate, p.ID)
	}
	next := cur.clone()
	next.players[p.ID] = p
	s.publish(next, start)
	return p, nil
}

// AddDrill stores a drill on an existing team.
func (s *MemoryStore) AddDrill(ctx context.Context, d model.Drill) (model.Drill, error) {
	start := time.Now()
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return model.Drill{}, fmt.Errorf("%w: drill name is required", ErrInvalidRecord)
	}
	if d.GoalType != "" && !d.GoalType.Valid() {
		return model.Drill{}, fmt.Errorf("%w: unknown goal type %q", ErrInvalidRecord, d.GoalType)
	}
	d.CountSituation = model.ParseCountSituation(string(d.CountSituation))
	d = cloneDrill(d)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()
	if _, ok := cur.teams[d.TeamID]; !ok {
		return model.Drill{}, fmt.Errorf("%w: team %q", ErrNotFound, d.TeamID)
	}
	if d.ID == "" {
		d.ID = s.newID()
	}
	if _, ok := cur.drills[d.ID]; ok {
		return model.Drill{}, fmt.Errorf("%w: drill %q", ErrDuplicate, d.ID)
	}
	next := cur.clone()
	next.drills[d.ID] = d
	s.publish(next, start)
	return cloneDrill(d), nil
}

// AddGoal stores a personal or team goal.
func (s *MemoryStore) AddGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	start := time.Now()
	if !g.Metric.Valid() {
		return model.Goal{}, fmt.Errorf("%w: unknown metric %q", ErrInvalidRecord, g.Metric)
	}
	if g.TargetValue < 0 {
		return model.Goal{}, fmt.Errorf("%w: target value must not be negative", ErrInvalidRecord)
	}
	if g.TargetDate.IsZero() {
		return model.Goal{}, fmt.Errorf("%w: target date is required", ErrInvalidRecord)
	}
	g = cloneGoal(g)

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()
	switch g.Scope {
	case model.ScopePersonal:
		p, ok := cur.players[g.OwnerID]
		if !ok {
			return model.Goal{}, fmt.Errorf("%w: player %q", ErrNotFound, g.OwnerID)
		}
		if g.TeamID == "" {
			g.TeamID = p.TeamID
		}
		if g.TeamID != p.TeamID {
			return model.Goal{}, fmt.Errorf("%w: player %q is not on team %q", ErrInvalidRecord, p.ID, g.TeamID)
		}
	case model.ScopeTeam:
		if _, ok := cur.teams[g.TeamID]; !ok {
			return model.Goal{}, fmt.Errorf("%w: team %q", ErrNotFound, g.TeamID)
		}
		g.OwnerID = ""
	default:
		return model.Goal{}, fmt.Errorf("%w: unknown goal scope %q", ErrInvalidRecord, g.Scope)
	}
	if g.ID == "" {
		g.ID = s.newID()
	}
	if _, ok := cur.goals[g.ID]; ok {
		return model.Goal{}, fmt.Errorf("%w: goal %q", ErrDuplicate, g.ID)
	}
	next := cur.clone()
	next.goals[g.ID] = g
	next.goalIDs = append(next.goalIDs, g.ID)
	s.publish(next, start)
	return cloneGoal(g), nil
}

// LogSession stores a session in the right-handed zone frame. IDs are
// unique; a repeated ID returns ErrDuplicate.
func (s *MemoryStore) LogSession(ctx context.Context, in model.Session) (model.Session, error) {
	start := time.Now()
	if err := validateSets(in.Sets); err != nil {
		return model.Session{}, err
	}
	sess := in.Clone()
	if sess.Date.IsZero() {
		sess.Date = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snap.Load()

	p, ok := cur.players[sess.PlayerID]
	if !ok {
		return model.Session{}, fmt.Errorf("%w: player %q", ErrNotFound, sess.PlayerID)
	}
	if sess.TeamID == "" {
		sess.TeamID = p.TeamID
	}
	if sess.TeamID != p.TeamID {
		return model.Session{}, fmt.Errorf("%w: player %q is not on team %q", ErrInvalidRecord, p.ID, sess.TeamID)
	}
	var drill *model.Drill
	if sess.DrillID != "" {
		d, ok := cur.drills[sess.DrillID]
		if !ok || d.TeamID != sess.TeamID {
			return model.Session{}, fmt.Errorf("%w: drill %q", ErrNotFound, sess.DrillID)
		}
		drill = &d
		if sess.Name == "" {
			sess.Name = d.Name
		}
	}
	if sess.ID == "" {
		sess.ID = s.newID()
	}
	if _, dup := s.sessionIDs[sess.ID]; dup {
		return model.Session{}, fmt.Errorf("%w: session %q", ErrDuplicate, sess.ID)
	}

	if sess.BatterHand == "" {
		sess.BatterHand = p.Bats
	}
	sess.BatterHand = model.ParseHand(string(sess.BatterHand))
	for i := range sess.Sets {
		sess.Sets[i].CountSituation = model.ParseCountSituation(string(sess.Sets[i].CountSituation))
		sess.Sets[i] = sess.Sets[i].WithDefaults(drill)
	}
	sess = zone.NormalizeSession(sess)

	next := cur.clone()
	next.sessions[sess.TeamID] = append(cur.sessions[sess.TeamID], sess)
	next.count++
	s.sessionIDs[sess.ID] = struct{}{}
	s.publish(next, start)
	return sess.Clone(), nil
}

func validateSets(sets []model.SetResult) error {
	for i, set := range sets {
		if set.RepsAttempted < 0 || set.RepsExecuted < 0 || set.HardHits < 0 || set.Strikeouts < 0 {
			return fmt.Errorf("%w: set %d has a negative count", ErrInvalidRecord, i)
		}
	}
	return nil
}
