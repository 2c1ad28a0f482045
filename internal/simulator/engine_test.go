package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/store"
)

type fakeStore struct {
	mu          sync.Mutex
	created     int
	updateErr   error
	matchStates map[string]store.MatchUpdate
}

func newFakeStore() *fakeStore {
	return &fakeStore{matchStates: make(map[string]store.MatchUpdate)}
}

func (f *fakeStore) ListMatches(ctx context.Context) ([]domain.Match, error) { return nil, nil }

func (f *fakeStore) FindMatch(ctx context.Context, id string) (*domain.Match, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateMatch(ctx context.Context, homeTeamID, awayTeamID, competition string) (*domain.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return &domain.Match{
		ID:          fmt.Sprintf("match-%d", f.created),
		HomeTeamID:  homeTeamID,
		AwayTeamID:  awayTeamID,
		Status:      domain.StatusNotStarted,
		Competition: competition,
	}, nil
}

func (f *fakeStore) UpdateMatch(ctx context.Context, id string, update store.MatchUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.matchStates[id] = update
	return nil
}

func (f *fakeStore) AddEvent(ctx context.Context, event *domain.MatchEvent) error { return nil }

func (f *fakeStore) UpdateStatistics(ctx context.Context, matchID string, stats domain.MatchStatistics) error {
	return nil
}

func (f *fakeStore) FindTeam(ctx context.Context, id string) (*domain.Team, error) {
	return &domain.Team{ID: id, Name: "Team " + id[:4]}, nil
}

func (f *fakeStore) FindPlayersByTeam(ctx context.Context, teamID string) ([]domain.Player, error) {
	players := make([]domain.Player, 3)
	for i := range players {
		players[i] = domain.Player{
			ID:     fmt.Sprintf("%s-p%d", teamID[:4], i),
			TeamID: teamID,
			Name:   fmt.Sprintf("Player %d", i),
			Number: i + 1,
		}
	}
	return players, nil
}

func (f *fakeStore) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

type recordedUpdate struct {
	matchID    string
	updateType string
	data       domain.MatchUpdateData
}

type fakePublisher struct {
	mu      sync.Mutex
	updates []recordedUpdate
	events  []domain.MatchEventData
	stats   []domain.StatisticsData
}

func (f *fakePublisher) PublishMatchUpdate(matchID, updateType string, data domain.MatchUpdateData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, recordedUpdate{matchID, updateType, data})
}

func (f *fakePublisher) PublishMatchEvent(matchID string, data domain.MatchEventData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
}

func (f *fakePublisher) PublishStatsUpdate(matchID string, data domain.StatisticsData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, data)
}

func (f *fakePublisher) lastUpdate() (recordedUpdate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return recordedUpdate{}, false
	}
	return f.updates[len(f.updates)-1], true
}

func (f *fakePublisher) updateTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, len(f.updates))
	for i, u := range f.updates {
		types[i] = u.updateType
	}
	return types
}

func (f *fakePublisher) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func testSimConfig() config.SimulatorConfig {
	return config.SimulatorConfig{
		Speed:             1,
		ConcurrentMatches: 1,
		Competition:       "Premier League",
		HalfTimeBreak:     20 * time.Millisecond,
		FullTimeDelay:     20 * time.Millisecond,
		PersistTimeout:    time.Second,
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeStore, *fakePublisher) {
	t.Helper()
	st := newFakeStore()
	pub := &fakePublisher{}
	return NewEngine(st, pub, testSimConfig()), st, pub
}

func (e *Engine) match(t *testing.T, id string) *simMatch {
	t.Helper()
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.matches[id]
	require.True(t, ok, "match %s not active", id)
	return m
}

func TestMatchStartsOnFirstTick(t *testing.T) {
	req := require.New(t)
	e, _, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")

	e.advance(ctx, m)

	req.Equal(domain.StatusFirstHalf, m.status)
	req.Equal(1, m.minute)

	update, ok := pub.lastUpdate()
	req.True(ok)
	req.Equal(domain.UpdateMatchStarted, update.updateType)
	req.Equal(1, update.data.Minute)
	req.Equal(domain.StatusFirstHalf, update.data.Status)
}

func TestHalfTimeTransition(t *testing.T) {
	req := require.New(t)
	e, _, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusFirstHalf
	m.minute = 44
	m.nextEventAt = 1000

	e.advance(ctx, m)

	req.Equal(domain.StatusHalfTime, m.status)
	req.Equal(45, m.minute)
	update, ok := pub.lastUpdate()
	req.True(ok)
	req.Equal(domain.UpdateHalfTime, update.updateType)

	// The break timer resumes the second half at minute 46.
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.status == domain.StatusSecondHalf
	}, time.Second, 5*time.Millisecond)

	m.mu.Lock()
	req.Equal(46, m.minute)
	m.mu.Unlock()

	update, _ = pub.lastUpdate()
	req.Equal(domain.UpdateSecondHalfStarted, update.updateType)
}

func TestHalfTimePausesSimulation(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusHalfTime
	m.minute = 45

	e.advance(ctx, m)

	req.Equal(domain.StatusHalfTime, m.status)
	req.Equal(45, m.minute, "minute must not advance during the break")
}

func TestFullTimeRetiresAndReplacesMatch(t *testing.T) {
	req := require.New(t)
	e, st, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusSecondHalf
	m.minute = 89
	m.nextEventAt = 1000

	e.advance(ctx, m)

	req.Equal(domain.StatusFullTime, m.status)
	req.Equal(90, m.minute)
	update, ok := pub.lastUpdate()
	req.True(ok)
	req.Equal(domain.UpdateFullTime, update.updateType)

	require.Eventually(t, func() bool {
		e.mu.RLock()
		defer e.mu.RUnlock()
		_, stillActive := e.matches["match-1"]
		return !stillActive && len(e.matches) == 1
	}, time.Second, 5*time.Millisecond)

	req.Equal(2, st.createdCount(), "a replacement match is created")
}

func TestFinishedMatchNoLongerAdvances(t *testing.T) {
	req := require.New(t)
	e, _, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusFullTime
	m.minute = 90

	before := len(pub.updateTypes())
	e.advance(ctx, m)

	req.Equal(90, m.minute)
	req.Len(pub.updateTypes(), before)
}

func TestGoalUpdatesScore(t *testing.T) {
	req := require.New(t)
	e, _, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusFirstHalf
	m.minute = 20

	m.mu.Lock()
	e.emitEvent(ctx, m, domain.EventGoal)
	total := m.homeScore + m.awayScore
	m.mu.Unlock()

	req.Equal(1, total)
	req.Equal(1, pub.eventCount())

	pub.mu.Lock()
	event := pub.events[0]
	pub.mu.Unlock()
	req.Equal(domain.EventGoal, event.Event.Type)
	req.Equal(1, event.CurrentScore.Home+event.CurrentScore.Away)
	req.NotEmpty(event.Event.PlayerName)
	req.NotEmpty(event.Event.Description)
}

func TestSubstitutionsCappedPerSide(t *testing.T) {
	req := require.New(t)
	e, _, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusSecondHalf
	m.minute = 70

	m.mu.Lock()
	for i := 0; i < 40; i++ {
		e.emitEvent(ctx, m, domain.EventSubstitution)
	}
	homeSubs, awaySubs := m.homeSubs, m.awaySubs
	m.mu.Unlock()

	req.LessOrEqual(homeSubs, 5)
	req.LessOrEqual(awaySubs, 5)
	req.Equal(homeSubs+awaySubs, pub.eventCount(), "capped substitutions emit no event")
}

func TestPossessionStaysBoundedAndComplementary(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")
	m.status = domain.StatusFirstHalf
	m.minute = 10

	m.mu.Lock()
	for i := 0; i < 200; i++ {
		e.applyStatistics(m, domain.EventShot, domain.SideHome)
		req.GreaterOrEqual(m.stats.HomePossession, 30)
		req.LessOrEqual(m.stats.HomePossession, 70)
		req.Equal(100, m.stats.HomePossession+m.stats.AwayPossession)
	}
	m.mu.Unlock()
}

func TestShotsAccumulate(t *testing.T) {
	req := require.New(t)
	e, _, pub := newTestEngine(t)
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")

	m.mu.Lock()
	for i := 0; i < 50; i++ {
		e.applyStatistics(m, domain.EventShot, domain.SideHome)
	}
	shots := m.stats.HomeShots
	onTarget := m.stats.HomeShotsOnTarget
	m.mu.Unlock()

	req.Equal(50, shots)
	req.LessOrEqual(onTarget, shots)

	pub.mu.Lock()
	last := pub.stats[len(pub.stats)-1]
	pub.mu.Unlock()
	req.Equal(50, last.Statistics.Shots.Home)
}

func TestPersistenceFailureDoesNotHaltSimulation(t *testing.T) {
	req := require.New(t)
	st := newFakeStore()
	st.updateErr = errors.New("db down")
	pub := &fakePublisher{}
	e := NewEngine(st, pub, testSimConfig())
	ctx := context.Background()

	req.NoError(e.createMatch(ctx))
	m := e.match(t, "match-1")

	e.advance(ctx, m)
	req.Equal(domain.StatusFirstHalf, m.status)

	e.advance(ctx, m)
	req.Equal(2, m.minute, "simulation advances despite persistence errors")
}

func TestEngineRunsOnTicker(t *testing.T) {
	req := require.New(t)
	st := newFakeStore()
	pub := &fakePublisher{}
	cfg := testSimConfig()
	cfg.Speed = 0.005
	cfg.ConcurrentMatches = 2
	e := NewEngine(st, pub, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req.NoError(e.Start(ctx))
	req.Len(e.ActiveMatchIDs(), 2)

	require.Eventually(t, func() bool {
		updates := pub.updateTypes()
		started := 0
		for _, u := range updates {
			if u == domain.UpdateMatchStarted {
				started++
			}
		}
		return started == 2
	}, 2*time.Second, 10*time.Millisecond)

	e.Stop()
}

func TestRandBetweenBounds(t *testing.T) {
	req := require.New(t)
	e, _, _ := newTestEngine(t)

	for i := 0; i < 1000; i++ {
		v := e.randBetween(2, 5)
		req.GreaterOrEqual(v, 2)
		req.LessOrEqual(v, 5)
	}
}
