package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/store"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// Publisher delivers simulation output to connected clients.
type Publisher interface {
	PublishMatchUpdate(matchID, updateType string, data domain.MatchUpdateData)
	PublishMatchEvent(matchID string, data domain.MatchEventData)
	PublishStatsUpdate(matchID string, data domain.StatisticsData)
}

// simMatch is the in-memory state of one running match. The engine is
// the single writer; stats and score held here are authoritative, the
// database is written behind.
type simMatch struct {
	mu sync.Mutex

	id          string
	homeTeamID  string
	awayTeamID  string
	homeTeam    string
	awayTeam    string
	homePlayers []domain.Player
	awayPlayers []domain.Player
	homeScore   int
	awayScore   int
	minute      int
	status      domain.MatchStatus
	nextEventAt int
	homeSubs    int
	awaySubs    int
	stats       domain.MatchStatistics
}

// Engine runs a fixed set of concurrent simulated matches on a shared
// tick, retiring finished ones and starting replacements.
type Engine struct {
	store store.MatchStore
	pub   Publisher
	cfg   config.SimulatorConfig

	mu      sync.RWMutex
	matches map[string]*simMatch

	rngMu sync.Mutex
	rng   *rand.Rand

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewEngine(st store.MatchStore, pub Publisher, cfg config.SimulatorConfig) *Engine {
	return &Engine{
		store:   st,
		pub:     pub,
		cfg:     cfg,
		matches: make(map[string]*simMatch),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start creates the initial matches and begins the tick loop. A match
// that fails to initialize is logged and skipped, the rest still run.
func (e *Engine) Start(ctx context.Context) error {
	ctx, e.cancel = context.WithCancel(ctx)
	l := log.Ctx(ctx)

	for i := 0; i < e.cfg.ConcurrentMatches; i++ {
		if err := e.createMatch(ctx); err != nil {
			l.Error().Err(err).Msg("failed to create initial match")
		}
	}

	e.wg.Add(1)
	go e.run(ctx)

	l.Info().Int("matches", len(e.ActiveMatchIDs())).Msg("match simulator started")
	return nil
}

// Stop halts the tick loop and waits for it to exit.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	log.L().Info().Msg("match simulator stopped")
}

// ActiveMatchIDs returns the ids of matches currently simulating.
func (e *Engine) ActiveMatchIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.matches))
	for id := range e.matches {
		ids = append(ids, id)
	}
	return ids
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	interval := time.Duration(float64(time.Second) * e.cfg.Speed)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

func (e *Engine) tick(ctx context.Context) {
	e.mu.RLock()
	matches := make([]*simMatch, 0, len(e.matches))
	for _, m := range e.matches {
		matches = append(matches, m)
	}
	e.mu.RUnlock()

	for _, m := range matches {
		e.advance(ctx, m)
	}
}

// advance moves one match forward a minute and emits whatever that
// minute produced.
func (e *Engine) advance(ctx context.Context, m *simMatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.status {
	case domain.StatusNotStarted:
		m.status = domain.StatusFirstHalf
		m.minute = 1
		e.persistMatch(ctx, m)
		e.pub.PublishMatchUpdate(m.id, domain.UpdateMatchStarted, updateData(m))

	case domain.StatusFirstHalf:
		m.minute++
		if m.minute >= m.nextEventAt {
			e.generateEvent(ctx, m)
			m.nextEventAt = m.minute + e.randBetween(2, 5)
		}
		if m.minute >= 45 {
			m.status = domain.StatusHalfTime
			e.persistMatch(ctx, m)
			e.pub.PublishMatchUpdate(m.id, domain.UpdateHalfTime, updateData(m))
			time.AfterFunc(e.cfg.HalfTimeBreak, func() {
				e.resumeSecondHalf(m)
			})
		}

	case domain.StatusSecondHalf:
		m.minute++
		if m.minute >= m.nextEventAt {
			e.generateEvent(ctx, m)
			m.nextEventAt = m.minute + e.randBetween(2, 5)
		}
		if m.minute >= 90 {
			m.status = domain.StatusFullTime
			e.persistMatch(ctx, m)
			e.pub.PublishMatchUpdate(m.id, domain.UpdateFullTime, updateData(m))
			time.AfterFunc(e.cfg.FullTimeDelay, func() {
				e.retireMatch(m.id)
			})
		}
	}
}

func (e *Engine) resumeSecondHalf(m *simMatch) {
	m.mu.Lock()
	if m.status != domain.StatusHalfTime {
		m.mu.Unlock()
		return
	}
	m.status = domain.StatusSecondHalf
	m.minute = 46
	ctx := context.Background()
	e.persistMatch(ctx, m)
	e.pub.PublishMatchUpdate(m.id, domain.UpdateSecondHalfStarted, updateData(m))
	m.mu.Unlock()
}

// retireMatch drops a finished match and starts its replacement.
func (e *Engine) retireMatch(matchID string) {
	e.mu.Lock()
	delete(e.matches, matchID)
	e.mu.Unlock()

	ctx := context.Background()
	if err := e.createMatch(ctx); err != nil {
		log.L().Error().Err(err).Msg("failed to create replacement match")
	}
}

func (e *Engine) createMatch(ctx context.Context) error {
	pair := store.DemoTeamPairs[e.randBetween(0, len(store.DemoTeamPairs)-1)]

	match, err := e.store.CreateMatch(ctx, pair[0], pair[1], e.cfg.Competition)
	if err != nil {
		return err
	}

	homeTeam, err := e.store.FindTeam(ctx, pair[0])
	if err != nil {
		return err
	}
	awayTeam, err := e.store.FindTeam(ctx, pair[1])
	if err != nil {
		return err
	}
	homePlayers, err := e.store.FindPlayersByTeam(ctx, pair[0])
	if err != nil {
		return err
	}
	awayPlayers, err := e.store.FindPlayersByTeam(ctx, pair[1])
	if err != nil {
		return err
	}

	m := &simMatch{
		id:          match.ID,
		homeTeamID:  pair[0],
		awayTeamID:  pair[1],
		homeTeam:    homeTeam.Name,
		awayTeam:    awayTeam.Name,
		homePlayers: homePlayers,
		awayPlayers: awayPlayers,
		status:      domain.StatusNotStarted,
		nextEventAt: e.randBetween(5, 10),
		stats:       domain.NewMatchStatistics(),
	}

	e.mu.Lock()
	e.matches[m.id] = m
	e.mu.Unlock()

	log.Ctx(ctx).Info().
		Str(log.FieldMatchID, m.id).
		Str("home", m.homeTeam).
		Str("away", m.awayTeam).
		Msg("match created")
	return nil
}

// generateEvent rolls the event table and applies the outcome. Caller
// holds m.mu.
func (e *Engine) generateEvent(ctx context.Context, m *simMatch) {
	eventType, ok := pickEventType(e.randFloat(), m.minute)
	if !ok {
		return
	}
	e.emitEvent(ctx, m, eventType)
}

// emitEvent applies one event to match state, persists it and
// publishes it. Caller holds m.mu.
func (e *Engine) emitEvent(ctx context.Context, m *simMatch, eventType domain.EventType) {
	team := domain.SideHome
	players := m.homePlayers
	teamName := m.homeTeam
	if e.randFloat() > 0.5 {
		team = domain.SideAway
		players = m.awayPlayers
		teamName = m.awayTeam
	}
	if len(players) == 0 {
		return
	}
	player := players[e.randBetween(0, len(players)-1)]

	description := eventDescription(eventType, player.Name, teamName)

	switch eventType {
	case domain.EventGoal:
		if team == domain.SideHome {
			m.homeScore++
		} else {
			m.awayScore++
		}
		e.persistMatch(ctx, m)

	case domain.EventSubstitution:
		if team == domain.SideHome {
			if m.homeSubs >= 5 {
				return
			}
			m.homeSubs++
		} else {
			if m.awaySubs >= 5 {
				return
			}
			m.awaySubs++
		}
		playerOut := players[e.randBetween(0, len(players)-1)]
		description = player.Name + " replaces " + playerOut.Name
	}

	event := &domain.MatchEvent{
		MatchID:     m.id,
		Type:        eventType,
		Minute:      m.minute,
		Team:        team,
		PlayerID:    player.ID,
		PlayerName:  player.Name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	e.persistEvent(event)

	e.applyStatistics(m, eventType, team)

	e.pub.PublishMatchEvent(m.id, domain.MatchEventData{
		MatchID: m.id,
		Event: domain.EventInfo{
			Type:        event.Type,
			Minute:      event.Minute,
			Team:        event.Team,
			PlayerID:    event.PlayerID,
			PlayerName:  event.PlayerName,
			Description: event.Description,
		},
		CurrentScore: domain.Score{Home: m.homeScore, Away: m.awayScore},
	})
}

// applyStatistics updates the in-memory counters for an event and
// publishes the new totals. Caller holds m.mu.
func (e *Engine) applyStatistics(m *simMatch, eventType domain.EventType, team string) {
	home := team == domain.SideHome

	switch eventType {
	case domain.EventShot:
		onTarget := e.randFloat() < 0.4
		if home {
			m.stats.HomeShots++
			if onTarget {
				m.stats.HomeShotsOnTarget++
			}
		} else {
			m.stats.AwayShots++
			if onTarget {
				m.stats.AwayShotsOnTarget++
			}
		}
	case domain.EventCorner:
		if home {
			m.stats.HomeCorners++
		} else {
			m.stats.AwayCorners++
		}
	case domain.EventFoul:
		if home {
			m.stats.HomeFouls++
		} else {
			m.stats.AwayFouls++
		}
	case domain.EventYellowCard:
		if home {
			m.stats.HomeYellowCards++
		} else {
			m.stats.AwayYellowCards++
		}
	case domain.EventRedCard:
		if home {
			m.stats.HomeRedCards++
		} else {
			m.stats.AwayRedCards++
		}
	}

	// Possession drifts a little with every event, bounded so neither
	// side ever fully dominates.
	possession := m.stats.HomePossession + e.randBetween(-2, 2)
	if possession < 30 {
		possession = 30
	}
	if possession > 70 {
		possession = 70
	}
	m.stats.HomePossession = possession
	m.stats.AwayPossession = 100 - possession

	e.persistStatistics(m.id, m.stats)
	e.pub.PublishStatsUpdate(m.id, domain.FormatStatistics(m.id, m.stats))
}

func updateData(m *simMatch) domain.MatchUpdateData {
	return domain.MatchUpdateData{
		MatchID:  m.id,
		HomeTeam: m.homeTeam,
		AwayTeam: m.awayTeam,
		Score:    domain.Score{Home: m.homeScore, Away: m.awayScore},
		Minute:   m.minute,
		Status:   m.status,
	}
}

// persistMatch writes the mutable match columns in the background.
// Persistence failures are logged, the simulation keeps its in-memory
// state and carries on.
func (e *Engine) persistMatch(ctx context.Context, m *simMatch) {
	update := store.MatchUpdate{
		HomeScore: m.homeScore,
		AwayScore: m.awayScore,
		Minute:    m.minute,
		Status:    m.status,
	}
	matchID := m.id
	e.persistAsync(func(ctx context.Context) error {
		return e.store.UpdateMatch(ctx, matchID, update)
	}, matchID, "failed to persist match state")
}

func (e *Engine) persistEvent(event *domain.MatchEvent) {
	e.persistAsync(func(ctx context.Context) error {
		return e.store.AddEvent(ctx, event)
	}, event.MatchID, "failed to persist match event")
}

func (e *Engine) persistStatistics(matchID string, stats domain.MatchStatistics) {
	e.persistAsync(func(ctx context.Context) error {
		return e.store.UpdateStatistics(ctx, matchID, stats)
	}, matchID, "failed to persist match statistics")
}

func (e *Engine) persistAsync(fn func(context.Context) error, matchID, errMsg string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.PersistTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.L().Warn().Err(err).Str(log.FieldMatchID, matchID).Msg(errMsg)
		}
	}()
}

func (e *Engine) randBetween(min, max int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(max-min+1) + min
}

func (e *Engine) randFloat() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}
