package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// GormStore implements MatchStore using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-based match store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListMatches retrieves all matches with their teams and statistics,
// newest first.
func (s *GormStore) ListMatches(ctx context.Context) ([]domain.Match, error) {
	l := log.Ctx(ctx)

	var models []MatchModel
	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Msg("failed to list matches from db")
		return nil, result.Error
	}

	matches := make([]domain.Match, len(models))
	for i, model := range models {
		match := model.ToDomain()
		if err := s.attachRelations(ctx, match); err != nil {
			return nil, err
		}
		matches[i] = *match
	}

	return matches, nil
}

// FindMatch retrieves a match by ID with teams, events and statistics.
func (s *GormStore) FindMatch(ctx context.Context, id string) (*domain.Match, error) {
	l := log.Ctx(ctx)

	var model MatchModel
	result := s.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l.Error().Err(result.Error).Str(log.FieldMatchID, id).Msg("failed to get match by id")
		return nil, result.Error
	}

	match := model.ToDomain()
	if err := s.attachRelations(ctx, match); err != nil {
		return nil, err
	}

	var eventModels []MatchEventModel
	if err := s.db.WithContext(ctx).
		Where("match_id = ?", id).
		Order("created_at ASC").
		Find(&eventModels).Error; err != nil {
		l.Error().Err(err).Str(log.FieldMatchID, id).Msg("failed to load match events")
		return nil, err
	}
	match.Events = make([]domain.MatchEvent, len(eventModels))
	for i, em := range eventModels {
		match.Events[i] = *em.ToDomain()
	}

	return match, nil
}

// CreateMatch creates a new match with zeroed state and initial statistics.
func (s *GormStore) CreateMatch(ctx context.Context, homeTeamID, awayTeamID, competition string) (*domain.Match, error) {
	l := log.Ctx(ctx)

	model := &MatchModel{
		ID:          uuid.New().String(),
		HomeTeamID:  homeTeamID,
		AwayTeamID:  awayTeamID,
		Status:      string(domain.StatusNotStarted),
		Competition: competition,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		stats := domain.NewMatchStatistics()
		return tx.Create(StatisticsToModel(model.ID, stats)).Error
	})
	if err != nil {
		l.Error().Err(err).Msg("failed to create match in db")
		return nil, err
	}

	match := model.ToDomain()
	if err := s.attachRelations(ctx, match); err != nil {
		return nil, err
	}

	l.Debug().Str(log.FieldMatchID, match.ID).Msg("match created in db")
	return match, nil
}

// UpdateMatch writes the mutable match columns.
func (s *GormStore) UpdateMatch(ctx context.Context, id string, update MatchUpdate) error {
	l := log.Ctx(ctx)

	result := s.db.WithContext(ctx).Model(&MatchModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"home_score": update.HomeScore,
			"away_score": update.AwayScore,
			"minute":     update.Minute,
			"status":     string(update.Status),
		})
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldMatchID, id).Msg("failed to update match in db")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddEvent persists a match event.
func (s *GormStore) AddEvent(ctx context.Context, event *domain.MatchEvent) error {
	l := log.Ctx(ctx)

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	result := s.db.WithContext(ctx).Create(EventToModel(event))
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldMatchID, event.MatchID).Msg("failed to add match event to db")
		return result.Error
	}
	return nil
}

// UpdateStatistics upserts the statistics row for a match.
func (s *GormStore) UpdateStatistics(ctx context.Context, matchID string, stats domain.MatchStatistics) error {
	l := log.Ctx(ctx)

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}},
			UpdateAll: true,
		}).
		Create(StatisticsToModel(matchID, stats))
	if result.Error != nil {
		l.Error().Err(result.Error).Str(log.FieldMatchID, matchID).Msg("failed to update match statistics in db")
		return result.Error
	}
	return nil
}

// FindTeam retrieves a team by ID.
func (s *GormStore) FindTeam(ctx context.Context, id string) (*domain.Team, error) {
	l := log.Ctx(ctx)

	var model TeamModel
	result := s.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l.Error().Err(result.Error).Str("team_id", id).Msg("failed to get team by id")
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// FindPlayersByTeam retrieves a team roster ordered by shirt number.
func (s *GormStore) FindPlayersByTeam(ctx context.Context, teamID string) ([]domain.Player, error) {
	l := log.Ctx(ctx)

	var models []PlayerModel
	result := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("number ASC").
		Find(&models)
	if result.Error != nil {
		l.Error().Err(result.Error).Str("team_id", teamID).Msg("failed to get players by team")
		return nil, result.Error
	}

	players := make([]domain.Player, len(models))
	for i, model := range models {
		players[i] = *model.ToDomain()
	}
	return players, nil
}

// attachRelations loads teams and statistics onto a match.
func (s *GormStore) attachRelations(ctx context.Context, match *domain.Match) error {
	l := log.Ctx(ctx)

	var home, away TeamModel
	if err := s.db.WithContext(ctx).First(&home, "id = ?", match.HomeTeamID).Error; err != nil {
		l.Error().Err(err).Str("team_id", match.HomeTeamID).Msg("failed to load home team")
		return err
	}
	if err := s.db.WithContext(ctx).First(&away, "id = ?", match.AwayTeamID).Error; err != nil {
		l.Error().Err(err).Str("team_id", match.AwayTeamID).Msg("failed to load away team")
		return err
	}
	match.HomeTeam = home.ToDomain()
	match.AwayTeam = away.ToDomain()

	var stats MatchStatisticsModel
	err := s.db.WithContext(ctx).First(&stats, "match_id = ?", match.ID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error().Err(err).Str(log.FieldMatchID, match.ID).Msg("failed to load match statistics")
			return err
		}
	} else {
		body := stats.ToDomain()
		match.Statistics = &body
	}

	return nil
}
