package store

import (
	"time"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
)

// TeamModel is the GORM model for the teams table.
type TeamModel struct {
	ID      string `gorm:"type:varchar(36);primaryKey"`
	Name    string `gorm:"type:varchar(100);not null"`
	Stadium string `gorm:"type:varchar(100)"`
}

// TableName specifies the table name for TeamModel.
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts TeamModel to domain Team.
func (m *TeamModel) ToDomain() *domain.Team {
	return &domain.Team{
		ID:      m.ID,
		Name:    m.Name,
		Stadium: m.Stadium,
	}
}

// PlayerModel is the GORM model for the players table.
type PlayerModel struct {
	ID       string `gorm:"type:varchar(36);primaryKey"`
	TeamID   string `gorm:"type:varchar(36);index;not null"`
	Name     string `gorm:"type:varchar(100);not null"`
	Position string `gorm:"type:varchar(10);not null"`
	Number   int    `gorm:"not null"`
}

// TableName specifies the table name for PlayerModel.
func (PlayerModel) TableName() string {
	return "players"
}

// ToDomain converts PlayerModel to domain Player.
func (m *PlayerModel) ToDomain() *domain.Player {
	return &domain.Player{
		ID:       m.ID,
		TeamID:   m.TeamID,
		Name:     m.Name,
		Position: m.Position,
		Number:   m.Number,
	}
}

// MatchModel is the GORM model for the matches table.
type MatchModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	HomeTeamID  string    `gorm:"type:varchar(36);index;not null"`
	AwayTeamID  string    `gorm:"type:varchar(36);index;not null"`
	HomeScore   int       `gorm:"default:0"`
	AwayScore   int       `gorm:"default:0"`
	Minute      int       `gorm:"default:0"`
	Status      string    `gorm:"type:varchar(20);index;not null;default:'NOT_STARTED'"`
	Competition string    `gorm:"type:varchar(100)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for MatchModel.
func (MatchModel) TableName() string {
	return "matches"
}

// ToDomain converts MatchModel to domain Match.
func (m *MatchModel) ToDomain() *domain.Match {
	return &domain.Match{
		ID:          m.ID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Minute:      m.Minute,
		Status:      domain.MatchStatus(m.Status),
		Competition: m.Competition,
		CreatedAt:   m.CreatedAt,
	}
}

// MatchEventModel is the GORM model for the match_events table.
// PlayerName is denormalized so event feeds render without a join.
type MatchEventModel struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"`
	MatchID     string    `gorm:"type:varchar(36);index;not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Minute      int       `gorm:"not null"`
	Team        string    `gorm:"type:varchar(10);not null"`
	PlayerID    string    `gorm:"type:varchar(36)"`
	PlayerName  string    `gorm:"type:varchar(100)"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for MatchEventModel.
func (MatchEventModel) TableName() string {
	return "match_events"
}

// ToDomain converts MatchEventModel to domain MatchEvent.
func (m *MatchEventModel) ToDomain() *domain.MatchEvent {
	return &domain.MatchEvent{
		ID:          m.ID,
		MatchID:     m.MatchID,
		Type:        domain.EventType(m.Type),
		Minute:      m.Minute,
		Team:        m.Team,
		PlayerID:    m.PlayerID,
		PlayerName:  m.PlayerName,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// EventToModel converts domain MatchEvent to MatchEventModel.
func EventToModel(e *domain.MatchEvent) *MatchEventModel {
	return &MatchEventModel{
		ID:          e.ID,
		MatchID:     e.MatchID,
		Type:        string(e.Type),
		Minute:      e.Minute,
		Team:        e.Team,
		PlayerID:    e.PlayerID,
		PlayerName:  e.PlayerName,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// MatchStatisticsModel is the GORM model for the match_statistics table.
type MatchStatisticsModel struct {
	MatchID           string    `gorm:"type:varchar(36);primaryKey"`
	HomePossession    int       `gorm:"default:50"`
	AwayPossession    int       `gorm:"default:50"`
	HomeShots         int       `gorm:"default:0"`
	AwayShots         int       `gorm:"default:0"`
	HomeShotsOnTarget int       `gorm:"default:0"`
	AwayShotsOnTarget int       `gorm:"default:0"`
	HomeCorners       int       `gorm:"default:0"`
	AwayCorners       int       `gorm:"default:0"`
	HomeFouls         int       `gorm:"default:0"`
	AwayFouls         int       `gorm:"default:0"`
	HomeYellowCards   int       `gorm:"default:0"`
	AwayYellowCards   int       `gorm:"default:0"`
	HomeRedCards      int       `gorm:"default:0"`
	AwayRedCards      int       `gorm:"default:0"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for MatchStatisticsModel.
func (MatchStatisticsModel) TableName() string {
	return "match_statistics"
}

// ToDomain converts MatchStatisticsModel to domain MatchStatistics.
func (m *MatchStatisticsModel) ToDomain() domain.MatchStatistics {
	return domain.MatchStatistics{
		HomePossession:    m.HomePossession,
		AwayPossession:    m.AwayPossession,
		HomeShots:         m.HomeShots,
		AwayShots:         m.AwayShots,
		HomeShotsOnTarget: m.HomeShotsOnTarget,
		AwayShotsOnTarget: m.AwayShotsOnTarget,
		HomeCorners:       m.HomeCorners,
		AwayCorners:       m.AwayCorners,
		HomeFouls:         m.HomeFouls,
		AwayFouls:         m.AwayFouls,
		HomeYellowCards:   m.HomeYellowCards,
		AwayYellowCards:   m.AwayYellowCards,
		HomeRedCards:      m.HomeRedCards,
		AwayRedCards:      m.AwayRedCards,
	}
}

// StatisticsToModel converts domain MatchStatistics to MatchStatisticsModel.
func StatisticsToModel(matchID string, s domain.MatchStatistics) *MatchStatisticsModel {
	return &MatchStatisticsModel{
		MatchID:           matchID,
		HomePossession:    s.HomePossession,
		AwayPossession:    s.AwayPossession,
		HomeShots:         s.HomeShots,
		AwayShots:         s.AwayShots,
		HomeShotsOnTarget: s.HomeShotsOnTarget,
		AwayShotsOnTarget: s.AwayShotsOnTarget,
		HomeCorners:       s.HomeCorners,
		AwayCorners:       s.AwayCorners,
		HomeFouls:         s.HomeFouls,
		AwayFouls:         s.AwayFouls,
		HomeYellowCards:   s.HomeYellowCards,
		AwayYellowCards:   s.AwayYellowCards,
		HomeRedCards:      s.HomeRedCards,
		AwayRedCards:      s.AwayRedCards,
	}
}
