package store

import (
	"context"
	"errors"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// MatchUpdate carries the mutable match columns written on each change.
type MatchUpdate struct {
	HomeScore int
	AwayScore int
	Minute    int
	Status    domain.MatchStatus
}

// MatchStore persists matches, events and statistics.
type MatchStore interface {
	ListMatches(ctx context.Context) ([]domain.Match, error)
	FindMatch(ctx context.Context, id string) (*domain.Match, error)
	CreateMatch(ctx context.Context, homeTeamID, awayTeamID, competition string) (*domain.Match, error)
	UpdateMatch(ctx context.Context, id string, update MatchUpdate) error
	AddEvent(ctx context.Context, event *domain.MatchEvent) error
	UpdateStatistics(ctx context.Context, matchID string, stats domain.MatchStatistics) error
	FindTeam(ctx context.Context, id string) (*domain.Team, error)
	FindPlayersByTeam(ctx context.Context, teamID string) ([]domain.Player, error)
}
