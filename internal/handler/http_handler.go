package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/store"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/response"
)

// HTTPHandler serves the match REST endpoints.
type HTTPHandler struct {
	store store.MatchStore
}

func NewHTTPHandler(st store.MatchStore) *HTTPHandler {
	return &HTTPHandler{store: st}
}

// MatchSummary is the list-view shape of a match.
type MatchSummary struct {
	ID          string             `json:"id"`
	HomeTeam    *domain.Team       `json:"homeTeam"`
	AwayTeam    *domain.Team       `json:"awayTeam"`
	Score       domain.Score       `json:"score"`
	Minute      int                `json:"minute"`
	Status      domain.MatchStatus `json:"status"`
	Competition string             `json:"competition"`
}

// MatchDetail is the detail-view shape of a match.
type MatchDetail struct {
	MatchSummary
	Events     []EventView            `json:"events"`
	Statistics *domain.StatisticsBody `json:"statistics,omitempty"`
}

// EventView is the REST shape of a match event.
type EventView struct {
	ID          string           `json:"id"`
	Type        domain.EventType `json:"type"`
	Minute      int              `json:"minute"`
	Team        string           `json:"team"`
	PlayerID    string           `json:"playerId"`
	PlayerName  string           `json:"playerName"`
	Description string           `json:"description"`
}

// ListMatches handles GET /api/matches.
func (h *HTTPHandler) ListMatches(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	matches, err := h.store.ListMatches(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to list matches")
		response.InternalError(c, "failed to list matches")
		return
	}

	summaries := make([]MatchSummary, len(matches))
	for i := range matches {
		summaries[i] = summarize(&matches[i])
	}
	response.Success(c, summaries)
}

// GetMatch handles GET /api/matches/:id.
func (h *HTTPHandler) GetMatch(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	matchID := c.Param("id")

	match, err := h.store.FindMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "match not found")
			return
		}
		l.Error().Err(err).Str(log.FieldMatchID, matchID).Msg("failed to get match")
		response.InternalError(c, "failed to get match")
		return
	}

	detail := MatchDetail{
		MatchSummary: summarize(match),
		Events:       make([]EventView, len(match.Events)),
	}
	for i, e := range match.Events {
		detail.Events[i] = EventView{
			ID:          e.ID,
			Type:        e.Type,
			Minute:      e.Minute,
			Team:        e.Team,
			PlayerID:    e.PlayerID,
			PlayerName:  e.PlayerName,
			Description: e.Description,
		}
	}
	if match.Statistics != nil {
		body := domain.FormatStatistics(match.ID, *match.Statistics).Statistics
		detail.Statistics = &body
	}

	response.Success(c, detail)
}

func summarize(m *domain.Match) MatchSummary {
	return MatchSummary{
		ID:          m.ID,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		Score:       domain.Score{Home: m.HomeScore, Away: m.AwayScore},
		Minute:      m.Minute,
		Status:      m.Status,
		Competition: m.Competition,
	}
}
