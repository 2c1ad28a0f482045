package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
)

func TestMatchModelToDomain(t *testing.T) {
	req := require.New(t)

	now := time.Now()
	model := MatchModel{
		ID:          "m1",
		HomeTeamID:  "t1",
		AwayTeamID:  "t2",
		HomeScore:   2,
		AwayScore:   1,
		Minute:      67,
		Status:      "SECOND_HALF",
		Competition: "Premier League",
		CreatedAt:   now,
	}

	match := model.ToDomain()
	req.Equal("m1", match.ID)
	req.Equal(domain.StatusSecondHalf, match.Status)
	req.Equal(2, match.HomeScore)
	req.Equal(67, match.Minute)
	req.Equal(now, match.CreatedAt)
}

func TestEventModelRoundTrip(t *testing.T) {
	req := require.New(t)

	event := &domain.MatchEvent{
		ID:          "e1",
		MatchID:     "m1",
		Type:        domain.EventGoal,
		Minute:      23,
		Team:        domain.SideHome,
		PlayerID:    "p1",
		PlayerName:  "Player One",
		Description: "GOAL! Player One scores!",
	}

	back := EventToModel(event).ToDomain()
	req.Equal(event.ID, back.ID)
	req.Equal(event.Type, back.Type)
	req.Equal(event.Team, back.Team)
	req.Equal(event.PlayerName, back.PlayerName)
}

func TestStatisticsModelCarriesAllCounters(t *testing.T) {
	req := require.New(t)

	stats := domain.MatchStatistics{
		HomePossession:    60,
		AwayPossession:    40,
		HomeShots:         7,
		AwayShotsOnTarget: 3,
		HomeYellowCards:   2,
		AwayRedCards:      1,
	}

	model := StatisticsToModel("m1", stats)
	req.Equal("m1", model.MatchID)

	back := model.ToDomain()
	req.Equal(stats, back)
}

func TestSeedRosterPositions(t *testing.T) {
	req := require.New(t)

	counts := map[string]int{}
	for i := 0; i < len(firstNames); i++ {
		counts[positionFor(i)]++
	}
	req.Equal(2, counts["GK"])
	req.Equal(6, counts["DF"])
	req.Equal(6, counts["MF"])
	req.Equal(4, counts["FW"])
}

func TestDemoTeamPairsReferenceSeedTeams(t *testing.T) {
	req := require.New(t)

	seeded := map[string]bool{}
	for _, team := range seedTeams {
		seeded[team.ID] = true
	}
	for _, pair := range DemoTeamPairs {
		req.True(seeded[pair[0]], "home team %s not seeded", pair[0])
		req.True(seeded[pair[1]], "away team %s not seeded", pair[1])
		req.NotEqual(pair[0], pair[1])
	}
}
