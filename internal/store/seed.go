package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// Fixed team IDs so restarts reuse the same rows instead of piling up
// duplicate teams.
var seedTeams = []TeamModel{
	{ID: "11111111-1111-1111-1111-111111111111", Name: "Arsenal", Stadium: "Emirates Stadium"},
	{ID: "22222222-2222-2222-2222-222222222222", Name: "Chelsea", Stadium: "Stamford Bridge"},
	{ID: "33333333-3333-3333-3333-333333333333", Name: "Liverpool", Stadium: "Anfield"},
	{ID: "44444444-4444-4444-4444-444444444444", Name: "Manchester City", Stadium: "Etihad Stadium"},
	{ID: "55555555-5555-5555-5555-555555555555", Name: "Manchester United", Stadium: "Old Trafford"},
	{ID: "66666666-6666-6666-6666-666666666666", Name: "Tottenham Hotspur", Stadium: "Tottenham Hotspur Stadium"},
	{ID: "77777777-7777-7777-7777-777777777777", Name: "Newcastle United", Stadium: "St James' Park"},
	{ID: "88888888-8888-8888-8888-888888888888", Name: "Aston Villa", Stadium: "Villa Park"},
	{ID: "99999999-9999-9999-9999-999999999999", Name: "West Ham United", Stadium: "London Stadium"},
	{ID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", Name: "Brighton", Stadium: "Amex Stadium"},
}

// DemoTeamPairs are the fixtures the simulator rotates through.
var DemoTeamPairs = [][2]string{
	{"11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"},
	{"33333333-3333-3333-3333-333333333333", "44444444-4444-4444-4444-444444444444"},
	{"55555555-5555-5555-5555-555555555555", "66666666-6666-6666-6666-666666666666"},
	{"77777777-7777-7777-7777-777777777777", "88888888-8888-8888-8888-888888888888"},
	{"99999999-9999-9999-9999-999999999999", "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"},
}

var firstNames = []string{
	"James", "Oliver", "Harry", "Jack", "George", "Marcus", "Declan",
	"Bukayo", "Phil", "Cole", "Trent", "Jordan", "Reece", "Aaron",
	"Kieran", "Callum", "Mason", "Eddie",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Taylor", "Davies",
	"Wilson", "Evans", "Thomas", "Roberts", "Walker", "Wright",
	"Robinson", "Thompson", "White", "Hughes", "Edwards", "Green",
}

// positionFor assigns squad positions by roster slot.
func positionFor(index int) string {
	switch {
	case index < 2:
		return "GK"
	case index < 8:
		return "DF"
	case index < 14:
		return "MF"
	default:
		return "FW"
	}
}

// Seed populates teams and their rosters. Teams use fixed IDs and are
// upserted; players are only created when a team has no roster yet.
func Seed(ctx context.Context, db *gorm.DB) error {
	l := log.Ctx(ctx)

	for _, team := range seedTeams {
		if err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(&team).Error; err != nil {
			return fmt.Errorf("failed to seed team %s: %w", team.Name, err)
		}

		var count int64
		if err := db.WithContext(ctx).Model(&PlayerModel{}).
			Where("team_id = ?", team.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count players for %s: %w", team.Name, err)
		}
		if count > 0 {
			continue
		}

		players := make([]PlayerModel, 0, len(firstNames))
		for i := range firstNames {
			players = append(players, PlayerModel{
				ID:       uuid.New().String(),
				TeamID:   team.ID,
				Name:     firstNames[i] + " " + lastNames[(i+3)%len(lastNames)],
				Position: positionFor(i),
				Number:   i + 1,
			})
		}
		if err := db.WithContext(ctx).Create(&players).Error; err != nil {
			return fmt.Errorf("failed to seed players for %s: %w", team.Name, err)
		}
	}

	l.Info().Int("teams", len(seedTeams)).Msg("seed data ready")
	return nil
}
