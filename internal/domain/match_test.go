package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampIsRFC3339UTC(t *testing.T) {
	req := require.New(t)

	ts := Timestamp()
	parsed, err := time.Parse(time.RFC3339, ts)
	req.NoError(err)
	req.Equal(time.UTC, parsed.Location())
}

func TestNewMatchStatisticsStartsEven(t *testing.T) {
	req := require.New(t)

	stats := NewMatchStatistics()
	req.Equal(50, stats.HomePossession)
	req.Equal(50, stats.AwayPossession)
	req.Zero(stats.HomeShots)
	req.Zero(stats.AwayRedCards)
}

func TestFormatStatisticsShape(t *testing.T) {
	req := require.New(t)

	stats := MatchStatistics{
		HomePossession:  55,
		AwayPossession:  45,
		HomeShots:       8,
		AwayShots:       3,
		HomeYellowCards: 1,
		AwayRedCards:    1,
	}

	data := FormatStatistics("m1", stats)
	raw, err := json.Marshal(data)
	req.NoError(err)

	var decoded map[string]interface{}
	req.NoError(json.Unmarshal(raw, &decoded))
	req.Equal("m1", decoded["matchId"])

	body := decoded["statistics"].(map[string]interface{})
	possession := body["possession"].(map[string]interface{})
	req.Equal(float64(55), possession["home"])
	req.Equal(float64(45), possession["away"])

	cards := body["cards"].(map[string]interface{})
	yellow := cards["yellow"].(map[string]interface{})
	req.Equal(float64(1), yellow["home"])
	red := cards["red"].(map[string]interface{})
	req.Equal(float64(1), red["away"])
}

func TestErrorMessageFrame(t *testing.T) {
	req := require.New(t)

	raw, err := json.Marshal(NewErrorMessage("boom"))
	req.NoError(err)

	var frame map[string]interface{}
	req.NoError(json.Unmarshal(raw, &frame))
	req.Equal("error", frame["type"])
	req.Equal("boom", frame["message"])
	req.NotEmpty(frame["timestamp"])
}
