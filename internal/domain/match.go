package domain

import "time"

// MatchStatus is the lifecycle state of a simulated match.
type MatchStatus string

const (
	StatusNotStarted MatchStatus = "NOT_STARTED"
	StatusFirstHalf  MatchStatus = "FIRST_HALF"
	StatusHalfTime   MatchStatus = "HALF_TIME"
	StatusSecondHalf MatchStatus = "SECOND_HALF"
	StatusFullTime   MatchStatus = "FULL_TIME"
)

// EventType classifies in-match events.
type EventType string

const (
	EventShot         EventType = "SHOT"
	EventFoul         EventType = "FOUL"
	EventCorner       EventType = "CORNER"
	EventYellowCard   EventType = "YELLOW_CARD"
	EventGoal         EventType = "GOAL"
	EventRedCard      EventType = "RED_CARD"
	EventSubstitution EventType = "SUBSTITUTION"
)

// Side designations within a match.
const (
	SideHome = "home"
	SideAway = "away"
)

type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Stadium string `json:"stadium"`
}

type Player struct {
	ID       string `json:"id"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   int    `json:"number"`
}

type Match struct {
	ID          string
	HomeTeamID  string
	AwayTeamID  string
	HomeTeam    *Team
	AwayTeam    *Team
	HomeScore   int
	AwayScore   int
	Minute      int
	Status      MatchStatus
	Competition string
	CreatedAt   time.Time
	Events      []MatchEvent
	Statistics  *MatchStatistics
}

type MatchEvent struct {
	ID          string
	MatchID     string
	Type        EventType
	Minute      int
	Team        string // home or away
	PlayerID    string
	PlayerName  string
	Description string
	CreatedAt   time.Time
}

type MatchStatistics struct {
	HomePossession    int
	AwayPossession    int
	HomeShots         int
	AwayShots         int
	HomeShotsOnTarget int
	AwayShotsOnTarget int
	HomeCorners       int
	AwayCorners       int
	HomeFouls         int
	AwayFouls         int
	HomeYellowCards   int
	AwayYellowCards   int
	HomeRedCards      int
	AwayRedCards      int
}

// NewMatchStatistics returns the statistics every match starts with.
func NewMatchStatistics() MatchStatistics {
	return MatchStatistics{HomePossession: 50, AwayPossession: 50}
}

// Broadcast payload shapes.

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type MatchUpdateData struct {
	MatchID  string      `json:"matchId"`
	HomeTeam string      `json:"homeTeam"`
	AwayTeam string      `json:"awayTeam"`
	Score    Score       `json:"score"`
	Minute   int         `json:"minute"`
	Status   MatchStatus `json:"status"`
}

type EventInfo struct {
	Type        EventType `json:"type"`
	Minute      int       `json:"minute"`
	Team        string    `json:"team"`
	PlayerID    string    `json:"playerId"`
	PlayerName  string    `json:"playerName"`
	Description string    `json:"description"`
}

type MatchEventData struct {
	MatchID      string    `json:"matchId"`
	Event        EventInfo `json:"event"`
	CurrentScore Score     `json:"currentScore"`
}

type StatPair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type CardStats struct {
	Yellow StatPair `json:"yellow"`
	Red    StatPair `json:"red"`
}

type StatisticsBody struct {
	Possession    StatPair  `json:"possession"`
	Shots         StatPair  `json:"shots"`
	ShotsOnTarget StatPair  `json:"shotsOnTarget"`
	Corners       StatPair  `json:"corners"`
	Fouls         StatPair  `json:"fouls"`
	Cards         CardStats `json:"cards"`
}

type StatisticsData struct {
	MatchID    string         `json:"matchId"`
	Statistics StatisticsBody `json:"statistics"`
}

// FormatStatistics shapes raw statistics counters into the nested
// structure broadcast to clients.
func FormatStatistics(matchID string, s MatchStatistics) StatisticsData {
	return StatisticsData{
		MatchID: matchID,
		Statistics: StatisticsBody{
			Possession:    StatPair{Home: s.HomePossession, Away: s.AwayPossession},
			Shots:         StatPair{Home: s.HomeShots, Away: s.AwayShots},
			ShotsOnTarget: StatPair{Home: s.HomeShotsOnTarget, Away: s.AwayShotsOnTarget},
			Corners:       StatPair{Home: s.HomeCorners, Away: s.AwayCorners},
			Fouls:         StatPair{Home: s.HomeFouls, Away: s.AwayFouls},
			Cards: CardStats{
				Yellow: StatPair{Home: s.HomeYellowCards, Away: s.AwayYellowCards},
				Red:    StatPair{Home: s.HomeRedCards, Away: s.AwayRedCards},
			},
		},
	}
}
