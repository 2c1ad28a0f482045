package simulator

import (
	"fmt"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
)

type eventProbability struct {
	eventType   domain.EventType
	probability float64
}

// eventTable returns the weighted event distribution for the given
// minute. Substitutions only happen after the hour mark. The weights
// deliberately sum to less than 1: the remainder is a quiet spell with
// no event at all.
func eventTable(minute int) []eventProbability {
	subProbability := 0.0
	if minute > 60 {
		subProbability = 0.02
	}
	return []eventProbability{
		{domain.EventShot, 0.37},
		{domain.EventFoul, 0.30},
		{domain.EventCorner, 0.14},
		{domain.EventYellowCard, 0.08},
		{domain.EventGoal, 0.05},
		{domain.EventRedCard, 0.01},
		{domain.EventSubstitution, subProbability},
	}
}

// pickEventType walks the cumulative distribution with a uniform draw
// in [0,1). An empty return means no event this time.
func pickEventType(u float64, minute int) (domain.EventType, bool) {
	cumulative := 0.0
	for _, entry := range eventTable(minute) {
		cumulative += entry.probability
		if u <= cumulative {
			return entry.eventType, true
		}
	}
	return "", false
}

func eventDescription(eventType domain.EventType, playerName, teamName string) string {
	switch eventType {
	case domain.EventGoal:
		return fmt.Sprintf("GOAL! %s scores for %s!", playerName, teamName)
	case domain.EventYellowCard:
		return fmt.Sprintf("Yellow card for %s", playerName)
	case domain.EventRedCard:
		return fmt.Sprintf("Red card for %s", playerName)
	case domain.EventShot:
		return fmt.Sprintf("Shot by %s", playerName)
	case domain.EventFoul:
		return fmt.Sprintf("Foul committed by %s", playerName)
	case domain.EventCorner:
		return fmt.Sprintf("Corner kick for %s", teamName)
	case domain.EventSubstitution:
		return fmt.Sprintf("Substitution for %s", teamName)
	default:
		return fmt.Sprintf("%s - %s", eventType, playerName)
	}
}
