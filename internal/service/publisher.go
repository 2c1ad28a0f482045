package service

import (
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/stream"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// EventPublisher fans simulation output to WebSocket subscribers and
// the SSE replay buffer. Both receive the same frames.
type EventPublisher struct {
	hub    *hub.Hub
	buffer *stream.Buffer
}

func NewEventPublisher(h *hub.Hub, buffer *stream.Buffer) *EventPublisher {
	return &EventPublisher{hub: h, buffer: buffer}
}

func (p *EventPublisher) PublishMatchUpdate(matchID, updateType string, data domain.MatchUpdateData) {
	p.publish(matchID, &domain.MatchUpdateMessage{
		Type:       domain.MsgTypeMatchUpdate,
		UpdateType: updateType,
		Data:       data,
		Timestamp:  domain.Timestamp(),
	})
}

func (p *EventPublisher) PublishMatchEvent(matchID string, data domain.MatchEventData) {
	p.publish(matchID, &domain.MatchEventMessage{
		Type:      domain.MsgTypeMatchEvent,
		Data:      data,
		Timestamp: domain.Timestamp(),
	})
}

func (p *EventPublisher) PublishStatsUpdate(matchID string, data domain.StatisticsData) {
	p.publish(matchID, &domain.StatsUpdateMessage{
		Type:      domain.MsgTypeStatsUpdate,
		Data:      data,
		Timestamp: domain.Timestamp(),
	})
}

func (p *EventPublisher) publish(matchID string, message interface{}) {
	if err := p.hub.BroadcastToMatch(matchID, message); err != nil {
		log.L().Warn().Err(err).Str(log.FieldMatchID, matchID).Msg("failed to broadcast frame")
	}
	if _, err := p.buffer.Append(matchID, message); err != nil {
		log.L().Warn().Err(err).Str(log.FieldMatchID, matchID).Msg("failed to buffer frame")
	}
}
