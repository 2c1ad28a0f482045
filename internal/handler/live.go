package handler

import (
	"encoding/json"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
)

// RegisterLiveHandlers wires the match subscription frames onto the
// router.
func RegisterLiveHandlers(r *Router) {
	r.Handle(domain.MsgTypeSubscribe, handleSubscribe)
	r.Handle(domain.MsgTypeUnsubscribe, handleUnsubscribe)
	r.Handle(domain.MsgTypePing, handlePing)
}

func handleSubscribe(c *hub.Client, raw []byte) {
	var msg domain.SubscribeMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.MatchID == "" {
		c.SendMessage(domain.NewErrorMessage("Match ID is required for subscription"))
		return
	}

	c.Hub.Subscribe(c, msg.MatchID)
	c.SendMessage(&domain.SubscriptionAck{
		Type:      domain.MsgTypeSubscribed,
		MatchID:   msg.MatchID,
		Timestamp: domain.Timestamp(),
	})
}

func handleUnsubscribe(c *hub.Client, raw []byte) {
	var msg domain.SubscribeMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.MatchID == "" {
		c.SendMessage(domain.NewErrorMessage("Match ID is required for subscription"))
		return
	}

	c.Hub.Unsubscribe(c, msg.MatchID)
	c.SendMessage(&domain.SubscriptionAck{
		Type:      domain.MsgTypeUnsubscribed,
		MatchID:   msg.MatchID,
		Timestamp: domain.Timestamp(),
	})
}

func handlePing(c *hub.Client, raw []byte) {
	c.SendMessage(&domain.PongMessage{
		Type:      domain.MsgTypePong,
		Timestamp: domain.Timestamp(),
	})
}
