package handler

import (
	"encoding/json"
	"fmt"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// MessageHandler processes one inbound frame for a client.
type MessageHandler func(c *hub.Client, raw []byte)

// Router dispatches inbound WebSocket frames by their type field.
type Router struct {
	handlers map[string]MessageHandler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]MessageHandler)}
}

// Handle registers a handler for a message type. A later registration
// for the same type replaces the earlier one.
func (r *Router) Handle(msgType string, handler MessageHandler) {
	r.handlers[msgType] = handler
}

// Dispatch decodes the frame envelope and routes it. Malformed frames
// and unknown types are answered with an error frame instead of
// closing the connection.
func (r *Router) Dispatch(c *hub.Client, raw []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(raw, &base); err != nil || base.Type == "" {
		c.SendMessage(domain.NewErrorMessage("Invalid message format"))
		return
	}

	handler, ok := r.handlers[base.Type]
	if !ok {
		log.L().Debug().Str(log.FieldClientID, c.ID).Str("msg_type", base.Type).Msg("unknown message type")
		c.SendMessage(domain.NewErrorMessage(fmt.Sprintf("Unknown message type: %s", base.Type)))
		return
	}

	handler(c, raw)
}
