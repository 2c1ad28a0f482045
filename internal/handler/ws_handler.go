package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades HTTP requests and hands connections to the hub.
type WSHandler struct {
	hub    *hub.Hub
	router *Router
	wsCfg  config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, router *Router, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:    h,
		router: router,
		wsCfg:  wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	client.SendMessage(&domain.ConnectedMessage{
		Type:      domain.MsgTypeConnected,
		ClientID:  client.ID,
		Timestamp: domain.Timestamp(),
	})

	go client.WritePump()
	go client.ReadPump(h.router.Dispatch)
}
