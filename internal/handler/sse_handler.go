package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/store"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/stream"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/response"
)

// SSEHandler streams buffered match frames over Server-Sent Events with
// Last-Event-ID replay.
type SSEHandler struct {
	buffer *stream.Buffer
	store  store.MatchStore
	cfg    config.SSEConfig
}

func NewSSEHandler(buffer *stream.Buffer, st store.MatchStore, cfg config.SSEConfig) *SSEHandler {
	return &SSEHandler{
		buffer: buffer,
		store:  st,
		cfg:    cfg,
	}
}

func (h *SSEHandler) HandleStream(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	matchID := c.Param("id")

	if _, err := h.store.FindMatch(ctx, matchID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "match not found")
			return
		}
		response.InternalError(c, "failed to load match")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.InternalError(c, "streaming unsupported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "retry: %d\n\n", h.cfg.RetryMillis)

	// A reconnecting client sends the last sequence it processed;
	// anything it missed within the retention window is replayed.
	lastSeen := int64(-1)
	if header := c.GetHeader("Last-Event-ID"); header != "" {
		if parsed, err := strconv.ParseInt(header, 10, 64); err == nil && parsed >= 0 {
			lastSeen = parsed
		}
	}

	handle := h.buffer.Open(matchID, lastSeen)
	defer h.buffer.Close(matchID, handle)

	connected, _ := json.Marshal(gin.H{
		"type":      domain.MsgTypeConnected,
		"matchId":   matchID,
		"timestamp": domain.Timestamp(),
	})
	fmt.Fprintf(c.Writer, "data: %s\n\n", connected)
	flusher.Flush()

	l.Info().Str(log.FieldMatchID, matchID).Int64("last_seen", lastSeen).Msg("sse stream opened")

	heartbeat := time.NewTicker(h.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Debug().Str(log.FieldMatchID, matchID).Msg("sse stream closed")
			return

		case entry, ok := <-handle.Events():
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "id: %d\n", entry.Sequence)
			fmt.Fprintf(c.Writer, "data: %s\n\n", entry.Data)
			flusher.Flush()

		case <-heartbeat.C:
			// No id line so reconnects never resume from a heartbeat.
			data, _ := json.Marshal(&domain.HeartbeatMessage{
				Type:      domain.MsgTypeHeartbeat,
				Timestamp: domain.Timestamp(),
			})
			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
