package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// Client is a single WebSocket connection tracked by the hub.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	mu       sync.RWMutex
	userID   string
	username string

	sendMu sync.Mutex
	closed bool

	config config.WebSocketConfig
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:     id,
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, cfg.SendBuffer),
		config: cfg,
	}
}

// BindUser records the chat identity for this connection. A later bind
// replaces the earlier one.
func (c *Client) BindUser(userID, username string) {
	c.mu.Lock()
	c.userID = userID
	c.username = username
	c.mu.Unlock()
}

// User returns the chat identity bound to this connection, if any.
func (c *Client) User() (userID, username string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.username
}

func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.L().Debug().Err(err).Str(log.FieldClientID, c.ID).Msg("websocket read error")
			}
			break
		}

		handler(c, message)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage marshals and queues a frame for this client. A full send
// buffer drops the frame rather than blocking the caller, and a closed
// client drops it silently.
func (c *Client) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return nil
	}

	select {
	case c.Send <- data:
	default:
	}
	return nil
}

// closeSend closes the send channel exactly once. Senders that raced
// past the hub's teardown see the closed flag instead of a panic.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
