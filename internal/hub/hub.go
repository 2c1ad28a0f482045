package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

var errBroadcastQueueFull = errors.New("broadcast queue full")

// Hub tracks connected clients and their match subscriptions and fans
// frames out to match rooms.
type Hub struct {
	clients       map[string]*Client             // clientID -> client
	rooms         map[string]map[string]*Client  // matchID -> clientID -> client
	subscriptions map[string]map[string]struct{} // clientID -> set of matchIDs
	register      chan *Client
	unregister    chan *Client
	broadcast     chan *matchMessage
	onDisconnect  []func(*Client)
	mu            sync.RWMutex
}

type matchMessage struct {
	MatchID string
	Message []byte
	Exclude string // Client ID to exclude
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		rooms:         make(map[string]map[string]*Client),
		subscriptions: make(map[string]map[string]struct{}),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan *matchMessage, 256),
	}
}

// OnDisconnect registers a callback invoked after a client is removed
// from the registry. Callbacks run outside the hub lock. Register them
// before Run starts.
func (h *Hub) OnDisconnect(fn func(*Client)) {
	h.onDisconnect = append(h.onDisconnect, fn)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.ID]
			if ok {
				for matchID := range h.subscriptions[client.ID] {
					h.dropFromRoom(matchID, client.ID)
				}
				delete(h.subscriptions, client.ID)
				delete(h.clients, client.ID)
				client.closeSend()
			}
			h.mu.Unlock()

			if ok {
				for _, fn := range h.onDisconnect {
					fn(client)
				}
				log.L().Debug().Str(log.FieldClientID, client.ID).Msg("client unregistered")
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			if roomClients, ok := h.rooms[msg.MatchID]; ok {
				for clientID, client := range roomClients {
					if clientID == msg.Exclude {
						continue
					}
					select {
					case client.Send <- msg.Message:
					default:
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribe adds a client to a match room. Subscribing twice to the
// same match is a no-op.
func (h *Hub) Subscribe(client *Client, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[matchID]; !ok {
		h.rooms[matchID] = make(map[string]*Client)
	}
	h.rooms[matchID][client.ID] = client

	if _, ok := h.subscriptions[client.ID]; !ok {
		h.subscriptions[client.ID] = make(map[string]struct{})
	}
	h.subscriptions[client.ID][matchID] = struct{}{}

	log.L().Info().Str(log.FieldClientID, client.ID).Str(log.FieldMatchID, matchID).Msg("client subscribed to match")
}

// Unsubscribe removes a client from a match room. Unsubscribing from a
// match the client never joined is a no-op.
func (h *Hub) Unsubscribe(client *Client, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropFromRoom(matchID, client.ID)
	if subs, ok := h.subscriptions[client.ID]; ok {
		delete(subs, matchID)
		if len(subs) == 0 {
			delete(h.subscriptions, client.ID)
		}
	}

	log.L().Info().Str(log.FieldClientID, client.ID).Str(log.FieldMatchID, matchID).Msg("client unsubscribed from match")
}

// IsSubscribed reports whether a client is in a match room.
func (h *Hub) IsSubscribed(clientID, matchID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscriptions[clientID]
	if !ok {
		return false
	}
	_, ok = subs[matchID]
	return ok
}

// RoomSize returns the number of clients subscribed to a match.
func (h *Hub) RoomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[matchID])
}

// BroadcastToMatch sends a frame to every client subscribed to a match.
// A match with no subscribers is a no-op.
func (h *Hub) BroadcastToMatch(matchID string, message interface{}) error {
	return h.broadcastToMatch(matchID, message, "")
}

// BroadcastToMatchExcept sends a frame to every subscriber of a match
// except the named client.
func (h *Hub) BroadcastToMatchExcept(matchID string, message interface{}, exclude string) error {
	return h.broadcastToMatch(matchID, message, exclude)
}

func (h *Hub) broadcastToMatch(matchID string, message interface{}, exclude string) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	// Never block the publisher; a stalled hub drops the frame.
	select {
	case h.broadcast <- &matchMessage{
		MatchID: matchID,
		Message: data,
		Exclude: exclude,
	}:
		return nil
	default:
		return errBroadcastQueueFull
	}
}

// dropFromRoom removes a client from a room and deletes the room when
// it empties. Caller must hold mu.
func (h *Hub) dropFromRoom(matchID, clientID string) {
	if roomClients, ok := h.rooms[matchID]; ok {
		delete(roomClients, clientID)
		if len(roomClients) == 0 {
			delete(h.rooms, matchID)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
