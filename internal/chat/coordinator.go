package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/handler"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

type member struct {
	username string
	clients  map[string]*hub.Client
}

type chatRoom struct {
	members  map[string]*member // userID -> member
	messages []domain.ChatMessage
	typing   map[string]string // userID -> username
}

// Coordinator owns the per-match chat rooms: membership, history,
// typing indicators and message rate limiting.
type Coordinator struct {
	cfg      config.ChatConfig
	limiter  Limiter           // distributed limiter, may be nil
	fallback *LocalLimiter     // used when limiter is nil or errors

	mu    sync.Mutex
	rooms map[string]*chatRoom

	timersMu sync.Mutex
	timers   map[string]*time.Timer // "userID-matchID" -> typing timer
}

func NewCoordinator(cfg config.ChatConfig, limiter Limiter) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		limiter:  limiter,
		fallback: NewLocalLimiter(cfg.RateLimit),
		rooms:    make(map[string]*chatRoom),
		timers:   make(map[string]*time.Timer),
	}
}

// RegisterHandlers wires the chat frames onto the router.
func (co *Coordinator) RegisterHandlers(r *handler.Router) {
	r.Handle(domain.MsgTypeChatJoin, co.handleJoin)
	r.Handle(domain.MsgTypeChatLeave, co.handleLeave)
	r.Handle(domain.MsgTypeChatMessage, co.handleMessage)
	r.Handle(domain.MsgTypeTypingStart, co.handleTypingStart)
	r.Handle(domain.MsgTypeTypingStop, co.handleTypingStop)
}

func (co *Coordinator) handleJoin(c *hub.Client, raw []byte) {
	var msg domain.ChatJoinMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.MatchID == "" || msg.UserID == "" {
		c.SendMessage(domain.NewErrorMessage("Match ID and User ID are required"))
		return
	}

	username := msg.Username
	if username == "" {
		short := msg.UserID
		if len(short) > 4 {
			short = short[:4]
		}
		username = "User" + short
	}

	c.BindUser(msg.UserID, username)

	co.mu.Lock()
	room := co.room(msg.MatchID)

	m, ok := room.members[msg.UserID]
	if !ok {
		m = &member{username: username, clients: make(map[string]*hub.Client)}
		room.members[msg.UserID] = m
	}
	m.clients[c.ID] = c
	firstClient := len(m.clients) == 1

	userCount := len(room.members)
	recent := room.messages
	if len(recent) > co.cfg.RecentLimit {
		recent = recent[len(recent)-co.cfg.RecentLimit:]
	}
	recentCopy := append([]domain.ChatMessage(nil), recent...)

	announceName := m.username
	var targets []*hub.Client
	if firstClient {
		targets = room.clientsExcept(c.ID)
	}
	co.mu.Unlock()

	c.SendMessage(&domain.ChatJoinedMessage{
		Type:           domain.MsgTypeChatJoined,
		MatchID:        msg.MatchID,
		UserCount:      userCount,
		RecentMessages: recentCopy,
		Timestamp:      domain.Timestamp(),
	})

	// Multiple tabs of the same user only announce once.
	if firstClient {
		send(targets, &domain.UserPresenceMessage{
			Type:      domain.MsgTypeUserJoined,
			MatchID:   msg.MatchID,
			UserID:    msg.UserID,
			Username:  announceName,
			UserCount: userCount,
			Timestamp: domain.Timestamp(),
		})
	}

	log.L().Info().Str(log.FieldUserID, msg.UserID).Str(log.FieldMatchID, msg.MatchID).Msg("user joined chat room")
}

func (co *Coordinator) handleLeave(c *hub.Client, raw []byte) {
	var msg domain.ChatLeaveMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.MatchID == "" {
		return
	}

	userID, _ := c.User()
	if userID == "" {
		return
	}

	if !co.removeClientFromRoom(msg.MatchID, userID, c.ID) {
		return
	}

	c.SendMessage(&domain.ChatLeftMessage{
		Type:      domain.MsgTypeChatLeft,
		MatchID:   msg.MatchID,
		Timestamp: domain.Timestamp(),
	})

	log.L().Info().Str(log.FieldUserID, userID).Str(log.FieldMatchID, msg.MatchID).Msg("user left chat room")
}

func (co *Coordinator) handleMessage(c *hub.Client, raw []byte) {
	var msg domain.ChatPostMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.SendMessage(domain.NewErrorMessage("Invalid message format"))
		return
	}

	userID, _ := c.User()
	if userID == "" {
		c.SendMessage(domain.NewErrorMessage("You must join the chat room first"))
		return
	}

	if errMsg := co.validateMessage(msg.Content, userID); errMsg != "" {
		c.SendMessage(domain.NewErrorMessage(errMsg))
		return
	}

	co.mu.Lock()
	room, ok := co.rooms[msg.MatchID]
	var m *member
	if ok {
		m = room.members[userID]
	}
	if m == nil {
		co.mu.Unlock()
		c.SendMessage(domain.NewErrorMessage("You are not in this chat room"))
		return
	}

	trimmed := strings.TrimSpace(msg.Content)
	chatMessage := domain.ChatMessage{
		ID:        uuid.New().String(),
		MatchID:   msg.MatchID,
		UserID:    userID,
		Username:  m.username,
		Content:   trimmed,
		CreatedAt: time.Now().UTC(),
	}

	room.messages = append(room.messages, chatMessage)
	if len(room.messages) > co.cfg.HistoryLimit {
		room.messages = room.messages[len(room.messages)-co.cfg.HistoryLimit:]
	}

	// Sending a message ends the sender's typing state.
	wasTyping := false
	typingUsername := ""
	if name, ok := room.typing[userID]; ok {
		wasTyping = true
		typingUsername = name
		delete(room.typing, userID)
	}

	targets := room.clientsExcept("")
	co.mu.Unlock()

	co.cancelTypingTimer(userID, msg.MatchID)

	if wasTyping {
		send(targets, &domain.TypingIndicatorMessage{
			Type:      domain.MsgTypeTypingIndicator,
			MatchID:   msg.MatchID,
			UserID:    userID,
			Username:  typingUsername,
			IsTyping:  false,
			Timestamp: domain.Timestamp(),
		})
	}

	send(targets, &domain.ChatBroadcastMessage{
		Type:      domain.MsgTypeChatMessage,
		Data:      chatMessage,
		Timestamp: domain.Timestamp(),
	})

	log.L().Debug().Str(log.FieldUserID, userID).Str(log.FieldMatchID, msg.MatchID).Msg("chat message broadcast")
}

func (co *Coordinator) handleTypingStart(c *hub.Client, raw []byte) {
	var msg domain.TypingMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.MatchID == "" {
		return
	}

	userID, _ := c.User()
	if userID == "" {
		return
	}

	co.mu.Lock()
	room, ok := co.rooms[msg.MatchID]
	var m *member
	if ok {
		m = room.members[userID]
	}
	if m == nil {
		co.mu.Unlock()
		return
	}

	room.typing[userID] = m.username
	targets := room.clientsExcept(c.ID)
	username := m.username
	co.mu.Unlock()

	send(targets, &domain.TypingIndicatorMessage{
		Type:      domain.MsgTypeTypingIndicator,
		MatchID:   msg.MatchID,
		UserID:    userID,
		Username:  username,
		IsTyping:  true,
		Timestamp: domain.Timestamp(),
	})

	co.armTypingTimer(userID, msg.MatchID)
}

func (co *Coordinator) handleTypingStop(c *hub.Client, raw []byte) {
	var msg domain.TypingMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.MatchID == "" {
		return
	}

	userID, _ := c.User()
	if userID == "" {
		return
	}

	co.clearTyping(userID, msg.MatchID)
}

// HandleDisconnect removes a dropped connection from every room it
// joined, announcing user_left where it was the user's last tab.
func (co *Coordinator) HandleDisconnect(c *hub.Client) {
	userID, _ := c.User()
	if userID == "" {
		return
	}

	co.mu.Lock()
	matchIDs := make([]string, 0, len(co.rooms))
	for matchID, room := range co.rooms {
		if m, ok := room.members[userID]; ok {
			if _, ok := m.clients[c.ID]; ok {
				matchIDs = append(matchIDs, matchID)
			}
		}
	}
	co.mu.Unlock()

	for _, matchID := range matchIDs {
		co.removeClientFromRoom(matchID, userID, c.ID)
	}
}

// RoomStats reports the current size of a chat room.
func (co *Coordinator) RoomStats(matchID string) (userCount, messageCount, typingCount int, ok bool) {
	co.mu.Lock()
	defer co.mu.Unlock()

	room, exists := co.rooms[matchID]
	if !exists {
		return 0, 0, 0, false
	}
	return len(room.members), len(room.messages), len(room.typing), true
}

// removeClientFromRoom detaches one connection and reports whether the
// room and membership existed. The user's last connection leaving
// announces user_left and clears typing state.
func (co *Coordinator) removeClientFromRoom(matchID, userID, clientID string) bool {
	co.mu.Lock()
	room, ok := co.rooms[matchID]
	if !ok {
		co.mu.Unlock()
		return false
	}
	m, ok := room.members[userID]
	if !ok {
		co.mu.Unlock()
		return false
	}

	delete(m.clients, clientID)
	lastClient := len(m.clients) == 0

	var targets []*hub.Client
	username := m.username
	userCount := len(room.members)
	if lastClient {
		delete(room.members, userID)
		delete(room.typing, userID)
		userCount = len(room.members)
		targets = room.clientsExcept("")

		// Rooms with history are kept so rejoining users still get
		// recent messages.
		if len(room.members) == 0 && len(room.messages) == 0 && len(room.typing) == 0 {
			delete(co.rooms, matchID)
		}
	}
	co.mu.Unlock()

	if lastClient {
		co.cancelTypingTimer(userID, matchID)
		send(targets, &domain.UserPresenceMessage{
			Type:      domain.MsgTypeUserLeft,
			MatchID:   matchID,
			UserID:    userID,
			Username:  username,
			UserCount: userCount,
			Timestamp: domain.Timestamp(),
		})
	}

	return true
}

func (co *Coordinator) validateMessage(content, userID string) string {
	if strings.TrimSpace(content) == "" {
		return "Message cannot be empty"
	}
	if len(content) > co.cfg.MaxMessageLength {
		return fmt.Sprintf("Message too long (max %d characters)", co.cfg.MaxMessageLength)
	}

	allowed, err := co.allow(userID)
	if err != nil {
		log.L().Warn().Err(err).Str(log.FieldUserID, userID).Msg("rate limiter unavailable")
	}
	if !allowed {
		return "You are sending messages too quickly. Please slow down."
	}
	return ""
}

// allow consults the distributed limiter first and falls back to the
// local one when it is absent or failing.
func (co *Coordinator) allow(userID string) (bool, error) {
	ctx := context.Background()
	if co.limiter != nil {
		allowed, err := co.limiter.Allow(ctx, userID)
		if err == nil {
			return allowed, nil
		}
		fallbackAllowed, _ := co.fallback.Allow(ctx, userID)
		return fallbackAllowed, err
	}
	return co.fallback.Allow(ctx, userID)
}

// clearTyping removes the typing flag and announces it to the whole
// room, including the user's own tabs.
func (co *Coordinator) clearTyping(userID, matchID string) {
	co.mu.Lock()
	room, ok := co.rooms[matchID]
	if !ok {
		co.mu.Unlock()
		return
	}
	m, ok := room.members[userID]
	if !ok {
		co.mu.Unlock()
		return
	}
	delete(room.typing, userID)
	targets := room.clientsExcept("")
	username := m.username
	co.mu.Unlock()

	co.cancelTypingTimer(userID, matchID)

	send(targets, &domain.TypingIndicatorMessage{
		Type:      domain.MsgTypeTypingIndicator,
		MatchID:   matchID,
		UserID:    userID,
		Username:  username,
		IsTyping:  false,
		Timestamp: domain.Timestamp(),
	})
}

// armTypingTimer starts the auto-clear countdown, replacing any timer
// already running for this user and match.
func (co *Coordinator) armTypingTimer(userID, matchID string) {
	key := timerKey(userID, matchID)

	co.timersMu.Lock()
	if timer, ok := co.timers[key]; ok {
		timer.Stop()
	}
	co.timers[key] = time.AfterFunc(co.cfg.TypingTimeout, func() {
		co.timersMu.Lock()
		delete(co.timers, key)
		co.timersMu.Unlock()
		co.clearTyping(userID, matchID)
	})
	co.timersMu.Unlock()
}

func (co *Coordinator) cancelTypingTimer(userID, matchID string) {
	key := timerKey(userID, matchID)

	co.timersMu.Lock()
	if timer, ok := co.timers[key]; ok {
		timer.Stop()
		delete(co.timers, key)
	}
	co.timersMu.Unlock()
}

func timerKey(userID, matchID string) string {
	return userID + "-" + matchID
}

func (r *chatRoom) clientsExcept(excludeClientID string) []*hub.Client {
	var clients []*hub.Client
	for _, m := range r.members {
		for clientID, client := range m.clients {
			if clientID == excludeClientID {
				continue
			}
			clients = append(clients, client)
		}
	}
	return clients
}

func send(clients []*hub.Client, message interface{}) {
	for _, client := range clients {
		client.SendMessage(message)
	}
}

func (co *Coordinator) room(matchID string) *chatRoom {
	room, ok := co.rooms[matchID]
	if !ok {
		room = &chatRoom{
			members: make(map[string]*member),
			typing:  make(map[string]string),
		}
		co.rooms[matchID] = room
	}
	return room
}
