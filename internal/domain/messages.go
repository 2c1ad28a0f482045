package domain

import "time"

// WebSocket message types from client.
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypePing        = "ping"
	MsgTypeChatJoin    = "chat_join"
	MsgTypeChatLeave   = "chat_leave"
	MsgTypeChatMessage = "chat_message"
	MsgTypeTypingStart = "typing_start"
	MsgTypeTypingStop  = "typing_stop"
)

// WebSocket message types to client.
const (
	MsgTypeConnected       = "connected"
	MsgTypeSubscribed      = "subscribed"
	MsgTypeUnsubscribed    = "unsubscribed"
	MsgTypePong            = "pong"
	MsgTypeError           = "error"
	MsgTypeMatchUpdate     = "match_update"
	MsgTypeMatchEvent      = "match_event"
	MsgTypeStatsUpdate     = "stats_update"
	MsgTypeChatJoined      = "chat_joined"
	MsgTypeChatLeft        = "chat_left"
	MsgTypeUserJoined      = "user_joined"
	MsgTypeUserLeft        = "user_left"
	MsgTypeTypingIndicator = "typing_indicator"
	MsgTypeHeartbeat       = "heartbeat"
)

// Match update types carried by match_update frames.
const (
	UpdateMatchStarted      = "MATCH_STARTED"
	UpdateHalfTime          = "HALF_TIME"
	UpdateSecondHalfStarted = "SECOND_HALF_STARTED"
	UpdateFullTime          = "FULL_TIME"
)

// Timestamp returns the server timestamp attached to every outgoing frame.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// BaseMessage is the envelope used to sniff the discriminator of an
// incoming frame before full decoding.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type SubscribeMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
}

type ChatJoinMessage struct {
	Type     string `json:"type"`
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type ChatLeaveMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
}

type ChatPostMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
	Content string `json:"content"`
}

type TypingMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
}

// Server -> Client messages

type ConnectedMessage struct {
	Type      string `json:"type"`
	ClientID  string `json:"clientId"`
	Timestamp string `json:"timestamp"`
}

// SubscriptionAck acknowledges subscribe/unsubscribe requests; Type is
// either "subscribed" or "unsubscribed".
type SubscriptionAck struct {
	Type      string `json:"type"`
	MatchID   string `json:"matchId"`
	Timestamp string `json:"timestamp"`
}

type PongMessage struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

type ErrorMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func NewErrorMessage(message string) *ErrorMessage {
	return &ErrorMessage{
		Type:      MsgTypeError,
		Message:   message,
		Timestamp: Timestamp(),
	}
}

type MatchUpdateMessage struct {
	Type       string          `json:"type"`
	UpdateType string          `json:"updateType"`
	Data       MatchUpdateData `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

type MatchEventMessage struct {
	Type      string         `json:"type"`
	Data      MatchEventData `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type StatsUpdateMessage struct {
	Type      string         `json:"type"`
	Data      StatisticsData `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type ChatJoinedMessage struct {
	Type           string        `json:"type"`
	MatchID        string        `json:"matchId"`
	UserCount      int           `json:"userCount"`
	RecentMessages []ChatMessage `json:"recentMessages"`
	Timestamp      string        `json:"timestamp"`
}

type ChatLeftMessage struct {
	Type      string `json:"type"`
	MatchID   string `json:"matchId"`
	Timestamp string `json:"timestamp"`
}

// UserPresenceMessage announces membership changes; Type is either
// "user_joined" or "user_left".
type UserPresenceMessage struct {
	Type      string `json:"type"`
	MatchID   string `json:"matchId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	UserCount int    `json:"userCount"`
	Timestamp string `json:"timestamp"`
}

type ChatBroadcastMessage struct {
	Type      string      `json:"type"`
	Data      ChatMessage `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type TypingIndicatorMessage struct {
	Type      string `json:"type"`
	MatchID   string `json:"matchId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	IsTyping  bool   `json:"isTyping"`
	Timestamp string `json:"timestamp"`
}

// HeartbeatMessage keeps idle SSE connections alive; it carries no
// sequence id and is never buffered.
type HeartbeatMessage struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}
