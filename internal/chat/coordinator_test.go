package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/domain"
	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/hub"
)

func testChatConfig() config.ChatConfig {
	return config.ChatConfig{
		MaxMessageLength: 500,
		HistoryLimit:     100,
		RecentLimit:      20,
		TypingTimeout:    3 * time.Second,
		RateLimit: config.RateLimitConfig{
			MaxMessages: 10,
			Window:      60 * time.Second,
			Timeout:     2 * time.Second,
		},
	}
}

func newTestClient(id string) *hub.Client {
	return hub.NewClient(id, nil, nil, config.WebSocketConfig{SendBuffer: 64})
}

func join(t *testing.T, co *Coordinator, c *hub.Client, matchID, userID, username string) {
	t.Helper()
	raw, err := json.Marshal(domain.ChatJoinMessage{
		Type:     domain.MsgTypeChatJoin,
		MatchID:  matchID,
		UserID:   userID,
		Username: username,
	})
	require.NoError(t, err)
	co.handleJoin(c, raw)
}

func post(t *testing.T, co *Coordinator, c *hub.Client, matchID, content string) {
	t.Helper()
	raw, err := json.Marshal(domain.ChatPostMessage{
		Type:    domain.MsgTypeChatMessage,
		MatchID: matchID,
		Content: content,
	})
	require.NoError(t, err)
	co.handleMessage(c, raw)
}

func nextFrame(t *testing.T, c *hub.Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.Send:
		var frame map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func drain(c *hub.Client) {
	for {
		select {
		case <-c.Send:
		default:
			return
		}
	}
}

func requireNoFrame(t *testing.T, c *hub.Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected frame: %s", data)
	default:
	}
}

func TestJoinAcksWithRoomState(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")

	frame := nextFrame(t, c)
	req.Equal("chat_joined", frame["type"])
	req.Equal("match-1", frame["matchId"])
	req.Equal(float64(1), frame["userCount"])
	req.Empty(frame["recentMessages"])
}

func TestJoinRequiresMatchAndUser(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	raw, _ := json.Marshal(domain.ChatJoinMessage{Type: domain.MsgTypeChatJoin, MatchID: "match-1"})
	co.handleJoin(c, raw)

	frame := nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal("Match ID and User ID are required", frame["message"])
}

func TestJoinDefaultsUsername(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c1 := newTestClient("c1")
	c2 := newTestClient("c2")

	join(t, co, c1, "match-1", "u1", "alice")
	drain(c1)

	join(t, co, c2, "match-1", "abcdef-user", "")
	drain(c2)

	frame := nextFrame(t, c1)
	req.Equal("user_joined", frame["type"])
	req.Equal("Userabcd", frame["username"])
}

func TestSecondTabDoesNotAnnounceAgain(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	observer := newTestClient("obs")
	tab1 := newTestClient("tab1")
	tab2 := newTestClient("tab2")

	join(t, co, observer, "match-1", "u-obs", "observer")
	drain(observer)

	join(t, co, tab1, "match-1", "u1", "alice")
	frame := nextFrame(t, observer)
	req.Equal("user_joined", frame["type"])
	req.Equal("u1", frame["userId"])

	join(t, co, tab2, "match-1", "u1", "alice")
	requireNoFrame(t, observer)

	users, _, _, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(2, users)
}

func TestUserLeftAnnouncedOnlyWhenLastTabLeaves(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	observer := newTestClient("obs")
	tab1 := newTestClient("tab1")
	tab2 := newTestClient("tab2")

	join(t, co, observer, "match-1", "u-obs", "observer")
	join(t, co, tab1, "match-1", "u1", "alice")
	join(t, co, tab2, "match-1", "u1", "alice")
	drain(observer)

	leave, _ := json.Marshal(domain.ChatLeaveMessage{Type: domain.MsgTypeChatLeave, MatchID: "match-1"})

	co.handleLeave(tab1, leave)
	req.Equal("chat_left", nextFrame(t, tab1)["type"])
	requireNoFrame(t, observer)

	co.handleLeave(tab2, leave)
	req.Equal("chat_left", nextFrame(t, tab2)["type"])

	frame := nextFrame(t, observer)
	req.Equal("user_left", frame["type"])
	req.Equal("u1", frame["userId"])
	req.Equal(float64(1), frame["userCount"])
}

func TestMessageRequiresJoin(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	post(t, co, c, "match-1", "hello")

	frame := nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal("You must join the chat room first", frame["message"])
}

func TestMessageRequiresRoomMembership(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)

	post(t, co, c, "match-2", "hello")

	frame := nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal("You are not in this chat room", frame["message"])
}

func TestMessageValidation(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)

	post(t, co, c, "match-1", "   ")
	frame := nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal("Message cannot be empty", frame["message"])

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	post(t, co, c, "match-1", string(long))
	frame = nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal("Message too long (max 500 characters)", frame["message"])
}

func TestMessageAtMaxLengthIsAccepted(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)

	content := make([]byte, 500)
	for i := range content {
		content[i] = 'x'
	}
	post(t, co, c, "match-1", string(content))

	frame := nextFrame(t, c)
	req.Equal("chat_message", frame["type"])
}

func TestMessageBroadcastIncludesSender(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	sender := newTestClient("c1")
	other := newTestClient("c2")

	join(t, co, sender, "match-1", "u1", "alice")
	join(t, co, other, "match-1", "u2", "bob")
	drain(sender)
	drain(other)

	post(t, co, sender, "match-1", "  hello world  ")

	for _, c := range []*hub.Client{sender, other} {
		frame := nextFrame(t, c)
		req.Equal("chat_message", frame["type"])
		data := frame["data"].(map[string]interface{})
		req.Equal("hello world", data["content"])
		req.Equal("u1", data["userId"])
		req.Equal("alice", data["username"])
		req.NotEmpty(data["id"])
	}
}

func TestRateLimitRejectsEleventhMessage(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)

	for i := 0; i < 10; i++ {
		post(t, co, c, "match-1", fmt.Sprintf("message %d", i))
		frame := nextFrame(t, c)
		req.Equal("chat_message", frame["type"], "message %d should be accepted", i)
	}

	post(t, co, c, "match-1", "one too many")
	frame := nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal("You are sending messages too quickly. Please slow down.", frame["message"])

	_, messages, _, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(10, messages, "rejected message must not enter history")
}

func TestHistoryEvictsOldest(t *testing.T) {
	req := require.New(t)
	cfg := testChatConfig()
	cfg.HistoryLimit = 5
	cfg.RecentLimit = 5
	cfg.RateLimit.MaxMessages = 1000
	co := NewCoordinator(cfg, nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)

	for i := 0; i < 8; i++ {
		post(t, co, c, "match-1", fmt.Sprintf("message %d", i))
		drain(c)
	}

	_, messages, _, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(5, messages)

	// A fresh join sees only the retained tail.
	late := newTestClient("c2")
	join(t, co, late, "match-1", "u2", "bob")
	frame := nextFrame(t, late)
	recent := frame["recentMessages"].([]interface{})
	req.Len(recent, 5)
	first := recent[0].(map[string]interface{})
	req.Equal("message 3", first["content"])
}

func TestTypingIndicatorExcludesInitiator(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	typer := newTestClient("c1")
	other := newTestClient("c2")

	join(t, co, typer, "match-1", "u1", "alice")
	join(t, co, other, "match-1", "u2", "bob")
	drain(typer)
	drain(other)

	raw, _ := json.Marshal(domain.TypingMessage{Type: domain.MsgTypeTypingStart, MatchID: "match-1"})
	co.handleTypingStart(typer, raw)

	frame := nextFrame(t, other)
	req.Equal("typing_indicator", frame["type"])
	req.Equal("u1", frame["userId"])
	req.Equal(true, frame["isTyping"])

	requireNoFrame(t, typer)
}

func TestTypingAutoClearsAfterTimeout(t *testing.T) {
	req := require.New(t)
	cfg := testChatConfig()
	cfg.TypingTimeout = 30 * time.Millisecond
	co := NewCoordinator(cfg, nil)
	typer := newTestClient("c1")
	other := newTestClient("c2")

	join(t, co, typer, "match-1", "u1", "alice")
	join(t, co, other, "match-1", "u2", "bob")
	drain(typer)
	drain(other)

	raw, _ := json.Marshal(domain.TypingMessage{Type: domain.MsgTypeTypingStart, MatchID: "match-1"})
	co.handleTypingStart(typer, raw)
	req.Equal(true, nextFrame(t, other)["isTyping"])

	require.Eventually(t, func() bool {
		_, _, typing, ok := co.RoomStats("match-1")
		return ok && typing == 0
	}, time.Second, 5*time.Millisecond)

	frame := nextFrame(t, other)
	req.Equal("typing_indicator", frame["type"])
	req.Equal(false, frame["isTyping"])

	// Exactly one clear frame.
	time.Sleep(80 * time.Millisecond)
	requireNoFrame(t, other)
}

func TestTypingRestartReplacesTimer(t *testing.T) {
	req := require.New(t)
	cfg := testChatConfig()
	cfg.TypingTimeout = 60 * time.Millisecond
	co := NewCoordinator(cfg, nil)
	typer := newTestClient("c1")
	other := newTestClient("c2")

	join(t, co, typer, "match-1", "u1", "alice")
	join(t, co, other, "match-1", "u2", "bob")
	drain(typer)
	drain(other)

	raw, _ := json.Marshal(domain.TypingMessage{Type: domain.MsgTypeTypingStart, MatchID: "match-1"})
	co.handleTypingStart(typer, raw)
	nextFrame(t, other)

	time.Sleep(40 * time.Millisecond)
	co.handleTypingStart(typer, raw)
	nextFrame(t, other)

	// The first timer would have fired by now if it was still armed.
	time.Sleep(30 * time.Millisecond)
	_, _, typing, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(1, typing)
}

func TestSendingMessageClearsTyping(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	typer := newTestClient("c1")
	other := newTestClient("c2")

	join(t, co, typer, "match-1", "u1", "alice")
	join(t, co, other, "match-1", "u2", "bob")
	drain(typer)
	drain(other)

	raw, _ := json.Marshal(domain.TypingMessage{Type: domain.MsgTypeTypingStart, MatchID: "match-1"})
	co.handleTypingStart(typer, raw)
	nextFrame(t, other)

	post(t, co, typer, "match-1", "done typing")

	frame := nextFrame(t, other)
	req.Equal("typing_indicator", frame["type"])
	req.Equal(false, frame["isTyping"])

	frame = nextFrame(t, other)
	req.Equal("chat_message", frame["type"])

	_, _, typing, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(0, typing)
}

func TestDisconnectActsAsLeave(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	observer := newTestClient("obs")
	c := newTestClient("c1")

	join(t, co, observer, "match-1", "u-obs", "observer")
	join(t, co, c, "match-1", "u1", "alice")
	drain(observer)

	co.HandleDisconnect(c)

	frame := nextFrame(t, observer)
	req.Equal("user_left", frame["type"])
	req.Equal("u1", frame["userId"])

	users, _, _, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(1, users)
}

func TestRoomRetainedWhileHistoryExists(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)
	post(t, co, c, "match-1", "for posterity")
	drain(c)

	co.HandleDisconnect(c)

	_, messages, _, ok := co.RoomStats("match-1")
	req.True(ok, "room with history must survive the last member leaving")
	req.Equal(1, messages)

	// An empty room is dropped.
	empty := newTestClient("c2")
	join(t, co, empty, "match-2", "u2", "bob")
	drain(empty)
	co.HandleDisconnect(empty)

	_, _, _, ok = co.RoomStats("match-2")
	req.False(ok)
}

type failingLimiter struct {
	calls int
}

func (f *failingLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	f.calls++
	return false, errors.New("connection refused")
}

func TestLimiterFailureFallsBackToLocal(t *testing.T) {
	req := require.New(t)
	primary := &failingLimiter{}
	co := NewCoordinator(testChatConfig(), primary)
	c := newTestClient("c1")

	join(t, co, c, "match-1", "u1", "alice")
	drain(c)

	for i := 0; i < 10; i++ {
		post(t, co, c, "match-1", fmt.Sprintf("message %d", i))
		frame := nextFrame(t, c)
		req.Equal("chat_message", frame["type"], "message %d should pass via fallback", i)
	}

	post(t, co, c, "match-1", "over the limit")
	frame := nextFrame(t, c)
	req.Equal("error", frame["type"])
	req.Equal(11, primary.calls, "primary limiter consulted every time")
}

func TestRejoinKeepsFirstUsername(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)
	observer := newTestClient("obs")
	tab1 := newTestClient("tab1")
	tab2 := newTestClient("tab2")

	join(t, co, observer, "match-1", "u-obs", "observer")
	drain(observer)

	join(t, co, tab1, "match-1", "u1", "alice")
	drain(observer)
	drain(tab1)

	// Same user from another tab with a different display name.
	join(t, co, tab2, "match-1", "u1", "alicia")
	drain(tab2)

	post(t, co, tab2, "match-1", "hello")
	frame := nextFrame(t, observer)
	data := frame["data"].(map[string]interface{})
	req.Equal("alice", data["username"])
}

func TestBroadcastDuringMemberTeardownDoesNotPanic(t *testing.T) {
	req := require.New(t)
	co := NewCoordinator(testChatConfig(), nil)

	h := hub.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)

	sender := newTestClient("c1")
	leaver := hub.NewClient("c2", h, nil, config.WebSocketConfig{SendBuffer: 64})
	h.Register(leaver)

	join(t, co, sender, "match-1", "u1", "alice")
	join(t, co, leaver, "match-1", "u2", "bob")
	drain(sender)
	drain(leaver)

	// Tear the connection down under the coordinator: the hub closes
	// the send channel while chat still counts u2 as a member.
	require.Eventually(t, func() bool {
		h.Unregister(leaver)
		select {
		case _, ok := <-leaver.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	req.NotPanics(func() {
		post(t, co, sender, "match-1", "hello")
	})

	frame := nextFrame(t, sender)
	req.Equal("chat_message", frame["type"])

	users, _, _, ok := co.RoomStats("match-1")
	req.True(ok)
	req.Equal(2, users, "teardown has not reached chat membership yet")
}
