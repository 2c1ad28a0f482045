package stream

import (
	"encoding/json"
	"sync"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/pkg/log"
)

// Entry is one buffered frame with its topic-scoped sequence number.
type Entry struct {
	Sequence uint64
	Data     []byte
}

// Handle is a live subscription to a topic. Events delivers replayed
// entries first, then live entries in order.
type Handle struct {
	events chan Entry
}

// Events returns the channel entries arrive on. The channel is closed
// when the handle is closed or the subscriber falls too far behind.
func (h *Handle) Events() <-chan Entry {
	return h.events
}

type topicState struct {
	seq     uint64
	entries []Entry
	handles map[*Handle]struct{}
}

// Buffer retains the most recent frames per topic and replays them to
// late subscribers by sequence number.
type Buffer struct {
	mu     sync.Mutex
	retain int
	topics map[string]*topicState
}

func NewBuffer(retain int) *Buffer {
	return &Buffer{
		retain: retain,
		topics: make(map[string]*topicState),
	}
}

// Append marshals a frame, assigns it the topic's next sequence number
// and fans it out to open handles. A subscriber whose channel is full
// is dropped and its channel closed.
func (b *Buffer) Append(topic string, message interface{}) (uint64, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.topic(topic)
	state.seq++
	entry := Entry{Sequence: state.seq, Data: data}

	state.entries = append(state.entries, entry)
	if len(state.entries) > b.retain {
		state.entries = state.entries[len(state.entries)-b.retain:]
	}

	for handle := range state.handles {
		select {
		case handle.events <- entry:
		default:
			delete(state.handles, handle)
			close(handle.events)
			log.L().Warn().Str("topic", topic).Msg("dropping slow stream subscriber")
		}
	}

	return state.seq, nil
}

// Open subscribes to a topic. lastSeen is the highest sequence number
// the subscriber has already processed; retained entries after it are
// queued onto the handle before any live entry. A negative lastSeen
// skips replay entirely.
func (b *Buffer) Open(topic string, lastSeen int64) *Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.topic(topic)
	handle := &Handle{events: make(chan Entry, b.retain+64)}

	if lastSeen >= 0 {
		for _, entry := range state.entries {
			if entry.Sequence > uint64(lastSeen) {
				handle.events <- entry
			}
		}
	}

	state.handles[handle] = struct{}{}
	return handle
}

// Close detaches a handle from its topic. Closing a handle the buffer
// already dropped is a no-op.
func (b *Buffer) Close(topic string, handle *Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.topics[topic]
	if !ok {
		return
	}
	if _, ok := state.handles[handle]; !ok {
		return
	}
	delete(state.handles, handle)
	close(handle.events)
}

// topic returns the state for a topic, creating it if needed. Caller
// must hold mu.
func (b *Buffer) topic(name string) *topicState {
	state, ok := b.topics[name]
	if !ok {
		state = &topicState{handles: make(map[*Handle]struct{})}
		b.topics[name] = state
	}
	return state
}
