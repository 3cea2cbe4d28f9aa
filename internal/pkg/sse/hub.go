package sse

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	EventLeaveReviewed       = "leave.reviewed"
	EventAnnouncementCreated = "announcement.created"
	EventConnected           = "connected"
	EventPing                = "ping"
)

// subscriberBuffer is how many undelivered events a slow client may have queued.
const subscriberBuffer = 16

// Event is a server-sent event addressed to one user
type Event struct {
	ID     uint64
	UserID string
	Event  string
	Data   any
}

// Hub fans events out to the open streams of each user
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	closed      bool

	seq     atomic.Uint64
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a stream for a user. The returned cleanup must be called once
// the stream ends. After Close the channel is returned already closed.
func (h *Hub) Subscribe(userID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[userID][ch]; !ok {
			return
		}
		delete(h.subscribers[userID], ch)
		close(ch)
		if len(h.subscribers[userID]) == 0 {
			delete(h.subscribers, userID)
		}
	}

	return ch, cleanup
}

// Publish delivers an event to every open stream of userID
func (h *Hub) Publish(userID string, event Event) {
	event.ID = h.seq.Add(1)
	event.UserID = userID

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[userID] {
		h.send(ch, event)
	}
}

// Broadcast delivers an event to every open stream
func (h *Hub) Broadcast(event Event) {
	event.ID = h.seq.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, subs := range h.subscribers {
		event.UserID = userID
		for ch := range subs {
			h.send(ch, event)
		}
	}
}

// send never blocks; a full stream loses the event.
func (h *Hub) send(ch chan Event, event Event) {
	select {
	case ch <- event:
	default:
		h.dropped.Add(1)
		slog.Warn("SSE subscriber buffer full, event dropped", "event", event.Event, "user_id", event.UserID)
	}
}

// Close ends every open stream and rejects new subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for userID, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, userID)
	}
}

func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

// Dropped returns how many events were discarded because a stream was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
