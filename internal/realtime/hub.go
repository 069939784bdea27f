package realtime

import (
	"log"
	"sync"
)

// subscriptionBuffer bounds each subscriber's event queue. Dispatch never
// blocks the channel reader; an event that finds a full buffer is dropped
// for that subscriber and logged.
const subscriptionBuffer = 32

// Subscription is a scoped handle on the event stream. A presenter acquires
// one when its view mounts and must Close it unconditionally on teardown so
// stale views never act on live events.
type Subscription struct {
	hub    *Hub
	id     int
	names  map[string]struct{} // empty means all events
	C      chan Event
	closed bool
}

// Close deregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

func (s *Subscription) wants(name string) bool {
	if len(s.names) == 0 {
		return true
	}
	_, ok := s.names[name]
	return ok
}

// Hub fans socket events out to subscribers, preserving per-connection
// arrival order for each of them.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]*Subscription)}
}

// Subscribe registers interest in the named events; with no names, the
// subscription receives everything.
func (h *Hub) Subscribe(names ...string) *Subscription {
	s := &Subscription{
		hub: h,
		C:   make(chan Event, subscriptionBuffer),
	}
	if len(names) > 0 {
		s.names = make(map[string]struct{}, len(names))
		for _, n := range names {
			s.names[n] = struct{}{}
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		// A subscription on a closed hub yields a closed channel, so the
		// subscriber's receive loop terminates immediately.
		close(s.C)
		s.closed = true
		return s
	}
	h.nextID++
	s.id = h.nextID
	h.subs[s.id] = s
	return s
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return
	}
	delete(h.subs, s.id)
	close(s.C)
	s.closed = true
}

// Publish delivers an event to every interested subscriber without ever
// blocking the caller.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, s := range h.subs {
		if !s.wants(ev.Name) {
			continue
		}
		select {
		case s.C <- ev:
		default:
			log.Printf("realtime: subscriber %d full, dropping %s", s.id, ev.Name)
		}
	}
}

// Close tears down every subscription. Publishing after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.C)
		s.closed = true
	}
}
