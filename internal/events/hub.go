// Package events fans game events out to subscribers, one topic per game.
package events

import (
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Event names.
const (
	EventMove = "move"
	EventJoin = "join"
)

// Event is a single notification for a game.
type Event struct {
	Name string
	Data string
}

// Hub delivers events to the subscribers of each game. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
	log    zerolog.Logger
}

// Subscription receives the events of one game on C until it is closed.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	gameID string
	hub    *Hub
	once   sync.Once
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a new subscriber for gameID. After the hub is closed
// the returned subscription's channel is already closed.
func (h *Hub) Subscribe(gameID string) *Subscription {
	ch := make(chan Event, h.buffer)
	s := &Subscription{C: ch, ch: ch, gameID: gameID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		s.once.Do(func() { close(ch) })
		return s
	}

	set, ok := h.subs[gameID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[gameID] = set
	}
	set[s] = struct{}{}

	h.log.Debug().Str("game", gameID).Int("subscribers", len(set)).Msg("subscribed")
	return s
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[s.gameID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.subs, s.gameID)
		}
	}
	s.once.Do(func() { close(s.ch) })
}

// Publish sends ev to every subscriber of gameID.
func (h *Hub) Publish(gameID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[gameID] {
		select {
		case s.ch <- ev:
		default:
			h.log.Warn().Str("game", gameID).Str("event", ev.Name).Msg("subscriber buffer full, event dropped")
		}
	}
}

// PublishMove announces an accepted move in coordinate notation.
func (h *Hub) PublishMove(gameID, move string) {
	h.Publish(gameID, Event{Name: EventMove, Data: move})
}

// PublishJoin announces that player took the empty seat.
func (h *Hub) PublishJoin(gameID, player string) {
	h.Publish(gameID, Event{Name: EventJoin, Data: player})
}

// Subscribers returns the number of subscribers of gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[gameID])
}

// Games returns the ids of games with at least one subscriber, sorted.
func (h *Hub) Games() []string {
	h.mu.RLock()
	ids := maps.Keys(h.subs)
	h.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Close closes every subscription. Later subscriptions are born closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, set := range h.subs {
		for s := range set {
			s.once.Do(func() { close(s.ch) })
		}
		delete(h.subs, id)
	}
}
