package relay

import (
	"strconv"
	"sync"

	"toolpanel/internal/stream"
)

// Hub fans events out to every subscriber. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan stream.Event]struct{}
	buffer int
	seq    uint64
}

// NewHub creates a hub whose subscribers buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[chan stream.Event]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel.
func (h *Hub) Subscribe() (<-chan stream.Event, func()) {
	ch := make(chan stream.Event, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish assigns the next sequence id to ev and offers it to every
// subscriber. It returns how many subscribers accepted it.
func (h *Hub) Publish(ev stream.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	ev.ID = strconv.FormatUint(h.seq, 10)

	delivered := 0
	for ch := range h.subs {
		select {
		case ch <- ev:
			delivered++
		default:
			// slow subscriber; drop
		}
	}
	return delivered
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
