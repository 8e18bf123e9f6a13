package notify

import "sync"

// Hub fans events out to per-group subscribers over buffered channels.
// A subscriber that falls behind has events dropped rather than blocking
// the emitting service.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Emit delivers the event to every subscriber of the group.
func (h *Hub) Emit(name, groupID string, payload any) {
	ev := newEvent(name, groupID, payload)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[groupID] {
		select {
		case ch <- ev:
		default:
			// Slow subscriber, drop the event.
		}
	}
}

// Subscribe registers a listener for a group's events. The returned
// cancel function removes the subscription and closes the channel.
func (h *Hub) Subscribe(groupID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	if h.subs[groupID] == nil {
		h.subs[groupID] = make(map[chan Event]struct{})
	}
	h.subs[groupID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[groupID][ch]; !ok {
			return
		}
		delete(h.subs[groupID], ch)
		if len(h.subs[groupID]) == 0 {
			delete(h.subs, groupID)
		}
		close(ch)
	}
	return ch, cancel
}
