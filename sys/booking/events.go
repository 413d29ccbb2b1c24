package booking

import (
	"sync"
	"time"

	"tidybook-api/res/store"
)

// StatusEvent is published whenever a booking changes status
type StatusEvent struct {
	BookingID  string              `json:"bookingId"`
	Reference  string              `json:"reference"`
	Status     store.BookingStatus `json:"status"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// EventHub fans booking status changes out to in-process subscribers
// (the websocket endpoint). Publishing never blocks: slow subscribers
// miss events instead of stalling the request path.
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan StatusEvent]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		subscribers: make(map[string]map[chan StatusEvent]struct{}),
	}
}

// Subscribe registers interest in one booking's status changes
func (h *EventHub) Subscribe(bookingID string) chan StatusEvent {
	ch := make(chan StatusEvent, 8)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[bookingID] == nil {
		h.subscribers[bookingID] = make(map[chan StatusEvent]struct{})
	}
	h.subscribers[bookingID][ch] = struct{}{}

	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (h *EventHub) Unsubscribe(bookingID string, ch chan StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[bookingID]; ok {
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, bookingID)
		}
	}
}

// Publish delivers an event to all subscribers of the booking
func (h *EventHub) Publish(event StatusEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[event.BookingID] {
		select {
		case ch <- event:
		default:
		}
	}
}
