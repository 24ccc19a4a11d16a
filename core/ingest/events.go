package ingest

import (
	"sync"
	"time"
)

// EventType classifies ingest lifecycle events.
type EventType string

const (
	EventQueued    EventType = "queued"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
)

// Event is published by the runner as jobs move through the pipeline.
type Event struct {
	Type    EventType `json:"type"`
	File    string    `json:"file"`
	TrackID int64     `json:"trackId,omitempty"`
	Title   string    `json:"title,omitempty"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// EventHub fans ingest events out to subscribers. Slow subscribers drop
// events rather than block the runner.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventHub creates an event hub.
func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function must
// be called to release the subscription.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends an event to every subscriber without blocking.
func (h *EventHub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
