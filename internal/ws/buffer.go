package ws

import (
	"sync"
	"time"
)

const (
	defaultBufferMaxLen = 1000
	defaultBufferMaxAge = 1 * time.Hour
)

// EventBuffer stores recent events for replay on reconnect.
type EventBuffer struct {
	mu     sync.RWMutex
	events []Event
	maxAge time.Duration
	maxLen int
}

// NewEventBuffer creates an EventBuffer with the given limits.
func NewEventBuffer(maxLen int, maxAge time.Duration) *EventBuffer {
	return &EventBuffer{maxAge: maxAge, maxLen: maxLen}
}

// Append stores an event for potential replay, evicting old entries.
func (eb *EventBuffer) Append(event *Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// Evict expired events from the front.
	cutoff := time.Now().Add(-eb.maxAge)
	start := 0
	for start < len(eb.events) && eb.events[start].Time.Before(cutoff) {
		start++
	}
	if start > 0 {
		eb.events = eb.events[start:]
	}

	eb.events = append(eb.events, *event)
	if len(eb.events) > eb.maxLen {
		eb.events = eb.events[len(eb.events)-eb.maxLen:]
	}
}

// Since returns all buffered events with Seq > lastSeq. The second return is
// false when lastSeq predates the buffer, meaning events were lost and the
// client must do a full refresh.
func (eb *EventBuffer) Since(lastSeq uint64) ([]Event, bool) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.events) == 0 {
		return nil, true
	}

	// A gap before the oldest buffered event means history was evicted.
	if lastSeq != 0 && eb.events[0].Seq > lastSeq+1 {
		return nil, false
	}

	out := make([]Event, 0)
	for _, e := range eb.events {
		if e.Seq > lastSeq {
			out = append(out, e)
		}
	}

	return out, true
}
