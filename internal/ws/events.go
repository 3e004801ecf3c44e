package ws

import (
	"sync/atomic"
	"time"
)

// Event notifies connected consoles that an entity changed. Seq is a
// monotonically increasing ID used for replay on reconnect.
type Event struct {
	Type     string    `json:"type"`
	Seq      uint64    `json:"seq"`
	Resource string    `json:"resource"`
	Action   string    `json:"action"`
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type    string `json:"type"`
	LastSeq uint64 `json:"last_seq"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence issues monotonic sequence numbers.
type EventSequence struct {
	counter atomic.Uint64
}

// Next returns the next sequence number.
func (es *EventSequence) Next() uint64 {
	return es.counter.Add(1)
}
