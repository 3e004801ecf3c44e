package client

import (
	"context"
	"errors"
	"sync"
)

// MutationState is the observable lifecycle of a single remote write.
type MutationState int

// Mutation states. A mutation settles exactly once per Run.
const (
	MutationIdle MutationState = iota
	MutationInFlight
	MutationSucceeded
	MutationFailed
)

// String returns the state name.
func (s MutationState) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationInFlight:
		return "in-flight"
	case MutationSucceeded:
		return "succeeded"
	case MutationFailed:
		return "failed"
	}
	return "unknown"
}

// Mutation wraps a single remote write with observable state transitions.
// Confirmation of destructive operations is the caller's job; Run dispatches
// unconditionally.
type Mutation struct {
	mu    sync.Mutex
	state MutationState
	err   error
}

// NewMutation returns a mutation in the idle state.
func NewMutation() *Mutation {
	return &Mutation{}
}

// State returns the current state.
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the settled error, nil unless the state is MutationFailed.
func (m *Mutation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// ErrMessage returns the server's error detail verbatim, or a generic
// fallback when the mutation failed without a structured API error.
func (m *Mutation) ErrMessage() string {
	err := m.Err()
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return "request failed"
}

// Run executes op, moving idle -> in-flight -> settled. A mutation already
// in flight is not dispatched again; Run returns the in-flight error.
func (m *Mutation) Run(ctx context.Context, op func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.state == MutationInFlight {
		m.mu.Unlock()
		return errors.New("mutation already in flight")
	}
	m.state = MutationInFlight
	m.err = nil
	m.mu.Unlock()

	err := op(ctx)

	m.mu.Lock()
	if err != nil {
		m.state = MutationFailed
		m.err = err
	} else {
		m.state = MutationSucceeded
	}
	m.mu.Unlock()
	return err
}
