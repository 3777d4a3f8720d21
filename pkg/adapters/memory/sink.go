package memory

import (
	"context"
	"sync"
)

// Event is one recorded trigger emission.
type Event struct {
	Name    string
	Payload map[string]any
}

// Sink implements ports.EventSink by recording every emission. It exists for
// tests and for hosts that fan events out themselves.
type Sink struct {
	mu     sync.Mutex
	events []Event
}

// NewSink creates an empty recording sink.
func NewSink() *Sink {
	return &Sink{}
}

// Emit records the event. It never blocks and never fails.
func (s *Sink) Emit(ctx context.Context, name string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Name: name, Payload: payload})
}

// Events returns a copy of everything emitted so far.
func (s *Sink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
