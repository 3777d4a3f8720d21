package domain

import (
	"context"
	"time"
)

// EventType categorizes lifecycle events emitted by the delivery queue.
type EventType string

const (
	EventSequenceEnter    EventType = "sequence_enter"
	EventMessageDelivered EventType = "message_delivered"
	EventSuspended        EventType = "suspended"
	EventResumed          EventType = "resumed"
	EventTrigger          EventType = "trigger"
	EventRoutingDeadEnd   EventType = "routing_dead_end"
)

// SequenceEvent reports the queue entering a sequence.
type SequenceEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	SequenceID string    `json:"sequenceId"`
}

// MessageEvent reports one message becoming visible, or the queue suspending
// on / resuming from an interactive message.
type MessageEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	SequenceID string        `json:"sequenceId"`
	MessageID  string        `json:"messageId"`
	Type       MessageType   `json:"type"`
	Waited     time.Duration `json:"waited,omitempty"`
}

// TriggerEvent reports a fire-and-forget event emitted by a trigger action.
type TriggerEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hooks defines optional callbacks for queue observability. Nil members are
// skipped; callbacks run inline on the drain goroutine, so they must not block.
type Hooks struct {
	OnSequenceEnter    func(context.Context, *SequenceEvent)
	OnMessageDelivered func(context.Context, *MessageEvent)
	OnSuspended        func(context.Context, *MessageEvent)
	OnResumed          func(context.Context, *MessageEvent)
	OnTrigger          func(context.Context, *TriggerEvent)
	OnRoutingDeadEnd   func(context.Context, *MessageEvent)
}

// MergeHooks fans each callback out to every non-nil hook set, in order.
// Nil inputs are skipped; passing a single set returns it unchanged.
func MergeHooks(sets ...*Hooks) *Hooks {
	var active []*Hooks
	for _, h := range sets {
		if h != nil {
			active = append(active, h)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}

	merged := &Hooks{}
	merged.OnSequenceEnter = func(ctx context.Context, ev *SequenceEvent) {
		for _, h := range active {
			if h.OnSequenceEnter != nil {
				h.OnSequenceEnter(ctx, ev)
			}
		}
	}
	merged.OnMessageDelivered = func(ctx context.Context, ev *MessageEvent) {
		for _, h := range active {
			if h.OnMessageDelivered != nil {
				h.OnMessageDelivered(ctx, ev)
			}
		}
	}
	merged.OnSuspended = func(ctx context.Context, ev *MessageEvent) {
		for _, h := range active {
			if h.OnSuspended != nil {
				h.OnSuspended(ctx, ev)
			}
		}
	}
	merged.OnResumed = func(ctx context.Context, ev *MessageEvent) {
		for _, h := range active {
			if h.OnResumed != nil {
				h.OnResumed(ctx, ev)
			}
		}
	}
	merged.OnTrigger = func(ctx context.Context, ev *TriggerEvent) {
		for _, h := range active {
			if h.OnTrigger != nil {
				h.OnTrigger(ctx, ev)
			}
		}
	}
	merged.OnRoutingDeadEnd = func(ctx context.Context, ev *MessageEvent) {
		for _, h := range active {
			if h.OnRoutingDeadEnd != nil {
				h.OnRoutingDeadEnd(ctx, ev)
			}
		}
	}
	return merged
}
