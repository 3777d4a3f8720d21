package ports

import (
	"context"
	"time"

	"github.com/patterflow/patter/pkg/domain"
)

// ContentLibrary resolves semantic content keys (actor.action.subject[.modifier]*)
// to authored text blocks. Lookup misses are normal; the resolver walks a
// fallback chain and finally settles on the message's literal text.
type ContentLibrary interface {
	Lookup(key string) (string, bool)
}

// EventSink receives fire-and-forget trigger events. The engine never
// inspects the sink's behavior and awaits no acknowledgment.
type EventSink interface {
	Emit(ctx context.Context, name string, payload map[string]any)
}

// SequenceSource resolves sequence IDs to validated sequences. Implementations
// must return sequences that already passed structural validation and carry a
// built message index.
type SequenceSource interface {
	// Load returns the sequence with the given ID, or domain.ErrSequenceNotFound.
	Load(ctx context.Context, id string) (*domain.Sequence, error)

	// List returns the IDs of all known sequences, for tooling and validation
	// sweeps.
	List(ctx context.Context) ([]string, error)
}

// Clock abstracts wall-clock time and pacing waits so the delivery queue can
// be driven by a virtual clock in tests instead of sleeping.
type Clock interface {
	Now() time.Time
	// After behaves like time.After: it delivers one tick once d has elapsed.
	After(d time.Duration) <-chan time.Time
}
