package ports

import "context"

// DataStore is the flat key-value store the conversation reads user state
// from and writes mutations to. Keys use a dotted namespace convention
// (e.g. "user.name", "task.isActiveDay"); values are scalars (string, bool,
// numbers, or nil).
//
// Implementations serialize their own writes; the engine's drain loop is the
// only writer for a given conversation.
type DataStore interface {
	// Get returns the value at key. The second return is false when the key
	// is absent (which is distinct from a stored nil).
	Get(ctx context.Context, key string) (any, bool, error)

	// Set writes a scalar value at key, overwriting any previous value.
	Set(ctx context.Context, key string, value any) error
}
