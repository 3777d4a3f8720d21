package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patterflow/patter/pkg/adapters/memory"
	"github.com/patterflow/patter/pkg/domain"
)

func TestActionSet(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := NewActionProcessor(store, nil, nil)

	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionSet, Key: "user.mood", Value: "great"}))

	v, ok, err := store.Get(ctx, "user.mood")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "great", v)

	// Setting null is a real write, not a delete.
	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionSet, Key: "user.mood", Value: nil}))
	v, ok, err = store.Get(ctx, "user.mood")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestActionIncrementDecrement(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p := NewActionProcessor(store, nil, nil)

	// Absent key counts from zero with the default magnitude.
	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionIncrement, Key: "visits"}))
	v, _, _ := store.Get(ctx, "visits")
	assert.Equal(t, 1, v)

	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionIncrement, Key: "visits", Value: 4}))
	v, _, _ = store.Get(ctx, "visits")
	assert.Equal(t, 5, v)

	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionDecrement, Key: "visits", Value: 2}))
	v, _, _ = store.Get(ctx, "visits")
	assert.Equal(t, 3, v)

	// Fractional results stay floats.
	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionIncrement, Key: "visits", Value: 0.5}))
	v, _, _ = store.Get(ctx, "visits")
	assert.Equal(t, 3.5, v)
}

func TestActionIncrementCoercesJunk(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStoreFrom(map[string]any{"score": "not a number"})
	p := NewActionProcessor(store, nil, nil)

	// Non-numeric current value coerces to 0, non-numeric magnitude to 1.
	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionIncrement, Key: "score", Value: "banana"}))
	v, _, _ := store.Get(ctx, "score")
	assert.Equal(t, 1, v)

	// Numeric strings count as numbers.
	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionIncrement, Key: "score", Value: "2"}))
	v, _, _ = store.Get(ctx, "score")
	assert.Equal(t, 3, v)
}

func TestActionReset(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStoreFrom(map[string]any{
		"counter": 9,
		"name":    "ana",
	})
	p := NewActionProcessor(store, nil, nil)

	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionReset, Key: "counter"}))
	v, _, _ := store.Get(ctx, "counter")
	assert.Equal(t, 0, v, "numeric values reset to zero")

	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionReset, Key: "name"}))
	v, ok, _ := store.Get(ctx, "name")
	require.True(t, ok)
	assert.Nil(t, v, "non-numeric values reset to null")

	require.NoError(t, p.Apply(ctx, &domain.DataAction{Type: domain.ActionReset, Key: "ghost"}))
	v, ok, _ = store.Get(ctx, "ghost")
	require.True(t, ok)
	assert.Nil(t, v, "absent keys reset to null")
}

func TestActionTrigger(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sink := memory.NewSink()
	p := NewActionProcessor(store, sink, nil)

	action := &domain.DataAction{
		Type:  domain.ActionTrigger,
		Event: "session.completed",
		Data:  map[string]any{"day": 3},
	}
	require.NoError(t, p.Apply(ctx, action))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "session.completed", events[0].Name)
	assert.Equal(t, 3, events[0].Payload["day"])

	assert.Empty(t, store.Snapshot(), "triggers never touch the store")
}

func TestActionTriggerWithoutSink(t *testing.T) {
	p := NewActionProcessor(memory.NewStore(), nil, nil)
	assert.NoError(t, p.Apply(context.Background(), &domain.DataAction{Type: domain.ActionTrigger, Event: "x"}))
}

func TestActionUnknownTypeIsIgnored(t *testing.T) {
	store := memory.NewStore()
	p := NewActionProcessor(store, nil, nil)

	assert.NoError(t, p.Apply(context.Background(), &domain.DataAction{Type: "explode", Key: "k"}))
	assert.Empty(t, store.Snapshot())
}

func TestActionNilIsNoop(t *testing.T) {
	p := NewActionProcessor(memory.NewStore(), nil, nil)
	assert.NoError(t, p.Apply(context.Background(), nil))
}
