package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patterflow/patter/pkg/ports"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	ports.RunDataStoreContract(t, newTestStore(t))
}

func TestStorePrefix(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := NewFromClient(client, WithPrefix("custom:"))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(ctx, "score", 7))
	require.True(t, mr.Exists("custom:score"))
}

func TestStoreTTL(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := NewFromClient(client, WithTTL(time.Minute))
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(ctx, "mood", "great"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "mood")
	require.NoError(t, err)
	assert.False(t, ok, "expired keys must read as absent")
}

func TestStoreNumbersDecodeAsFloat(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "taskDays", 5))

	v, ok, err := store.Get(ctx, "taskDays")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(5), v)
}
