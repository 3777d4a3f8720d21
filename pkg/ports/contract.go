package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDataStoreContract runs a suite of tests verifying that a DataStore
// implementation adheres to the interface contract. Adapter packages call it
// from their own tests.
func RunDataStoreContract(t *testing.T, store DataStore) {
	ctx := context.Background()
	prefix := "contract." + time.Now().Format("150405") + "."

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"name", "Ana"))
		require.NoError(t, store.Set(ctx, prefix+"visits", 3))
		require.NoError(t, store.Set(ctx, prefix+"active", true))

		v, ok, err := store.Get(ctx, prefix+"name")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Ana", v)

		v, ok, err = store.Get(ctx, prefix+"visits")
		require.NoError(t, err)
		require.True(t, ok)
		// JSON round-tripping stores may widen ints to float64.
		assert.EqualValues(t, 3, toFloat(t, v))

		v, ok, err = store.Get(ctx, prefix+"active")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, true, v)
	})

	t.Run("Absent Key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, prefix+"missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"mood", "ok"))
		require.NoError(t, store.Set(ctx, prefix+"mood", "great"))

		v, ok, err := store.Get(ctx, prefix+"mood")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "great", v)
	})

	t.Run("Stored Nil Is Present", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, prefix+"cleared", nil))

		v, ok, err := store.Get(ctx, prefix+"cleared")
		require.NoError(t, err)
		assert.True(t, ok, "a stored nil must be distinguishable from absence")
		assert.Nil(t, v)
	})
}

func toFloat(t *testing.T, v any) float64 {
	t.Helper()
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		t.Fatalf("expected numeric value, got %T", v)
		return 0
	}
}
