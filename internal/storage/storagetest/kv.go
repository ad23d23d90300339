// Package storagetest holds the behavior every storage.KV backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetkeeper/internal/storage"
)

// RunKVTests exercises the KV contract against a fresh, empty backend
// returned by newKV.
func RunKVTests(t *testing.T, newKV func(t *testing.T) storage.KV) {
	ctx := context.Background()

	t.Run("Get on missing key reports absence", func(t *testing.T) {
		kv := newKV(t)
		v, ok, err := kv.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("Apply sets and overwrites", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Apply(ctx, storage.Set("a", []byte("1"))))
		require.NoError(t, kv.Apply(ctx, storage.Set("a", []byte("2"))))

		v, ok, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", string(v))
	})

	t.Run("Apply deletes", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Apply(ctx, storage.Set("a", []byte("1"))))
		require.NoError(t, kv.Apply(ctx, storage.Delete("a"), storage.Delete("never-set")))

		_, ok, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Apply writes a whole batch", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Apply(ctx,
			storage.Set(storage.KeyTemplate, []byte(`{"id":"t"}`)),
			storage.Set(storage.KeyPeriods, []byte(`[]`)),
			storage.Set(storage.KeyCurrentPeriodID, []byte("p1")),
		))

		for key, want := range map[string]string{
			storage.KeyTemplate:        `{"id":"t"}`,
			storage.KeyPeriods:         `[]`,
			storage.KeyCurrentPeriodID: "p1",
		} {
			v, ok, err := kv.Get(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok, key)
			assert.Equal(t, want, string(v), key)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		kv := newKV(t)
		assert.NoError(t, kv.Apply(ctx))
	})

	t.Run("returned values are not aliased", func(t *testing.T) {
		kv := newKV(t)
		value := []byte("abc")
		require.NoError(t, kv.Apply(ctx, storage.Set("a", value)))
		value[0] = 'z'

		v, _, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(v))
	})

	t.Run("backend is available", func(t *testing.T) {
		assert.True(t, newKV(t).Available())
	})
}
