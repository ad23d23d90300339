package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetkeeper/internal/storage"
	"github.com/mmynk/budgetkeeper/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.RunKVTests(t, func(t *testing.T) storage.KV { return New() })
}

func TestKeys(t *testing.T) {
	s := New()
	require.NoError(t, s.Apply(context.Background(),
		storage.Set("b", []byte("2")),
		storage.Set("a", []byte("1")),
	))
	assert.Equal(t, []string{"a", "b"}, s.Keys())
}
