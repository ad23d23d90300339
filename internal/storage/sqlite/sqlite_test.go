package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetkeeper/internal/storage"
	"github.com/mmynk/budgetkeeper/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	storagetest.RunKVTests(t, func(t *testing.T) storage.KV { return newTestStore(t) })
}

func TestNewCreatesParentDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "budget.db")
	store, err := New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Apply(context.Background(), storage.Set("k", []byte("v"))))
}

func TestDataSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")
	ctx := context.Background()

	store, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Apply(ctx, storage.Set(storage.KeyCurrentPeriodID, []byte("p-1"))))
	require.NoError(t, store.Close())

	// Reopening runs migrations again, which must be a no-op.
	reopened, err := New(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, storage.KeyCurrentPeriodID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "p-1", string(v))
}

func TestFailedApplyLeavesDataUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Apply(ctx, storage.Set("a", []byte("old"))))

	// A cancelled context makes the batch fail before commit.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := store.Apply(cancelled, storage.Set("a", []byte("new")), storage.Set("b", []byte("new")))
	require.Error(t, err)

	v, _, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "old", string(v))
	_, ok, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}
