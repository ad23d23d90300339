// Package storage provides abstractions for persisting budget state.
//
// Persistence is split in two layers. A KV is a raw key-value backend
// (memory, SQLite, Redis). The Adapter sits on top of any KV and stores the
// template, the periods and the current period id as independent JSON
// blobs under fixed keys.
package storage

import "context"

// Keys under which budget state is persisted.
const (
	KeyTemplate        = "budget-template"
	KeyPeriods         = "budget-periods"
	KeyCurrentPeriodID = "budget-current-period-id"
)

// AllKeys lists every key owned by the adapter.
var AllKeys = []string{KeyTemplate, KeyPeriods, KeyCurrentPeriodID}

// Op is a single write in a batch. A nil Value deletes the key.
type Op struct {
	Key   string
	Value []byte
}

// Set returns an op that stores value under key.
func Set(key string, value []byte) Op {
	return Op{Key: key, Value: value}
}

// Delete returns an op that removes key.
func Delete(key string) Op {
	return Op{Key: key}
}

// IsDelete reports whether the op removes its key.
func (o Op) IsDelete() bool {
	return o.Value == nil
}

// KV defines the raw key-value backend contract.
// Single-key reads and writes are atomic; Apply makes a whole batch atomic.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Apply performs all ops atomically: either every op is visible
	// afterwards or none is.
	Apply(ctx context.Context, ops ...Op) error

	// Available reports whether the backend actually persists anything.
	Available() bool

	// Close releases any resources held by the backend.
	Close() error
}
