// Package memory provides an in-process implementation of storage.KV.
// Data lives as long as the Store value; nothing touches disk.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mmynk/budgetkeeper/internal/storage"
)

// Ensure Store implements storage.KV
var _ storage.KV = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Apply performs the batch under one lock, so readers never observe a
// partial batch.
func (s *Store) Apply(_ context.Context, ops ...storage.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		if op.IsDelete() {
			delete(s.data, op.Key)
			continue
		}
		s.data[op.Key] = append([]byte(nil), op.Value...)
	}
	return nil
}

func (s *Store) Available() bool { return true }

func (s *Store) Close() error { return nil }

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
