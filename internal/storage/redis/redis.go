// Package redis provides a Redis-backed implementation of storage.KV.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/budgetkeeper/internal/storage"
)

// Ensure Store implements storage.KV
var _ storage.KV = (*Store)(nil)

// Config holds the connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "budgetkeeper:".
	Prefix string
}

// Store implements storage.KV on top of a Redis client.
type Store struct {
	client     *goredis.Client
	ownsClient bool // true if we created the client and should close it
	prefix     string
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, ownsClient: true, prefix: cfg.Prefix}, nil
}

// NewWithClient wraps an existing client. The caller keeps ownership of it.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return data, true, nil
}

// Apply sends the batch as one MULTI/EXEC transaction.
func (s *Store) Apply(ctx context.Context, ops ...storage.Op) error {
	if len(ops) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, op := range ops {
			if op.IsDelete() {
				pipe.Del(ctx, s.key(op.Key))
				continue
			}
			pipe.Set(ctx, s.key(op.Key), op.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply batch: %w", err)
	}
	return nil
}

func (s *Store) Available() bool { return true }

// Close closes the client if this store created it.
func (s *Store) Close() error {
	if !s.ownsClient {
		return nil
	}
	return s.client.Close()
}
