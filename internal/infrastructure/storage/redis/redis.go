// Package redis provides a snapshot store backed by a single redis key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key holds the serialized state document.
const Key = "inventoryData"

// Store persists the snapshot under one redis key.
type Store struct {
	rdb *redis.Client
}

// New connects to redis at addr and verifies the connection.
func New(ctx context.Context, addr string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// Load reads the snapshot key.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	return data, true, nil
}

// Save replaces the snapshot key. SET is atomic on the redis side, so a
// failed write leaves the previous value in place.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := s.rdb.Set(ctx, Key, data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Ping reports backend health for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
