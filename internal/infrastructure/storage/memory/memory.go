// Package memory provides an ephemeral snapshot store for tests and
// throwaway runs.
package memory

import (
	"context"
	"sync"
)

// Store keeps the snapshot in process memory.
type Store struct {
	mu   sync.RWMutex
	data []byte
}

// New creates an empty in-memory snapshot store.
func New() *Store {
	return &Store{}
}

// Load returns the last saved snapshot.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, false, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, true, nil
}

// Save replaces the snapshot.
func (s *Store) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append([]byte(nil), data...)
	return nil
}
