// Package file provides the default snapshot store: a single JSON document
// on local disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the snapshot to one file. Writes go through a temp file
// and rename, so the previous snapshot stays intact if a write fails
// half-way.
type Store struct {
	path string
}

// New creates a file-backed snapshot store at path, creating the parent
// directory if needed.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Load reads the last snapshot, reporting ok=false when none exists yet.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	return data, true, nil
}

// Save replaces the snapshot wholesale.
func (s *Store) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
