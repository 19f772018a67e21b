// Package id provides opaque record identifiers.
// Identifiers are UUIDv7 strings: time-ordered, so records sort naturally
// by creation time without a separate counter.
package id

import (
	"github.com/google/uuid"
)

// New generates a new UUIDv7 identifier string.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID.
// Identifiers loaded from imported documents are treated as opaque and are
// not required to pass this check.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
