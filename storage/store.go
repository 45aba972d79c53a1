package storage

import (
	"errors"
)

// Store represents a byte-level key-value store. Keys are arbitrary non-empty
// strings chosen by the caller; values are opaque at this layer. A put for an
// existing key overwrites the previous value entirely.
type Store interface {
	Put(key string, value []byte) (err error)

	// Get should return ErrNotFound if the key is not in the store.
	Get(key string) (value []byte, err error)
}

var (
	// ErrNotFound indicates a key is not in the store.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the backend could not be reached or is no
	// longer usable, e.g., a closed database handle or an unreachable remote
	// instance. The store is down, the key is not known to be absent.
	ErrUnavailable = errors.New("unavailable")
)
