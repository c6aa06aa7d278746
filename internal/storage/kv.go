// Package storage persists the task collection and theme preference to a
// key-value byte store.
//
// Three KV backends are provided: MemoryKV for tests and throwaway sessions,
// FileKV for one-file-per-key storage, and DatabaseKV for the sqlite and
// postgres kv_store table. Adapter layers the canonical task-collection
// format and the two well-known keys on top of any of them.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by KV operations after Close.
var ErrClosed = errors.New("storage: kv store closed")

// KV is a durable key-value byte store.
// All implementations must be safe for concurrent access.
type KV interface {
	// Get returns the value under key. found is false when the key is absent;
	// absence is not an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}
