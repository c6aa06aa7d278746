package storage

import (
	"context"
	"sync"

	"github.com/randalmurphal/tasktrack/internal/db"
)

// DatabaseKV stores values in the kv_store table of a sqlite or postgres
// database.
type DatabaseKV struct {
	db     *db.DB
	mu     sync.RWMutex
	closed bool
}

// NewDatabaseKV wraps an open, migrated database. The KV owns the
// connection and closes it on Close.
func NewDatabaseKV(d *db.DB) *DatabaseKV {
	return &DatabaseKV{db: d}
}

// NewInMemoryDatabaseKV opens a private in-memory sqlite database.
func NewInMemoryDatabaseKV() (*DatabaseKV, error) {
	d, err := db.OpenInMemory()
	if err != nil {
		return nil, err
	}
	return NewDatabaseKV(d), nil
}

// DB returns the underlying database.
func (k *DatabaseKV) DB() *db.DB {
	return k.db
}

// Get reads the row for key.
func (k *DatabaseKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return nil, false, ErrClosed
	}
	return k.db.GetValue(ctx, key)
}

// Put upserts the row for key.
func (k *DatabaseKV) Put(ctx context.Context, key string, value []byte) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}
	return k.db.PutValue(ctx, key, value)
}

// Delete removes the row for key.
func (k *DatabaseKV) Delete(ctx context.Context, key string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}
	return k.db.DeleteValue(ctx, key)
}

// Close closes the database. Calling Close twice is safe.
func (k *DatabaseKV) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	return k.db.Close()
}
