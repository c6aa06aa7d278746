package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// NewTestAdapter creates an adapter over a fresh MemoryKV.
// The adapter is automatically closed when the test completes.
func NewTestAdapter(t testing.TB) *Adapter {
	t.Helper()

	a := NewAdapter(NewMemoryKV())
	t.Cleanup(func() {
		_ = a.Close()
	})
	return a
}

// ErrInjected is returned by FlakyKV when a failure is switched on.
var ErrInjected = errors.New("injected storage failure")

// FlakyKV wraps a KV and fails reads or writes on demand.
type FlakyKV struct {
	KV

	mu       sync.Mutex
	failGet  bool
	failPut  bool
	putCalls int
}

// NewFlakyKV wraps kv with failures switched off.
func NewFlakyKV(kv KV) *FlakyKV {
	return &FlakyKV{KV: kv}
}

// FailGets makes every Get return ErrInjected while on.
func (f *FlakyKV) FailGets(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = on
}

// FailPuts makes every Put return ErrInjected while on.
func (f *FlakyKV) FailPuts(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut = on
}

// PutCalls returns how many times Put was called, failed or not.
func (f *FlakyKV) PutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCalls
}

// Get delegates unless gets are failing.
func (f *FlakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, false, ErrInjected
	}
	return f.KV.Get(ctx, key)
}

// Put delegates unless puts are failing.
func (f *FlakyKV) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.putCalls++
	fail := f.failPut
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.KV.Put(ctx, key, value)
}
