package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid file change events.
// It waits for a quiet period before firing the callback.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]*time.Timer // keyed by path
	interval time.Duration
	callback func(path string)
	stopped  bool
}

// NewDebouncer creates a debouncer with the given interval in milliseconds.
func NewDebouncer(intervalMs int, callback func(path string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]*time.Timer),
		interval: time.Duration(intervalMs) * time.Millisecond,
		callback: callback,
	}
}

// Trigger registers a change to path. If one is already pending, its timer
// is reset.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, exists := d.pending[path]; exists {
		timer.Stop()
	}
	d.pending[path] = time.AfterFunc(d.interval, func() {
		d.fire(path)
	})
}

// fire executes the callback for a debounced event.
func (d *Debouncer) fire(path string) {
	d.mu.Lock()
	if _, exists := d.pending[path]; !exists || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	d.mu.Unlock()

	// Call the callback outside the lock
	d.callback(path)
}

// Stop cancels all pending timers and prevents new events.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true

	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
}

// PendingCount returns the number of pending debounced events.
// Useful for testing.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
