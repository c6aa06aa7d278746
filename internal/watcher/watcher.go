// Package watcher notices when another process rewrites the stored task
// snapshot. It watches the directories holding the snapshot files and calls
// back once per burst of writes whose content actually changed.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Config configures the file watcher.
type Config struct {
	// Paths are the files to watch. Their parent directories must exist.
	Paths      []string
	OnChange   func(path string)
	Logger     *slog.Logger
	DebounceMs int // Debounce interval in milliseconds (default: 300)
}

// Watcher monitors snapshot files for changes.
type Watcher struct {
	paths     []string
	onChange  func(path string)
	logger    *slog.Logger
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	// Content hashing to detect meaningful changes
	hashes   map[string]string
	hashesMu sync.Mutex

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new file watcher.
func New(cfg *Config) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounceMs := cfg.DebounceMs
	if debounceMs <= 0 {
		debounceMs = 300
	}

	paths := make([]string, 0, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		paths = append(paths, abs)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		paths:     paths,
		onChange:  cfg.OnChange,
		logger:    logger,
		fsWatcher: fsWatcher,
		hashes:    make(map[string]string),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(debounceMs, w.handleDebouncedEvent)

	return w, nil
}

// Start begins watching. It blocks until ctx is cancelled or the underlying
// watcher fails to start.
func (w *Watcher) Start(ctx context.Context) error {
	// Files replaced by rename lose their watch, so watch the directories.
	var dirs []string
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
		if _, err := w.hasContentChanged(p); err != nil {
			w.logger.Debug("failed to hash initial content", "path", p, "error", err)
		}
	}
	for _, dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			_ = w.Stop()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.logger.Debug("file watcher started", "paths", w.paths)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("file watcher stopping", "reason", "context cancelled")
			_ = w.Stop()
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.debouncer.Stop()
		if cerr := w.fsWatcher.Close(); cerr != nil {
			err = fmt.Errorf("close fsnotify watcher: %w", cerr)
		}
	})
	return err
}

// Done returns a channel that's closed when the watcher stops.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// handleFSEvent processes a raw fsnotify event.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !slices.Contains(w.paths, path) {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	w.debouncer.Trigger(path)
}

func (w *Watcher) handleDebouncedEvent(path string) {
	changed, err := w.hasContentChanged(path)
	if err != nil {
		w.logger.Debug("failed to check content change", "path", path, "error", err)
		return
	}
	if !changed {
		w.logger.Debug("content unchanged, skipping event", "path", path)
		return
	}

	w.logger.Debug("snapshot changed", "path", path)
	w.onChange(path)
}

// hasContentChanged hashes path and compares with the last hash seen. A
// missing file hashes to "".
func (w *Watcher) hasContentChanged(path string) (bool, error) {
	hash, err := hashFile(path)
	if err != nil {
		return false, err
	}

	w.hashesMu.Lock()
	defer w.hashesMu.Unlock()

	prev, seen := w.hashes[path]
	w.hashes[path] = hash
	return !seen || prev != hash, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
