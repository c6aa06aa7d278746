package storage

import (
	"context"
	"strconv"
	"strings"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// Well-known keys.
const (
	TasksKey = "tasktrack_tasks"
	ThemeKey = "tasktrack_theme"
)

// DefaultDarkTheme is the theme used when none has been saved.
const DefaultDarkTheme = true

// Adapter persists the task snapshot and theme preference to a KV.
// Failures are returned as PERSISTENCE_FAILED errors.
type Adapter struct {
	kv KV
}

// NewAdapter wraps kv.
func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// KV returns the underlying store.
func (a *Adapter) KV() KV {
	return a.kv
}

// LoadTasks reads the persisted snapshot. An absent key is an empty
// collection.
func (a *Adapter) LoadTasks(ctx context.Context) ([]*task.Task, error) {
	data, found, err := a.kv.Get(ctx, TasksKey)
	if err != nil {
		return nil, trackerrors.ErrPersistenceFailed("load tasks", err)
	}
	if !found {
		return []*task.Task{}, nil
	}
	tasks, err := Decode(data)
	if err != nil {
		return nil, trackerrors.ErrPersistenceFailed("load tasks", err)
	}
	return tasks, nil
}

// SaveTasks writes a complete snapshot of tasks.
func (a *Adapter) SaveTasks(ctx context.Context, tasks []*task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return trackerrors.ErrPersistenceFailed("save tasks", err)
	}
	if err := a.kv.Put(ctx, TasksKey, data); err != nil {
		return trackerrors.ErrPersistenceFailed("save tasks", err)
	}
	return nil
}

// LoadTheme returns the saved dark-theme flag, or DefaultDarkTheme when
// nothing has been saved. An unreadable value returns the default together
// with the error.
func (a *Adapter) LoadTheme(ctx context.Context) (bool, error) {
	data, found, err := a.kv.Get(ctx, ThemeKey)
	if err != nil {
		return DefaultDarkTheme, trackerrors.ErrPersistenceFailed("load theme", err)
	}
	if !found {
		return DefaultDarkTheme, nil
	}
	dark, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		return DefaultDarkTheme, trackerrors.ErrPersistenceFailed("load theme", err)
	}
	return dark, nil
}

// SaveTheme stores the dark-theme flag as "true" or "false".
func (a *Adapter) SaveTheme(ctx context.Context, dark bool) error {
	if err := a.kv.Put(ctx, ThemeKey, []byte(strconv.FormatBool(dark))); err != nil {
		return trackerrors.ErrPersistenceFailed("save theme", err)
	}
	return nil
}

// Close closes the underlying store.
func (a *Adapter) Close() error {
	return a.kv.Close()
}
