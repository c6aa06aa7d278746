// Package store owns the in-memory task collection.
//
// Every mutation validates its input, changes the collection, writes a full
// snapshot through the storage adapter and publishes one event. A failed
// write never undoes the mutation: the in-memory collection stays
// authoritative for the session and the failure is reported through
// PersistErr, a log line and a persist_warning event.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/storage"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// maxIDAttempts bounds how often a generator may return a taken id before
// the store gives up.
const maxIDAttempts = 16

// Store is the task collection plus the theme preference.
type Store struct {
	mu sync.RWMutex

	adapter *storage.Adapter
	tasks   []*task.Task
	dark    bool

	clock           task.Clock
	ids             task.IDGenerator
	events          *events.PublishHelper
	publisher       events.Publisher
	logger          *slog.Logger
	defaultPriority task.Priority
	defaultCategory string

	// Last write failure per persisted key; nil once that key saves again.
	tasksErr error
	themeErr error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(c task.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithIDGenerator sets the generator for task and subtask ids.
func WithIDGenerator(g task.IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithPublisher sets the publisher that receives store events.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDefaults sets the priority and category applied when Create is called
// without them. Empty values keep the built-in defaults.
func WithDefaults(priority task.Priority, category string) Option {
	return func(s *Store) {
		if priority != "" {
			s.defaultPriority = priority
		}
		if strings.TrimSpace(category) != "" {
			s.defaultCategory = strings.TrimSpace(category)
		}
	}
}

// New loads the persisted snapshot and theme from adapter.
//
// An absent snapshot is an empty collection. A snapshot that cannot be read
// or decoded is returned as an error so it is never overwritten by the next
// save. An unreadable theme only logs a warning and falls back to dark.
func New(ctx context.Context, adapter *storage.Adapter, opts ...Option) (*Store, error) {
	s := &Store{
		adapter:         adapter,
		clock:           task.SystemClock{},
		ids:             task.NewUUIDGenerator(),
		logger:          slog.Default(),
		defaultPriority: task.DefaultPriority,
		defaultCategory: task.DefaultCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = events.NewPublishHelper(s.publisher, s.now)

	tasks, err := adapter.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	s.tasks = tasks

	dark, err := adapter.LoadTheme(ctx)
	if err != nil {
		s.logger.Warn("load theme failed, using default", "error", err)
	}
	s.dark = dark

	s.logger.Debug("store loaded", "tasks", len(s.tasks), "dark", s.dark)
	return s, nil
}

// now returns the clock's time in UTC at millisecond precision, the
// resolution timestamps are serialized with.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// Now exposes the store's clock for callers that derive state such as
// overdue status.
func (s *Store) Now() time.Time {
	return s.now()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Tasks returns a deep copy of the collection in insertion order.
func (s *Store) Tasks() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// PersistErr reports an unresolved persistence failure: the task snapshot's
// if its last write failed, otherwise the theme's. It is nil only when the
// last write of each key succeeded.
func (s *Store) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tasksErr != nil {
		return s.tasksErr
	}
	return s.themeErr
}

// persistTasks writes the snapshot. Callers hold s.mu.
func (s *Store) persistTasks(ctx context.Context) {
	s.tasksErr = s.adapter.SaveTasks(ctx, s.tasks)
	if s.tasksErr != nil {
		s.warnPersist("save tasks", s.tasksErr)
	}
}

func (s *Store) warnPersist(op string, err error) {
	s.logger.Warn("persist failed", "op", op, "error", err)
	s.events.PersistWarning(op, err)
}

// index returns the position of the task with id, or -1. Callers hold s.mu.
func (s *Store) index(id task.ID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// freshID draws ids until one is not in taken.
func (s *Store) freshID(taken func(task.ID) bool) (task.ID, error) {
	var last task.ID
	for range maxIDAttempts {
		id, err := s.ids.Next()
		if err != nil {
			return "", err
		}
		if id != "" && !taken(id) {
			return id, nil
		}
		last = id
	}
	return "", fmt.Errorf("generate id: %q already taken after %d attempts", last, maxIDAttempts)
}

func (s *Store) taskIDTaken(id task.ID) bool {
	return s.index(id) >= 0
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
