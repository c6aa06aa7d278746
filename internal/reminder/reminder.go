// Package reminder periodically reports overdue tasks.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/query"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// DefaultInterval is how often the collection is scanned.
const DefaultInterval = time.Minute

// Source supplies the tasks to scan and the current time. *store.Store
// implements it.
type Source interface {
	Tasks() []*task.Task
	Now() time.Time
}

// Config configures a Watcher.
type Config struct {
	Source    Source
	Publisher events.Publisher
	Logger    *slog.Logger
	Interval  time.Duration // default: DefaultInterval
}

// Watcher scans for overdue tasks on a fixed interval and publishes an
// overdue_reminder event whenever at least one is found.
type Watcher struct {
	source   Source
	events   *events.PublishHelper
	logger   *slog.Logger
	interval time.Duration
}

// New creates a reminder watcher.
func New(cfg Config) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		source:   cfg.Source,
		events:   events.NewPublishHelper(cfg.Publisher, cfg.Source.Now),
		logger:   logger,
		interval: interval,
	}
}

// Interval returns the scan interval.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// Run scans once per interval until ctx is cancelled. The first scan happens
// one interval after Run starts. Run always returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Debug("reminder watcher started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("reminder watcher stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check scans the collection once and returns the overdue task ids. An
// event is published only when the result is non-empty.
func (w *Watcher) Check() []string {
	overdue := query.Overdue(w.source.Tasks(), w.source.Now())
	if len(overdue) == 0 {
		return nil
	}

	ids := make([]string, len(overdue))
	for i, t := range overdue {
		ids[i] = string(t.ID)
	}
	w.logger.Info("overdue tasks", "count", len(ids))
	w.events.OverdueReminder(ids)
	return ids
}
