package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tasktrack/internal/config"
	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/storage"
	"github.com/randalmurphal/tasktrack/internal/store"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// clock is the time source for every command. Tests replace it.
var clock task.Clock = task.SystemClock{}

// app is everything one command invocation needs.
type app struct {
	tc        *config.TrackedConfig
	adapter   *storage.Adapter
	store     *store.Store
	publisher *events.MemoryPublisher
	notifier  events.Publisher
	out       *ui
	errOut    *ui
}

// openApp loads config, opens storage and the store. Store events are
// printed as notifications on stderr; with --json only persistence warnings
// are printed.
func openApp(cmd *cobra.Command) (*app, error) {
	tc, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	adapter, err := storage.Open(tc.Config)
	if err != nil {
		return nil, trackerrors.ErrPersistenceFailed("open storage", err)
	}

	// The theme lives in storage, so styles are built after it is read.
	dark, err := adapter.LoadTheme(cmd.Context())
	if err != nil {
		slog.Warn("load theme failed, using default", "error", err)
	}
	errUI := newUI(cmd.ErrOrStderr(), tc.Config.Display, dark)

	publisher := events.NewMemoryPublisher()
	notifyOpts := []events.CLIPublisherOption{
		events.WithInnerPublisher(publisher),
		events.WithFormatter(errUI.notification),
	}
	if jsonOut {
		notifyOpts = append(notifyOpts, events.WithOnly(events.EventPersistWarning))
	}
	notifier := events.NewCLIPublisher(cmd.ErrOrStderr(), notifyOpts...)

	st, err := store.New(cmd.Context(), adapter,
		store.WithClock(clock),
		store.WithPublisher(notifier),
		store.WithLogger(slog.Default()),
		store.WithDefaults(task.Priority(tc.Config.Defaults.Priority), tc.Config.Defaults.Category),
	)
	if err != nil {
		_ = adapter.Close()
		publisher.Close()
		return nil, err
	}

	return &app{
		tc:        tc,
		adapter:   adapter,
		store:     st,
		publisher: publisher,
		notifier:  notifier,
		out:       newUI(cmd.OutOrStdout(), tc.Config.Display, dark),
		errOut:    errUI,
	}, nil
}

// Close releases storage and the publisher.
func (a *app) Close() error {
	a.publisher.Close()
	if err := a.adapter.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// withApp opens the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			slog.Warn("close failed", "error", cerr)
		}
	}()
	return fn(a)
}

// resolveTask finds a task by full id or unique id prefix.
func (a *app) resolveTask(ref string) (*task.Task, error) {
	if t, err := a.store.Get(task.ID(ref)); err == nil {
		return t, nil
	}

	var matches []*task.Task
	for _, t := range a.store.Tasks() {
		if ref != "" && strings.HasPrefix(string(t.ID), ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, trackerrors.ErrTaskNotFound(ref)
	default:
		return nil, ambiguousID(ref, len(matches))
	}
}

// resolveSubtask finds a subtask by full id, unique id prefix, or 1-based
// position.
func resolveSubtask(t *task.Task, ref string) (task.ID, error) {
	if t.FindSubtask(task.ID(ref)) >= 0 {
		return task.ID(ref), nil
	}

	var matches []task.ID
	for _, s := range t.Subtasks {
		if ref != "" && strings.HasPrefix(string(s.ID), ref) {
			matches = append(matches, s.ID)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return "", ambiguousID(ref, len(matches))
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(t.Subtasks) {
		return t.Subtasks[n-1].ID, nil
	}
	return "", trackerrors.ErrSubtaskNotFoundIn(string(t.ID), ref)
}

func ambiguousID(ref string, n int) error {
	return &trackerrors.TrackError{
		Code: trackerrors.CodeValidation,
		What: fmt.Sprintf("id prefix %q matches %d items", ref, n),
		Fix:  "Use more characters of the id",
	}
}

// shortIDs returns the shortest prefix length, at least minLen, that keeps every
// id distinct.
func shortIDs(ids []task.ID, minLen int) int {
	if len(ids) < 2 {
		return minLen
	}
	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = string(id)
	}
	sort.Strings(sorted)

	n := minLen
	for i := 1; i < len(sorted); i++ {
		common := commonPrefix(sorted[i-1], sorted[i])
		if common+1 > n {
			n = common + 1
		}
	}
	return n
}

func commonPrefix(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

func shortID(id task.ID, n int) string {
	if len(id) <= n {
		return string(id)
	}
	return string(id[:n])
}
