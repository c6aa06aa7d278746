package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/task"
)

type fakeSource struct {
	mu    sync.Mutex
	tasks []*task.Task
	clock *task.FixedClock
}

func (f *fakeSource) Tasks() []*task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*task.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (f *fakeSource) Now() time.Time {
	return f.clock.Now()
}

func (f *fakeSource) set(tasks ...*task.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = tasks
}

func due(t *testing.T, s string) *task.Date {
	t.Helper()
	d, err := task.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestCheck(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{clock: task.NewFixedClock(now)}
	src.set(
		&task.Task{ID: "late", Text: "late", DueDate: due(t, "2024-01-01")},
		&task.Task{ID: "done", Text: "done", Completed: true, DueDate: due(t, "2024-01-01")},
		&task.Task{ID: "future", Text: "future", DueDate: due(t, "2025-01-01")},
		&task.Task{ID: "undated", Text: "undated"},
	)

	pub := events.NewMemoryPublisher()
	defer pub.Close()
	ch := pub.Subscribe(events.GlobalTaskID, events.EventOverdueReminder)

	w := New(Config{Source: src, Publisher: pub})
	assert.Equal(t, DefaultInterval, w.Interval())

	assert.Equal(t, []string{"late"}, w.Check())

	select {
	case ev := <-ch:
		assert.Equal(t, events.ReminderData{Count: 1, TaskIDs: []string{"late"}}, ev.Data)
		assert.Equal(t, now, ev.Time)
	case <-time.After(time.Second):
		t.Fatal("no reminder published")
	}
}

func TestCheck_NothingOverdue(t *testing.T) {
	src := &fakeSource{clock: task.NewFixedClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}
	src.set(&task.Task{ID: "a", Text: "a"})

	pub := events.NewMemoryPublisher()
	defer pub.Close()
	ch := pub.Subscribe(events.GlobalTaskID)

	w := New(Config{Source: src, Publisher: pub})
	assert.Empty(t, w.Check())
	assert.Len(t, ch, 0)
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	src := &fakeSource{clock: task.NewFixedClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))}
	src.set(&task.Task{ID: "late", Text: "late", DueDate: due(t, "2024-05-01")})

	pub := events.NewMemoryPublisher()
	defer pub.Close()
	ch := pub.Subscribe(events.GlobalTaskID, events.EventOverdueReminder)

	w := New(Config{Source: src, Publisher: pub, Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for range 2 {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("expected periodic reminders")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
