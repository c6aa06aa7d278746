package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/storage"
	"github.com/randalmurphal/tasktrack/internal/task"
)

var testNow = time.Date(2024, 6, 1, 10, 30, 0, 123456789, time.UTC)

type harness struct {
	store  *Store
	kv     *storage.FlakyKV
	clock  *task.FixedClock
	events <-chan events.Event
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	kv := storage.NewFlakyKV(storage.NewMemoryKV())
	return newHarnessOn(t, kv, opts...)
}

func newHarnessOn(t *testing.T, kv *storage.FlakyKV, opts ...Option) *harness {
	t.Helper()

	clock := task.NewFixedClock(testNow)
	pub := events.NewMemoryPublisher()
	t.Cleanup(pub.Close)
	ch := pub.Subscribe(events.GlobalTaskID)

	base := []Option{
		WithClock(clock),
		WithIDGenerator(task.NewSequenceGenerator("t", task.WithClock(clock))),
		WithPublisher(pub),
	}
	s, err := New(context.Background(), storage.NewAdapter(kv), append(base, opts...)...)
	require.NoError(t, err)

	return &harness{store: s, kv: kv, clock: clock, events: ch}
}

// nextEvent returns the next published event, failing if none arrives.
func (h *harness) nextEvent(t *testing.T) events.Event {
	t.Helper()
	select {
	case ev := <-h.events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return events.Event{}
	}
}

// drain discards pending events.
func (h *harness) drain() {
	for {
		select {
		case <-h.events:
		default:
			return
		}
	}
}

func (h *harness) noEvent(t *testing.T) {
	t.Helper()
	select {
	case ev := <-h.events:
		t.Fatalf("unexpected event %s", ev.Type)
	default:
	}
}

func (h *harness) mustCreate(t *testing.T, text string) *task.Task {
	t.Helper()
	created, err := h.store.Create(context.Background(), CreateInput{Text: text})
	require.NoError(t, err)
	return created
}

func ids(tasks []*task.Task) []task.ID {
	out := make([]task.ID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
