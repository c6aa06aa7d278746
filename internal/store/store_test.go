package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/storage"
	"github.com/randalmurphal/tasktrack/internal/task"
)

func TestCreate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	due, err := task.ParseDate("2024-07-01")
	require.NoError(t, err)

	created, err := h.store.Create(ctx, CreateInput{
		Text:     "  Write report  ",
		Priority: task.PriorityHigh,
		Category: "work",
		DueDate:  &due,
		Notes:    "quarterly",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Write report", created.Text)
	assert.False(t, created.Completed)
	assert.Equal(t, task.PriorityHigh, created.Priority)
	assert.Equal(t, "work", created.Category)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2024-07-01", created.DueDate.String())
	assert.Equal(t, "quarterly", created.Notes)
	assert.Empty(t, created.Subtasks)
	assert.NotNil(t, created.Subtasks)
	assert.Nil(t, created.CompletedAt)
	assert.Nil(t, created.UpdatedAt)
	assert.Equal(t, testNow.Truncate(time.Millisecond), created.CreatedAt)

	ev := h.nextEvent(t)
	assert.Equal(t, events.EventTaskAdded, ev.Type)
	assert.Equal(t, string(created.ID), ev.TaskID)

	assert.Equal(t, 1, h.kv.PutCalls())
}

func TestCreate_Defaults(t *testing.T) {
	h := newHarness(t)

	created := h.mustCreate(t, "Buy milk")
	assert.Equal(t, task.PriorityMedium, created.Priority)
	assert.Equal(t, task.DefaultCategory, created.Category)
	assert.Nil(t, created.DueDate)
	assert.Empty(t, created.Notes)
}

func TestCreate_ConfiguredDefaults(t *testing.T) {
	h := newHarness(t, WithDefaults(task.PriorityLow, "home"))

	created := h.mustCreate(t, "Water plants")
	assert.Equal(t, task.PriorityLow, created.Priority)
	assert.Equal(t, "home", created.Category)
}

func TestCreate_UniqueIDs(t *testing.T) {
	h := newHarness(t)

	seen := make(map[task.ID]bool)
	for range 50 {
		created := h.mustCreate(t, "same millisecond")
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
	assert.Equal(t, 50, h.store.Len())
}

func TestCreate_Rejected(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
	}{
		{"empty", CreateInput{Text: ""}},
		{"whitespace", CreateInput{Text: "   \t\n"}},
		{"bad priority", CreateInput{Text: "ok", Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			created, err := h.store.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.Nil(t, created)
			assert.ErrorIs(t, err, trackerrors.ErrValidation)
			assert.True(t, trackerrors.IsSilent(err))

			assert.Equal(t, 0, h.store.Len())
			assert.Equal(t, 0, h.kv.PutCalls())
			h.noEvent(t)
		})
	}
}

func TestToggleCompletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created := h.mustCreate(t, "Ship it")
	h.drain()

	h.clock.Advance(time.Hour)
	done, err := h.store.ToggleCompletion(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, testNow.Add(time.Hour).Truncate(time.Millisecond), *done.CompletedAt)
	assert.Equal(t, events.EventTaskCompleted, h.nextEvent(t).Type)

	reopened, err := h.store.ToggleCompletion(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, events.EventTaskPending, h.nextEvent(t).Type)
}

func TestToggleCompletion_NotFound(t *testing.T) {
	h := newHarness(t)
	h.mustCreate(t, "keep me")
	h.drain()
	before := h.store.Tasks()

	_, err := h.store.ToggleCompletion(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, trackerrors.ErrNotFound)
	assert.Equal(t, before, h.store.Tasks())
	h.noEvent(t)
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := h.mustCreate(t, "A")
	b := h.mustCreate(t, "B")
	c := h.mustCreate(t, "C")
	_, err := h.store.AddSubtask(ctx, b.ID, "child")
	require.NoError(t, err)
	h.drain()

	require.NoError(t, h.store.Delete(ctx, b.ID))
	assert.Equal(t, []task.ID{a.ID, c.ID}, ids(h.store.Tasks()))

	_, err = h.store.Get(b.ID)
	assert.ErrorIs(t, err, trackerrors.ErrNotFound)

	ev := h.nextEvent(t)
	assert.Equal(t, events.EventTaskDeleted, ev.Type)
	assert.Equal(t, events.TaskData{Text: "B"}, ev.Data)

	err = h.store.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, trackerrors.ErrNotFound)
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	due, _ := task.ParseDate("2024-12-24")
	created, err := h.store.Create(ctx, CreateInput{Text: "Draft", DueDate: &due, Notes: "n"})
	require.NoError(t, err)
	h.drain()
	h.clock.Advance(time.Minute)

	text := "  Final draft "
	prio := task.PriorityHigh
	edited, err := h.store.Edit(ctx, created.ID, task.Patch{Text: &text, Priority: &prio})
	require.NoError(t, err)

	assert.Equal(t, "Final draft", edited.Text)
	assert.Equal(t, task.PriorityHigh, edited.Priority)
	assert.Equal(t, task.DefaultCategory, edited.Category, "unset fields are untouched")
	assert.Equal(t, "n", edited.Notes)
	require.NotNil(t, edited.DueDate)
	require.NotNil(t, edited.UpdatedAt)
	assert.Equal(t, testNow.Add(time.Minute).Truncate(time.Millisecond), *edited.UpdatedAt)
	assert.Equal(t, created.CreatedAt, edited.CreatedAt)
	assert.Equal(t, events.EventTaskUpdated, h.nextEvent(t).Type)

	cleared, err := h.store.Edit(ctx, created.ID, task.Patch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)
}

func TestEdit_BlankCategoryFallsBack(t *testing.T) {
	h := newHarness(t)
	created, err := h.store.Create(context.Background(), CreateInput{Text: "x", Category: "work"})
	require.NoError(t, err)

	blank := "  "
	edited, err := h.store.Edit(context.Background(), created.ID, task.Patch{Category: &blank})
	require.NoError(t, err)
	assert.Equal(t, task.DefaultCategory, edited.Category)
}

func TestEdit_EmptyTextRejectsWholePatch(t *testing.T) {
	h := newHarness(t)
	created := h.mustCreate(t, "Keep")
	h.drain()
	puts := h.kv.PutCalls()

	empty := "   "
	prio := task.PriorityLow
	_, err := h.store.Edit(context.Background(), created.ID, task.Patch{Text: &empty, Priority: &prio})
	require.Error(t, err)
	assert.ErrorIs(t, err, trackerrors.ErrValidation)

	got, err := h.store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Text)
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Nil(t, got.UpdatedAt)
	assert.Equal(t, puts, h.kv.PutCalls())
	h.noEvent(t)
}

func TestEdit_NotFound(t *testing.T) {
	h := newHarness(t)
	text := "x"
	_, err := h.store.Edit(context.Background(), "nope", task.Patch{Text: &text})
	assert.ErrorIs(t, err, trackerrors.ErrNotFound)
}

func TestClearAll(t *testing.T) {
	h := newHarness(t)
	h.mustCreate(t, "A")
	h.mustCreate(t, "B")
	h.drain()

	removed := h.store.ClearAll(context.Background())
	assert.Equal(t, 2, removed)
	assert.Empty(t, h.store.Tasks())

	ev := h.nextEvent(t)
	assert.Equal(t, events.EventTasksCleared, ev.Type)
	assert.Equal(t, events.ClearedData{Removed: 2}, ev.Data)

	// Clearing an empty collection is allowed.
	assert.Equal(t, 0, h.store.ClearAll(context.Background()))
}

func TestTasks_ReturnsCopies(t *testing.T) {
	h := newHarness(t)
	created := h.mustCreate(t, "Original")

	snapshot := h.store.Tasks()
	snapshot[0].Text = "mutated"
	snapshot[0].Subtasks = append(snapshot[0].Subtasks, task.Subtask{ID: "x", Text: "x"})

	got, err := h.store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Text)
	assert.Empty(t, got.Subtasks)
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	h := newHarness(t)
	h.kv.FailPuts(true)

	created := h.mustCreate(t, "Survives")
	assert.Equal(t, 1, h.store.Len())

	err := h.store.PersistErr()
	require.Error(t, err)
	assert.ErrorIs(t, err, trackerrors.ErrPersistence)
	assert.ErrorIs(t, err, storage.ErrInjected)

	assert.Equal(t, events.EventPersistWarning, h.nextEvent(t).Type)
	assert.Equal(t, events.EventTaskAdded, h.nextEvent(t).Type)

	h.kv.FailPuts(false)
	_, err = h.store.ToggleCompletion(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NoError(t, h.store.PersistErr())
}

func TestNew_ReloadsSnapshot(t *testing.T) {
	kv := storage.NewFlakyKV(storage.NewMemoryKV())
	first := newHarnessOn(t, kv)
	a := first.mustCreate(t, "A")
	_, err := first.store.AddSubtask(context.Background(), a.ID, "a1")
	require.NoError(t, err)

	second := newHarnessOn(t, kv)
	assert.Equal(t, first.store.Tasks(), second.store.Tasks())
}

func TestNew_LoadFailure(t *testing.T) {
	kv := storage.NewFlakyKV(storage.NewMemoryKV())
	kv.FailGets(true)

	_, err := New(context.Background(), storage.NewAdapter(kv))
	require.Error(t, err)
	assert.ErrorIs(t, err, trackerrors.ErrPersistence)
}

func TestNew_CorruptSnapshot(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), storage.TasksKey, []byte(`{"oops":true}`)))

	_, err := New(context.Background(), storage.NewAdapter(kv))
	require.Error(t, err)
	assert.ErrorIs(t, err, trackerrors.ErrPersistence)
}

func TestTheme(t *testing.T) {
	kv := storage.NewFlakyKV(storage.NewMemoryKV())
	h := newHarnessOn(t, kv)
	ctx := context.Background()

	assert.True(t, h.store.Theme(), "dark by default")

	assert.False(t, h.store.ToggleTheme(ctx))
	ev := h.nextEvent(t)
	assert.Equal(t, events.EventThemeChanged, ev.Type)
	assert.Equal(t, events.ThemeData{Dark: false}, ev.Data)

	reloaded := newHarnessOn(t, kv)
	assert.False(t, reloaded.store.Theme())

	reloaded.store.SetTheme(ctx, true)
	assert.True(t, reloaded.store.Theme())
}

func TestTheme_PersistFailure(t *testing.T) {
	h := newHarness(t)
	h.kv.FailPuts(true)

	h.store.SetTheme(context.Background(), false)
	assert.False(t, h.store.Theme())
	assert.ErrorIs(t, h.store.PersistErr(), trackerrors.ErrPersistence)
}

func TestPersistErr_ThemeSaveDoesNotHideTaskFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.kv.FailPuts(true)
	h.mustCreate(t, "Unsaved")
	require.ErrorIs(t, h.store.PersistErr(), trackerrors.ErrPersistence)

	h.kv.FailPuts(false)
	h.store.SetTheme(ctx, false)
	assert.ErrorIs(t, h.store.PersistErr(), trackerrors.ErrPersistence, "task snapshot is still stale")

	h.mustCreate(t, "Saved")
	assert.NoError(t, h.store.PersistErr())
}

func TestPersistErr_TaskSaveDoesNotHideThemeFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.kv.FailPuts(true)
	h.store.SetTheme(ctx, false)
	h.kv.FailPuts(false)

	h.mustCreate(t, "Saved")
	assert.ErrorIs(t, h.store.PersistErr(), trackerrors.ErrPersistence)

	h.store.SetTheme(ctx, true)
	assert.NoError(t, h.store.PersistErr())
}
