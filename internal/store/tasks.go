package store

import (
	"context"
	"strings"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// CreateInput holds the fields for a new task. Empty Priority and Category
// take the store defaults.
type CreateInput struct {
	Text     string
	Priority task.Priority
	Category string
	DueDate  *task.Date
	Notes    string
}

// Create appends a new pending task and returns a copy of it.
func (s *Store) Create(ctx context.Context, in CreateInput) (*task.Task, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, trackerrors.ErrEmptyText("task text")
	}

	priority := in.Priority
	if priority == "" {
		priority = s.defaultPriority
	}
	if !task.IsValidPriority(priority) {
		return nil, trackerrors.ErrInvalidValue("priority", string(priority), priorityNames())
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = s.defaultCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freshID(s.taskIDTaken)
	if err != nil {
		return nil, err
	}

	t := &task.Task{
		ID:        id,
		Text:      text,
		Priority:  priority,
		Category:  category,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
		Subtasks:  []task.Subtask{},
	}
	if in.DueDate != nil && !in.DueDate.IsZero() {
		d := *in.DueDate
		t.DueDate = &d
	}

	s.tasks = append(s.tasks, t)
	s.persistTasks(ctx)
	s.events.TaskAdded(string(t.ID), t.Text)

	return t.Clone(), nil
}

// Get returns a copy of the task with id.
func (s *Store) Get(id task.ID) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return nil, trackerrors.ErrTaskNotFound(string(id))
	}
	return s.tasks[i].Clone(), nil
}

// ToggleCompletion flips a task between pending and completed. completedAt is
// set when the task completes and cleared when it is reopened.
func (s *Store) ToggleCompletion(ctx context.Context, id task.ID) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, trackerrors.ErrTaskNotFound(string(id))
	}

	t := s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		now := s.now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}

	s.persistTasks(ctx)
	s.events.TaskToggled(string(t.ID), t.Text, t.Completed)

	return t.Clone(), nil
}

// Delete removes a task together with its subtasks.
func (s *Store) Delete(ctx context.Context, id task.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return trackerrors.ErrTaskNotFound(string(id))
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)

	s.persistTasks(ctx)
	s.events.TaskDeleted(string(removed.ID), removed.Text)
	return nil
}

// Edit applies the set fields of patch to a task and stamps updatedAt.
// An invalid patch changes nothing. A category that trims to empty falls
// back to the default category.
func (s *Store) Edit(ctx context.Context, id task.ID, patch task.Patch) (*task.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Category != nil {
		c := strings.TrimSpace(*patch.Category)
		if c == "" {
			c = s.defaultCategory
		}
		patch.Category = &c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, trackerrors.ErrTaskNotFound(string(id))
	}

	t := s.tasks[i]
	patch.Apply(t)
	now := s.now()
	t.UpdatedAt = &now

	s.persistTasks(ctx)
	s.events.TaskUpdated(string(t.ID), t.Text)

	return t.Clone(), nil
}

// ClearAll removes every task and returns how many were removed.
func (s *Store) ClearAll(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	s.tasks = []*task.Task{}

	s.persistTasks(ctx)
	s.events.Cleared(removed)
	return removed
}

func priorityNames() []string {
	valid := task.ValidPriorities()
	names := make([]string, len(valid))
	for i, p := range valid {
		names[i] = string(p)
	}
	return names
}
