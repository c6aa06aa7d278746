package store

import (
	"context"
	"strings"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// AddSubtask appends a pending subtask to a task.
func (s *Store) AddSubtask(ctx context.Context, taskID task.ID, text string) (task.Subtask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Subtask{}, trackerrors.ErrEmptyText("subtask text")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(taskID)
	if i < 0 {
		return task.Subtask{}, trackerrors.ErrTaskNotFound(string(taskID))
	}
	t := s.tasks[i]

	id, err := s.freshID(func(id task.ID) bool { return t.FindSubtask(id) >= 0 })
	if err != nil {
		return task.Subtask{}, err
	}

	sub := task.Subtask{ID: id, Text: text}
	t.Subtasks = append(t.Subtasks, sub)

	s.persistTasks(ctx)
	s.events.SubtaskAdded(string(t.ID), string(sub.ID), sub.Text)
	return sub, nil
}

// ToggleSubtask flips a subtask's completed flag.
func (s *Store) ToggleSubtask(ctx context.Context, taskID, subtaskID task.ID) (task.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, j, err := s.subtask(taskID, subtaskID)
	if err != nil {
		return task.Subtask{}, err
	}

	t.Subtasks[j].Completed = !t.Subtasks[j].Completed
	sub := t.Subtasks[j]

	s.persistTasks(ctx)
	s.events.SubtaskToggled(string(t.ID), string(sub.ID), sub.Text, sub.Completed)
	return sub, nil
}

// DeleteSubtask removes a subtask from its task.
func (s *Store) DeleteSubtask(ctx context.Context, taskID, subtaskID task.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, j, err := s.subtask(taskID, subtaskID)
	if err != nil {
		return err
	}

	sub := t.Subtasks[j]
	t.Subtasks = append(t.Subtasks[:j:j], t.Subtasks[j+1:]...)

	s.persistTasks(ctx)
	s.events.SubtaskDeleted(string(t.ID), string(sub.ID), sub.Text)
	return nil
}

// subtask locates a subtask. Callers hold s.mu.
func (s *Store) subtask(taskID, subtaskID task.ID) (*task.Task, int, error) {
	i := s.index(taskID)
	if i < 0 {
		return nil, -1, trackerrors.ErrTaskNotFound(string(taskID))
	}
	t := s.tasks[i]
	j := t.FindSubtask(subtaskID)
	if j < 0 {
		return nil, -1, trackerrors.ErrSubtaskNotFoundIn(string(taskID), string(subtaskID))
	}
	return t, j, nil
}
