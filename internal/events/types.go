// Package events provides store-change notifications for tasktrack.
//
// The task store publishes one event per successful mutation. Presentation
// code subscribes to re-render or to show a short notification.
package events

import (
	"fmt"
	"time"
)

// EventType defines the type of event.
type EventType string

const (
	// Task lifecycle

	// EventTaskAdded indicates a task was created.
	EventTaskAdded EventType = "task_added"
	// EventTaskCompleted indicates a task moved from pending to completed.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskPending indicates a completed task was reopened.
	EventTaskPending EventType = "task_pending"
	// EventTaskDeleted indicates a task and its subtasks were removed.
	EventTaskDeleted EventType = "task_deleted"
	// EventTaskUpdated indicates task fields were edited.
	EventTaskUpdated EventType = "task_updated"

	// Subtasks

	EventSubtaskAdded   EventType = "subtask_added"
	EventSubtaskToggled EventType = "subtask_toggled"
	EventSubtaskDeleted EventType = "subtask_deleted"

	// Collection-wide

	// EventTasksCleared indicates the collection was emptied.
	EventTasksCleared EventType = "tasks_cleared"
	// EventTasksImported indicates a batch was appended.
	EventTasksImported EventType = "tasks_imported"
	// EventTasksReloaded indicates the collection was re-read after another
	// process changed the stored snapshot.
	EventTasksReloaded EventType = "tasks_reloaded"
	// EventThemeChanged indicates the theme preference changed.
	EventThemeChanged EventType = "theme_changed"

	// EventPersistWarning indicates a snapshot could not be written. The
	// in-memory collection stays authoritative.
	EventPersistWarning EventType = "persist_warning"
	// EventOverdueReminder is raised periodically while overdue tasks exist.
	EventOverdueReminder EventType = "overdue_reminder"
)

// Level is the severity a notification should be shown with.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event represents a published event.
type Event struct {
	Type   EventType `json:"type"`
	TaskID string    `json:"task_id,omitempty"`
	Data   any       `json:"data,omitempty"`
	Time   time.Time `json:"time"`
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(eventType EventType, taskID string, data any) Event {
	return NewEventAt(eventType, taskID, data, time.Now())
}

// NewEventAt creates a new event stamped with at.
func NewEventAt(eventType EventType, taskID string, data any, at time.Time) Event {
	return Event{
		Type:   eventType,
		TaskID: taskID,
		Data:   data,
		Time:   at,
	}
}

// TaskData identifies the task an event is about.
type TaskData struct {
	Text string `json:"text"`
}

// SubtaskData describes a subtask change.
type SubtaskData struct {
	SubtaskID string `json:"subtask_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// ClearedData reports how many tasks a clear removed.
type ClearedData struct {
	Removed int `json:"removed"`
}

// ImportedData reports the outcome of a batch import.
type ImportedData struct {
	Count int `json:"count"`
	// Regenerated maps original ids that collided to their replacements.
	Regenerated map[string]string `json:"regenerated,omitempty"`
}

// ReloadedData reports the size of a reloaded collection.
type ReloadedData struct {
	Count int `json:"count"`
}

// ThemeData carries the new theme preference.
type ThemeData struct {
	Dark bool `json:"dark"`
}

// WarningData represents a non-fatal warning.
type WarningData struct {
	Op      string `json:"op"`
	Message string `json:"message"`
}

// ReminderData lists the overdue tasks found by a scan.
type ReminderData struct {
	Count   int      `json:"count"`
	TaskIDs []string `json:"task_ids"`
}

// Notification returns the short user-facing message for an event and the
// level it should be shown at. ok is false for events that carry no message.
func (e Event) Notification() (level Level, msg string, ok bool) {
	switch e.Type {
	case EventTaskAdded:
		return LevelSuccess, "Task added successfully!", true
	case EventTaskCompleted:
		return LevelSuccess, "Task completed!", true
	case EventTaskPending:
		return LevelInfo, "Task marked as pending", true
	case EventTaskDeleted:
		return LevelWarning, "Task deleted!", true
	case EventTaskUpdated:
		return LevelSuccess, "Task updated!", true
	case EventSubtaskAdded:
		return LevelSuccess, "Subtask added!", true
	case EventSubtaskToggled:
		if d, ok := e.Data.(SubtaskData); ok && !d.Completed {
			return LevelInfo, "Subtask marked as pending", true
		}
		return LevelSuccess, "Subtask completed!", true
	case EventSubtaskDeleted:
		return LevelWarning, "Subtask deleted!", true
	case EventTasksCleared:
		return LevelWarning, "All tasks cleared!", true
	case EventTasksImported:
		if d, ok := e.Data.(ImportedData); ok {
			return LevelSuccess, fmt.Sprintf("Imported %d task(s) successfully!", d.Count), true
		}
		return LevelSuccess, "Tasks imported successfully!", true
	case EventTasksReloaded:
		return LevelInfo, "Tasks reloaded from storage", true
	case EventThemeChanged:
		theme := "light"
		if d, ok := e.Data.(ThemeData); ok && d.Dark {
			theme = "dark"
		}
		return LevelInfo, fmt.Sprintf("Switched to %s theme!", theme), true
	case EventPersistWarning:
		if d, ok := e.Data.(WarningData); ok {
			return LevelWarning, fmt.Sprintf("Could not %s; changes are kept for this session only (%s)", d.Op, d.Message), true
		}
		return LevelWarning, "Could not save tasks; changes are kept for this session only", true
	case EventOverdueReminder:
		if d, ok := e.Data.(ReminderData); ok {
			return LevelWarning, fmt.Sprintf("You have %d overdue task(s)!", d.Count), true
		}
		return LevelWarning, "You have overdue tasks!", true
	default:
		return "", "", false
	}
}
