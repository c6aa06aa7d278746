package events

import (
	"time"
)

// PublishHelper wraps event publishing with nil-safety and typed methods.
// All methods are safe to call even when the underlying publisher is nil.
type PublishHelper struct {
	publisher Publisher
	now       func() time.Time
}

// NewPublishHelper creates a new PublishHelper wrapping the given publisher.
// now stamps each event; nil means time.Now.
func NewPublishHelper(p Publisher, now func() time.Time) *PublishHelper {
	if now == nil {
		now = time.Now
	}
	return &PublishHelper{publisher: p, now: now}
}

// Publish sends an event to the underlying publisher.
// Safe to call with nil publisher (no-op).
func (ep *PublishHelper) Publish(ev Event) {
	if ep == nil || ep.publisher == nil {
		return
	}
	ep.publisher.Publish(ev)
}

func (ep *PublishHelper) emit(t EventType, taskID string, data any) {
	if ep == nil || ep.publisher == nil {
		return
	}
	ep.publisher.Publish(NewEventAt(t, taskID, data, ep.now()))
}

// TaskAdded publishes a task_added event.
func (ep *PublishHelper) TaskAdded(taskID, text string) {
	ep.emit(EventTaskAdded, taskID, TaskData{Text: text})
}

// TaskToggled publishes task_completed or task_pending depending on the new
// state.
func (ep *PublishHelper) TaskToggled(taskID, text string, completed bool) {
	t := EventTaskPending
	if completed {
		t = EventTaskCompleted
	}
	ep.emit(t, taskID, TaskData{Text: text})
}

// TaskDeleted publishes a task_deleted event.
func (ep *PublishHelper) TaskDeleted(taskID, text string) {
	ep.emit(EventTaskDeleted, taskID, TaskData{Text: text})
}

// TaskUpdated publishes a task_updated event.
func (ep *PublishHelper) TaskUpdated(taskID, text string) {
	ep.emit(EventTaskUpdated, taskID, TaskData{Text: text})
}

// SubtaskAdded publishes a subtask_added event.
func (ep *PublishHelper) SubtaskAdded(taskID, subtaskID, text string) {
	ep.emit(EventSubtaskAdded, taskID, SubtaskData{SubtaskID: subtaskID, Text: text})
}

// SubtaskToggled publishes a subtask_toggled event.
func (ep *PublishHelper) SubtaskToggled(taskID, subtaskID, text string, completed bool) {
	ep.emit(EventSubtaskToggled, taskID, SubtaskData{SubtaskID: subtaskID, Text: text, Completed: completed})
}

// SubtaskDeleted publishes a subtask_deleted event.
func (ep *PublishHelper) SubtaskDeleted(taskID, subtaskID, text string) {
	ep.emit(EventSubtaskDeleted, taskID, SubtaskData{SubtaskID: subtaskID, Text: text})
}

// Cleared publishes a tasks_cleared event.
func (ep *PublishHelper) Cleared(removed int) {
	ep.emit(EventTasksCleared, "", ClearedData{Removed: removed})
}

// Imported publishes a tasks_imported event.
func (ep *PublishHelper) Imported(count int, regenerated map[string]string) {
	ep.emit(EventTasksImported, "", ImportedData{Count: count, Regenerated: regenerated})
}

// Reloaded publishes a tasks_reloaded event.
func (ep *PublishHelper) Reloaded(count int) {
	ep.emit(EventTasksReloaded, "", ReloadedData{Count: count})
}

// ThemeChanged publishes a theme_changed event.
func (ep *PublishHelper) ThemeChanged(dark bool) {
	ep.emit(EventThemeChanged, "", ThemeData{Dark: dark})
}

// PersistWarning publishes a persist_warning event for a failed write.
func (ep *PublishHelper) PersistWarning(op string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	ep.emit(EventPersistWarning, "", WarningData{Op: op, Message: msg})
}

// OverdueReminder publishes an overdue_reminder event.
func (ep *PublishHelper) OverdueReminder(taskIDs []string) {
	ep.emit(EventOverdueReminder, "", ReminderData{Count: len(taskIDs), TaskIDs: taskIDs})
}
