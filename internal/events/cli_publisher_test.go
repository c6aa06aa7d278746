package events

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIPublisher_WritesNotifications(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLIPublisher(&buf)

	p.Publish(NewEvent(EventTaskAdded, "t1", TaskData{Text: "x"}))
	p.Publish(NewEvent(EventType("unknown"), "", nil))
	p.Publish(NewEvent(EventTasksCleared, "", ClearedData{Removed: 1}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[success] Task added successfully!",
		"[warning] All tasks cleared!",
	}, lines)
}

func TestCLIPublisher_Formatter(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLIPublisher(&buf, WithFormatter(func(level Level, msg string) string {
		return strings.ToUpper(string(level)) + ": " + msg
	}))

	p.Publish(NewEvent(EventTaskDeleted, "t1", nil))
	assert.Equal(t, "WARNING: Task deleted!\n", buf.String())
}

func TestCLIPublisher_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLIPublisher(&buf, WithJSONLines(true))

	p.Publish(NewEvent(EventTaskAdded, "t1", TaskData{Text: "Ship it"}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "task_added", decoded["type"])
	assert.Equal(t, "t1", decoded["task_id"])
}

func TestCLIPublisher_OnlyFiltersOutputNotFanOut(t *testing.T) {
	var buf bytes.Buffer
	inner := NewMemoryPublisher()
	defer inner.Close()

	p := NewCLIPublisher(&buf, WithInnerPublisher(inner), WithOnly(EventOverdueReminder))
	ch := p.Subscribe(GlobalTaskID)

	p.Publish(NewEvent(EventTaskAdded, "t1", nil))
	assert.Empty(t, buf.String())
	assert.Equal(t, EventTaskAdded, receive(t, ch).Type)

	p.Publish(NewEvent(EventOverdueReminder, "", ReminderData{Count: 1}))
	assert.Contains(t, buf.String(), "You have 1 overdue task(s)!")
}

func TestCLIPublisher_NoInner(t *testing.T) {
	p := NewCLIPublisher(&bytes.Buffer{})
	ch := p.Subscribe(GlobalTaskID)
	_, ok := <-ch
	assert.False(t, ok)
	p.Unsubscribe(GlobalTaskID, ch)
	p.Close()
}
