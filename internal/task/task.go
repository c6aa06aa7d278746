// Package task defines the task and subtask records managed by tasktrack.
package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultCategory is applied when a task is created without a category.
const DefaultCategory = "general"

// TimestampLayout is the ISO-8601 layout used for createdAt, completedAt and
// updatedAt. Millisecond precision, always UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ID is an opaque task or subtask identifier.
//
// Older exports wrote numeric ids; UnmarshalJSON accepts both JSON numbers and
// strings so those files still import.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// Subtask is a checklist item belonging to exactly one task.
type Subtask struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is a single unit of work.
type Task struct {
	ID          ID
	Text        string
	Completed   bool
	Priority    Priority
	Category    string
	DueDate     *Date
	Notes       string
	CreatedAt   time.Time
	CompletedAt *time.Time
	UpdatedAt   *time.Time
	Subtasks    []Subtask
}

// IsOverdue reports whether the task has a due date before now and is not
// completed. A due date is compared as midnight UTC of that day.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Time().Before(now)
}

// SubtaskProgress returns the number of completed subtasks and the total.
func (t *Task) SubtaskProgress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// FindSubtask returns the index of the subtask with the given id, or -1.
func (t *Task) FindSubtask(id ID) int {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	if t.UpdatedAt != nil {
		ts := *t.UpdatedAt
		c.UpdatedAt = &ts
	}
	c.Subtasks = make([]Subtask, len(t.Subtasks))
	copy(c.Subtasks, t.Subtasks)
	return &c
}

// taskJSON is the canonical wire shape of a task.
type taskJSON struct {
	ID          ID        `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	DueDate     *Date     `json:"dueDate"`
	Notes       string    `json:"notes"`
	CreatedAt   string    `json:"createdAt"`
	CompletedAt *string   `json:"completedAt"`
	UpdatedAt   *string   `json:"updatedAt"`
	Subtasks    []Subtask `json:"subtasks"`
	Tags        []string  `json:"tags"`
}

// MarshalJSON writes the canonical task record.
func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Priority:  t.Priority,
		Category:  t.Category,
		DueDate:   t.DueDate,
		Notes:     t.Notes,
		CreatedAt: FormatTimestamp(t.CreatedAt),
		Subtasks:  t.Subtasks,
		Tags:      []string{},
	}
	if out.Subtasks == nil {
		out.Subtasks = []Subtask{}
	}
	if t.CompletedAt != nil {
		s := FormatTimestamp(*t.CompletedAt)
		out.CompletedAt = &s
	}
	if t.UpdatedAt != nil {
		s := FormatTimestamp(*t.UpdatedAt)
		out.UpdatedAt = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a task record. Field problems never fail the record;
// see DecodeRecord.
func (t *Task) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("task record is not valid JSON")
	}
	r := gjson.ParseBytes(data)
	if !r.IsObject() {
		return fmt.Errorf("task record must be an object, got %s", JSONKind(r))
	}
	decoded, _ := DecodeRecord(r)
	*t = *decoded
	return nil
}

// FormatTimestamp renders t in the canonical timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses an ISO-8601 timestamp. Both the canonical
// millisecond layout and RFC 3339 with arbitrary fractional seconds are
// accepted.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts.UTC(), true
}
