package task

import (
	"strings"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
)

// Patch is a partial update to a task.
// A nil pointer means "leave unchanged". ClearDueDate removes the due date and
// takes precedence over DueDate.
type Patch struct {
	Text         *string   `json:"text,omitempty"`
	Priority     *Priority `json:"priority,omitempty"`
	Category     *string   `json:"category,omitempty"`
	DueDate      *Date     `json:"dueDate,omitempty"`
	ClearDueDate bool      `json:"clearDueDate,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Priority == nil && p.Category == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.Notes == nil
}

// Validate checks the fields the patch sets. Text is checked after trimming.
func (p Patch) Validate() error {
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return trackerrors.ErrEmptyText("task text")
	}
	if p.Priority != nil && !IsValidPriority(*p.Priority) {
		return trackerrors.ErrInvalidValue("priority", string(*p.Priority), priorityNames())
	}
	return nil
}

// Apply writes the set fields onto t. It does not touch UpdatedAt.
func (p Patch) Apply(t *Task) {
	if p.Text != nil {
		t.Text = strings.TrimSpace(*p.Text)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}
