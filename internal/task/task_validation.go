package task

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation problem on a task record.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error returns a combined error message.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ToError returns an error if there are validation errors, nil otherwise.
func (e ValidationErrors) ToError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Validate checks field constraints on a task record.
//
// Records built by the store always pass. Imported records are accepted as-is,
// so callers use this to report what an import carried in rather than to
// reject it.
func (t *Task) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(t.Text) == "" {
		errs = append(errs, ValidationError{
			Field:   "text",
			Message: "must not be empty",
		})
	}

	if t.Priority != "" && !IsValidPriority(t.Priority) {
		errs = append(errs, ValidationError{
			Field:   "priority",
			Value:   string(t.Priority),
			Message: "invalid priority",
		})
	}

	if t.CreatedAt.IsZero() {
		errs = append(errs, ValidationError{
			Field:   "createdAt",
			Message: "missing",
		})
	}

	if t.Completed && t.CompletedAt == nil {
		errs = append(errs, ValidationError{
			Field:   "completedAt",
			Message: "missing on completed task",
		})
	}

	seen := make(map[ID]bool, len(t.Subtasks))
	for i, st := range t.Subtasks {
		field := fmt.Sprintf("subtasks[%d]", i)
		if strings.TrimSpace(st.Text) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".text",
				Message: "must not be empty",
			})
		}
		if seen[st.ID] {
			errs = append(errs, ValidationError{
				Field:   field + ".id",
				Value:   string(st.ID),
				Message: "duplicate subtask id",
			})
		}
		seen[st.ID] = true
	}

	return errs
}
