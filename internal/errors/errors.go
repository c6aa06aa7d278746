// Package errors provides structured error types for tasktrack.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for tasktrack.
const (
	// Input errors
	CodeValidation Code = "VALIDATION_FAILED"

	// Lookup errors
	CodeTaskNotFound    Code = "TASK_NOT_FOUND"
	CodeSubtaskNotFound Code = "SUBTASK_NOT_FOUND"

	// Transfer errors
	CodeImportInvalid Code = "IMPORT_INVALID"

	// Storage errors
	CodePersistence Code = "PERSISTENCE_FAILED"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
)

// Category groups error codes by how the presentation layer treats them.
type Category int

const (
	CategoryUnknown Category = iota
	// CategorySilent errors are no-ops for the user: nothing changed.
	CategorySilent
	// CategoryNotice errors are shown but never block the session.
	CategoryNotice
	// CategoryWarning errors degrade behavior without failing the operation.
	CategoryWarning
	// CategoryFatal errors stop the current command.
	CategoryFatal
)

var codeCategories = map[Code]Category{
	CodeValidation:      CategorySilent,
	CodeTaskNotFound:    CategorySilent,
	CodeSubtaskNotFound: CategorySilent,
	CodeImportInvalid:   CategoryNotice,
	CodePersistence:     CategoryWarning,
	CodeConfigInvalid:   CategoryFatal,
}

// String returns a lower-case label for the category.
func (c Category) String() string {
	switch c {
	case CategorySilent:
		return "silent"
	case CategoryNotice:
		return "notice"
	case CategoryWarning:
		return "warning"
	case CategoryFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// TrackError is the structured error type for tasktrack.
type TrackError struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *TrackError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TrackError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *TrackError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category.
func (e *TrackError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// MarshalJSON implements json.Marshaler.
func (e *TrackError) MarshalJSON() ([]byte, error) {
	type alias TrackError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a TrackError with the same code.
func (e *TrackError) Is(target error) bool {
	t, ok := target.(*TrackError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *TrackError) WithCause(err error) *TrackError {
	return &TrackError{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrValidation      = &TrackError{Code: CodeValidation}
	ErrNotFound        = &TrackError{Code: CodeTaskNotFound}
	ErrSubtaskNotFound = &TrackError{Code: CodeSubtaskNotFound}
	ErrImport          = &TrackError{Code: CodeImportInvalid}
	ErrPersistence     = &TrackError{Code: CodePersistence}
	ErrConfig          = &TrackError{Code: CodeConfigInvalid}
)

// --- Error constructors ---

// ErrEmptyText returns a validation error for a blank task or subtask label.
func ErrEmptyText(field string) *TrackError {
	return &TrackError{
		Code: CodeValidation,
		What: fmt.Sprintf("%s must not be empty", field),
		Why:  "The text is empty after trimming whitespace",
		Fix:  "Provide some text, for example: tasktrack add \"Buy milk\"",
	}
}

// ErrInvalidValue returns a validation error for an unrecognised enum value.
func ErrInvalidValue(field, value string, allowed []string) *TrackError {
	return &TrackError{
		Code: CodeValidation,
		What: fmt.Sprintf("invalid %s %q", field, value),
		Why:  fmt.Sprintf("Allowed values: %s", strings.Join(allowed, ", ")),
	}
}

// ErrTaskNotFound returns an error when a task doesn't exist.
func ErrTaskNotFound(id string) *TrackError {
	return &TrackError{
		Code: CodeTaskNotFound,
		What: fmt.Sprintf("task %s not found", id),
		Why:  "No task with this ID exists in the collection",
		Fix:  "Run 'tasktrack list' to see available task IDs",
	}
}

// ErrSubtaskNotFoundIn returns an error when a subtask doesn't exist on its parent.
func ErrSubtaskNotFoundIn(taskID, subtaskID string) *TrackError {
	return &TrackError{
		Code: CodeSubtaskNotFound,
		What: fmt.Sprintf("subtask %s not found on task %s", subtaskID, taskID),
		Fix:  fmt.Sprintf("Run 'tasktrack show %s' to see its subtasks", taskID),
	}
}

// ErrImportInvalid returns an error for a malformed import payload.
func ErrImportInvalid(reason string) *TrackError {
	return &TrackError{
		Code: CodeImportInvalid,
		What: "error importing tasks",
		Why:  reason,
		Fix:  "Check the file format: it must be a JSON array of tasks as written by 'tasktrack export'",
	}
}

// ErrPersistenceFailed wraps a key-value store failure.
func ErrPersistenceFailed(op string, cause error) *TrackError {
	return &TrackError{
		Code:  CodePersistence,
		What:  fmt.Sprintf("could not %s", op),
		Why:   "Changes are kept in memory for this session only",
		Fix:   "Check free space and permissions of the storage location",
		Cause: cause,
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *TrackError {
	return &TrackError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check .tasktrack/config.yaml and fix the invalid field",
	}
}

// AsTrackError attempts to convert an error to a TrackError.
// Returns nil if the error is not a TrackError.
func AsTrackError(err error) *TrackError {
	var te *TrackError
	if stderrors.As(err, &te) {
		return te
	}
	return nil
}

// IsSilent reports whether err should be treated as a quiet no-op.
func IsSilent(err error) bool {
	te := AsTrackError(err)
	return te != nil && te.Category() == CategorySilent
}

// Wrap wraps a generic error into a TrackError with unknown code.
func Wrap(err error, what string) *TrackError {
	return &TrackError{
		Code:  Code("UNKNOWN"),
		What:  what,
		Cause: err,
	}
}
