package task

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// DecodeRecord builds a task from one element of a task collection.
//
// Decoding never fails. Scalars of the wrong JSON type are coerced to the
// field's type, a due date that does not parse is dropped, and unparsable
// timestamps are left zero or absent. Each of those is returned as an issue.
// Unknown fields, tags included, are ignored.
func DecodeRecord(r gjson.Result) (*Task, ValidationErrors) {
	var issues ValidationErrors
	t := &Task{Subtasks: []Subtask{}}

	if !r.IsObject() {
		issues = append(issues, ValidationError{
			Field:   "record",
			Message: "not a task object, got " + JSONKind(r),
		})
		return t, issues
	}

	t.ID = decodeID(r.Get("id"), "id", &issues)
	t.Text = decodeString(r.Get("text"), "text", &issues)
	t.Completed = decodeBool(r.Get("completed"), "completed", &issues)
	t.Priority = Priority(decodeString(r.Get("priority"), "priority", &issues))
	t.Category = decodeString(r.Get("category"), "category", &issues)
	t.Notes = decodeString(r.Get("notes"), "notes", &issues)
	t.DueDate = decodeDueDate(r.Get("dueDate"), &issues)

	if ts, ok := decodeTimestamp(r.Get("createdAt"), "createdAt", &issues); ok {
		t.CreatedAt = ts
	}
	if ts, ok := decodeTimestamp(r.Get("completedAt"), "completedAt", &issues); ok {
		t.CompletedAt = &ts
	}
	if ts, ok := decodeTimestamp(r.Get("updatedAt"), "updatedAt", &issues); ok {
		t.UpdatedAt = &ts
	}

	subtasks := r.Get("subtasks")
	switch {
	case !subtasks.Exists() || subtasks.Type == gjson.Null:
	case !subtasks.IsArray():
		issues = append(issues, ValidationError{
			Field:   "subtasks",
			Message: "not an array, got " + JSONKind(subtasks) + "; dropped",
		})
	default:
		i := 0
		subtasks.ForEach(func(_, st gjson.Result) bool {
			field := fmt.Sprintf("subtasks[%d]", i)
			i++
			if !st.IsObject() {
				issues = append(issues, ValidationError{
					Field:   field,
					Message: "not a subtask object, got " + JSONKind(st) + "; dropped",
				})
				return true
			}
			t.Subtasks = append(t.Subtasks, Subtask{
				ID:        decodeID(st.Get("id"), field+".id", &issues),
				Text:      decodeString(st.Get("text"), field+".text", &issues),
				Completed: decodeBool(st.Get("completed"), field+".completed", &issues),
			})
			return true
		})
	}

	return t, issues
}

func decodeID(r gjson.Result, field string, issues *ValidationErrors) ID {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String, gjson.Number:
		var id ID
		if err := id.UnmarshalJSON([]byte(r.Raw)); err == nil {
			return id
		}
	}
	*issues = append(*issues, ValidationError{
		Field:   field,
		Value:   r.Raw,
		Message: "expected a string or number; dropped",
	})
	return ""
}

func decodeString(r gjson.Result, field string, issues *ValidationErrors) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	}
	*issues = append(*issues, ValidationError{
		Field:   field,
		Value:   r.Raw,
		Message: "expected a string, got " + JSONKind(r),
	})
	return r.String()
}

func decodeBool(r gjson.Result, field string, issues *ValidationErrors) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.True, gjson.False:
		return r.Bool()
	}
	*issues = append(*issues, ValidationError{
		Field:   field,
		Value:   r.Raw,
		Message: "expected a boolean, got " + JSONKind(r),
	})
	return r.Bool()
}

func decodeDueDate(r gjson.Result, issues *ValidationErrors) *Date {
	if r.Type == gjson.Null || (r.Type == gjson.String && r.Str == "") {
		return nil
	}
	if r.Type == gjson.String {
		if d, err := ParseDate(r.Str); err == nil {
			return &d
		}
	}
	*issues = append(*issues, ValidationError{
		Field:   "dueDate",
		Value:   r.String(),
		Message: "not a YYYY-MM-DD date; dropped",
	})
	return nil
}

func decodeTimestamp(r gjson.Result, field string, issues *ValidationErrors) (time.Time, bool) {
	if r.Type == gjson.Null || (r.Type == gjson.String && r.Str == "") {
		return time.Time{}, false
	}
	if r.Type == gjson.String {
		if ts, ok := ParseTimestamp(r.Str); ok {
			return ts, true
		}
	}
	*issues = append(*issues, ValidationError{
		Field:   field,
		Value:   r.String(),
		Message: "not an ISO-8601 timestamp; dropped",
	})
	return time.Time{}, false
}

// JSONKind names the JSON type of r for messages, e.g. "a number".
func JSONKind(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "an array"
	case r.IsObject():
		return "an object"
	}
	switch r.Type {
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	case gjson.Null:
		return "null"
	default:
		return "an unknown value"
	}
}
