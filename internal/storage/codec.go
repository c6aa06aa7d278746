package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// Encode serializes tasks in the canonical task-collection format: a JSON
// array indented by two spaces. A nil slice encodes as [].
func Encode(tasks []*task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// ValidateImport checks that data is well-formed JSON whose root is an array.
// It returns an IMPORT_INVALID error describing what was found otherwise.
func ValidateImport(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return trackerrors.ErrImportInvalid("the input is empty")
	}
	if !gjson.ValidBytes(data) {
		return trackerrors.ErrImportInvalid("the input is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return trackerrors.ErrImportInvalid(fmt.Sprintf("expected an array of tasks, got %s", task.JSONKind(root)))
	}
	return nil
}

// Record is one decoded element of a task collection together with the
// problems found while decoding it.
type Record struct {
	Task   *task.Task
	Issues task.ValidationErrors
}

// DecodeRecords parses a task collection leniently.
//
// Empty input decodes to no records. Otherwise data must pass ValidateImport;
// past that, every element yields a record, with field problems reported in
// Record.Issues rather than failing the collection.
func DecodeRecords(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}
	if err := ValidateImport(data); err != nil {
		return nil, err
	}

	records := []Record{}
	gjson.ParseBytes(data).ForEach(func(_, value gjson.Result) bool {
		t, issues := task.DecodeRecord(value)
		records = append(records, Record{Task: t, Issues: issues})
		return true
	})
	return records, nil
}

// Decode parses the canonical task-collection format, discarding decode
// issues. See DecodeRecords.
func Decode(data []byte) ([]*task.Task, error) {
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	tasks := make([]*task.Task, len(records))
	for i, r := range records {
		tasks[i] = r.Task
	}
	return tasks, nil
}

// ExportFileName returns the default export artifact name for a date,
// e.g. tasks-2024-06-01.json.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("tasks-%s.json", now.UTC().Format(task.DateLayout))
}
