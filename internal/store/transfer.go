package store

import (
	"bytes"
	"context"
	"fmt"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/storage"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// Regeneration records an imported task whose id was replaced.
type Regeneration struct {
	// Index is the record's position in the payload.
	Index int
	From  task.ID
	To    task.ID
}

// ImportResult summarizes an import.
type ImportResult struct {
	Count       int
	Regenerated []Regeneration
	// Issues lists field problems found in imported records. They are
	// reported, not rejected.
	Issues []string
}

// ExportSnapshot returns the collection in the canonical export format.
func (s *Store) ExportSnapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := storage.Encode(s.tasks)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// ImportBatch appends the tasks in payload to the collection.
//
// The payload must be a JSON array; anything else is an IMPORT_INVALID error
// and leaves the collection unchanged. Every element is appended, malformed
// ones included. Unknown priorities are kept as-is and scalars of the wrong
// type are coerced to strings or booleans. Due dates and timestamps that do not
// parse are dropped. Ids that are empty, already in the collection, or repeated
// earlier in the batch get a fresh id; subtask ids are kept. Everything
// normalized or suspect is listed in ImportResult.Issues.
func (s *Store) ImportBatch(ctx context.Context, payload []byte) (ImportResult, error) {
	if err := storage.ValidateImport(payload); err != nil {
		return ImportResult{}, err
	}
	records, err := storage.DecodeRecords(payload)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[task.ID]bool, len(records))
	taken := func(id task.ID) bool {
		return batch[id] || s.taskIDTaken(id)
	}

	var result ImportResult
	tasks := make([]*task.Task, len(records))
	for i, rec := range records {
		t := rec.Task
		tasks[i] = t
		if t.ID == "" || taken(t.ID) {
			id, err := s.freshID(taken)
			if err != nil {
				return ImportResult{}, trackerrors.Wrap(err, "error importing tasks")
			}
			result.Regenerated = append(result.Regenerated, Regeneration{Index: i, From: t.ID, To: id})
			s.logger.Info("regenerated imported task id", "record", i, "from", t.ID, "to", id)
			t.ID = id
		}
		batch[t.ID] = true

		issues := append(rec.Issues, t.Validate()...)
		for _, issue := range issues {
			msg := fmt.Sprintf("record %d (%s): %s", i, t.ID, issue.Error())
			result.Issues = append(result.Issues, msg)
			s.logger.Info("imported task has issues", "record", i, "id", t.ID, "issue", issue.Error())
		}
	}

	s.tasks = append(s.tasks, tasks...)
	result.Count = len(tasks)

	s.persistTasks(ctx)
	s.events.Imported(result.Count, regeneratedMap(result.Regenerated))

	return result, nil
}

func regeneratedMap(regs []Regeneration) map[string]string {
	if len(regs) == 0 {
		return nil
	}
	m := make(map[string]string, len(regs))
	for _, r := range regs {
		if r.From == "" {
			continue
		}
		m[string(r.From)] = string(r.To)
	}
	return m
}

// Reload re-reads the persisted snapshot and replaces the collection when it
// differs from what is in memory. It reports whether anything changed. A
// snapshot that cannot be read leaves the collection untouched.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	loaded, err := s.adapter.LoadTasks(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := storage.Encode(s.tasks)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	next, err := storage.Encode(loaded)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	if bytes.Equal(current, next) {
		return false, nil
	}

	s.tasks = loaded
	s.logger.Debug("reloaded tasks from storage", "tasks", len(loaded))
	s.events.Reloaded(len(loaded))
	return true, nil
}
