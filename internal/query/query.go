// Package query computes filtered, searched and sorted views over a task
// collection. Everything here is a pure function of its inputs: the source
// slice is never modified and no state is kept between calls.
package query

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// All is the pass-everything value for the status, priority and category
// filters.
const All = "all"

// Status selects tasks by completion state.
type Status string

const (
	StatusAll       Status = All
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusOverdue   Status = "overdue"
)

// Sort selects the output ordering.
type Sort string

const (
	SortCreated  Sort = "created"
	SortDue      Sort = "due"
	SortPriority Sort = "priority"
	SortName     Sort = "name"
	SortCategory Sort = "category"
)

// Options parameterize the pipeline. The zero value shows every task,
// newest first.
type Options struct {
	Status   Status
	Priority string // "all" or a task.Priority value
	Category string // "all" or an exact category
	Search   string
	Sort     Sort

	// Locale drives name/category comparison. Defaults to English.
	Locale language.Tag
}

// Apply runs the status, priority, category and search filters, in that
// order, then sorts the survivors. The result is a new slice of the same
// *task.Task pointers; callers that hand the result out should pass in
// copies.
func Apply(tasks []*task.Task, opts Options, now time.Time) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	search := strings.ToLower(opts.Search)

	for _, t := range tasks {
		if !matchStatus(t, opts.Status, now) {
			continue
		}
		if !matchPriority(t, opts.Priority) {
			continue
		}
		if !matchCategory(t, opts.Category) {
			continue
		}
		if !matchSearch(t, search) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, comparator(opts))
	return out
}

func matchStatus(t *task.Task, s Status, now time.Time) bool {
	switch s {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	case StatusOverdue:
		return t.IsOverdue(now)
	default:
		return true
	}
}

func matchPriority(t *task.Task, p string) bool {
	if p == "" || p == All {
		return true
	}
	return string(t.Priority) == p
}

func matchCategory(t *task.Task, c string) bool {
	if c == "" || c == All {
		return true
	}
	return t.Category == c
}

// matchSearch expects an already lower-cased query.
func matchSearch(t *task.Task, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), q) ||
		strings.Contains(strings.ToLower(t.Notes), q) ||
		strings.Contains(strings.ToLower(t.Category), q)
}

func comparator(opts Options) func(a, b *task.Task) int {
	switch opts.Sort {
	case SortDue:
		return compareDue
	case SortPriority:
		return func(a, b *task.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		}
	case SortName:
		col := newCollator(opts.Locale)
		return func(a, b *task.Task) int {
			return col.CompareString(a.Text, b.Text)
		}
	case SortCategory:
		col := newCollator(opts.Locale)
		return func(a, b *task.Task) int {
			return col.CompareString(a.Category, b.Category)
		}
	default:
		return func(a, b *task.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// compareDue orders by due date ascending, with undated tasks after all
// dated ones and equal among themselves.
func compareDue(a, b *task.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Time().Compare(b.DueDate.Time())
	}
}

// newCollator builds a collator per call; collate.Collator is not safe for
// concurrent use.
func newCollator(tag language.Tag) *collate.Collator {
	if tag == language.Und {
		tag = language.English
	}
	return collate.New(tag)
}

// ParseStatus validates a status filter value. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "", StatusAll:
		return StatusAll, nil
	case StatusCompleted, StatusPending, StatusOverdue:
		return st, nil
	default:
		return "", trackerrors.ErrInvalidValue("status filter", s,
			[]string{All, string(StatusCompleted), string(StatusPending), string(StatusOverdue)})
	}
}

// ParseSort validates a sort key. Empty means created.
func ParseSort(s string) (Sort, error) {
	switch so := Sort(strings.ToLower(strings.TrimSpace(s))); so {
	case "", SortCreated:
		return SortCreated, nil
	case SortDue, SortPriority, SortName, SortCategory:
		return so, nil
	default:
		return "", trackerrors.ErrInvalidValue("sort", s,
			[]string{string(SortCreated), string(SortDue), string(SortPriority), string(SortName), string(SortCategory)})
	}
}

// ParsePriorityFilter validates a priority filter value. Empty means all.
func ParsePriorityFilter(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == All {
		return All, nil
	}
	if !task.IsValidPriority(task.Priority(s)) {
		return "", trackerrors.ErrInvalidValue("priority filter", s,
			[]string{All, string(task.PriorityLow), string(task.PriorityMedium), string(task.PriorityHigh)})
	}
	return s, nil
}
