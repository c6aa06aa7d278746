package task

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a duration with its two largest units, e.g.
// "3d 4h", "2h 15m", "45s". Negative durations get a leading "-".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(-d)
	}

	total := int64(d.Seconds())
	if total == 0 {
		return "0s"
	}

	units := []struct {
		suffix string
		secs   int64
	}{
		{"d", 86400},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}

	var parts []string
	for _, u := range units {
		if len(parts) == 2 {
			break
		}
		n := total / u.secs
		total -= n * u.secs
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
		} else if len(parts) > 0 {
			// Stop at the first gap so "1d 0h 5m" reads as "1d".
			break
		}
	}
	return strings.Join(parts, " ")
}

// DueLabel describes a task's due date relative to now: "due today",
// "due in 3d", "overdue by 2d". Completed tasks and tasks without a due date
// return the empty string.
func DueLabel(t *Task, now time.Time) string {
	if t.DueDate == nil || t.Completed {
		return ""
	}
	today := NewDate(now.UTC())
	switch {
	case *t.DueDate == today:
		return "due today"
	case t.IsOverdue(now):
		return "overdue by " + FormatDuration(now.Sub(t.DueDate.Time()))
	default:
		return "due in " + FormatDuration(t.DueDate.Time().Sub(now))
	}
}
