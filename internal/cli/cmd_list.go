package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tasktrack/internal/query"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	var (
		status   string
		priority string
		category string
		search   string
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks, filtered and sorted.

Filters apply in order: status, priority, category, search.

Example:
  tasktrack list
  tasktrack list --status overdue
  tasktrack list --priority high --sort due
  tasktrack list --search report --category work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := query.ParseStatus(status)
			if err != nil {
				return err
			}
			prio, err := query.ParsePriorityFilter(priority)
			if err != nil {
				return err
			}
			srt, err := query.ParseSort(sortBy)
			if err != nil {
				return err
			}

			return withApp(cmd, func(a *app) error {
				opts := query.Options{
					Status:   st,
					Priority: prio,
					Category: category,
					Search:   search,
					Sort:     srt,
					Locale:   a.tc.Config.LocaleTag(),
				}
				all := a.store.Tasks()
				now := a.store.Now()
				tasks := query.Apply(all, opts, now)

				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), tasks)
				}

				out := cmd.OutOrStdout()
				if len(all) == 0 {
					_, _ = fmt.Fprintln(out, "No tasks yet. Add one with: tasktrack add \"Your task\"")
					return nil
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(out, "No tasks match the current filters.")
					return nil
				}

				printTaskTable(out, a.out, tasks, shortIDs(taskIDs(all), 8), now)

				stats := query.Summarize(all, now)
				_, _ = fmt.Fprintln(out, a.out.subtle(fmt.Sprintf("\n%d shown · %d total · %d pending · %d completed · %d overdue",
					len(tasks), stats.Total, stats.Pending, stats.Completed, stats.Overdue)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "all", "status filter (all, pending, completed, overdue)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "all", "priority filter (all, low, medium, high)")
	cmd.Flags().StringVarP(&category, "category", "c", "all", "category filter (all or an exact category)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive search in text, notes and category")
	cmd.Flags().StringVar(&sortBy, "sort", "created", "sort order (created, due, priority, name, category)")

	return cmd
}

// printTaskTable writes one row per task. Cells are padded before they are
// styled so colour codes do not upset column widths.
func printTaskTable(w io.Writer, u *ui, tasks []*task.Task, idLen int, now time.Time) {
	catWidth := len("CATEGORY")
	dueWidth := len("DUE")
	for _, t := range tasks {
		catWidth = max(catWidth, utf8.RuneCountInString(truncate(t.Category, 16)))
		dueWidth = max(dueWidth, len(u.date(t.DueDate)))
	}

	// id, mark, priority, due, category, four separators
	fixed := idLen + 1 + 6 + dueWidth + catWidth + 5*2
	textWidth := max(20, u.width-fixed)

	header := fmt.Sprintf("%-*s  %s  %-6s  %-*s  %-*s  %s",
		idLen, "ID", " ", "PRI", dueWidth, "DUE", catWidth, "CATEGORY", "TASK")
	_, _ = fmt.Fprintln(w, u.title(header))

	for _, t := range tasks {
		overdue := t.IsOverdue(now)
		mark := " "
		if t.Completed {
			mark = "✓"
		}
		text := t.Text
		if done, total := t.SubtaskProgress(); total > 0 {
			text = fmt.Sprintf("%s [%d/%d]", text, done, total)
		}
		if overdue {
			text += " (overdue)"
		}

		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s  %s  %s\n",
			u.subtle(pad(shortID(t.ID, idLen), idLen)),
			mark,
			u.priority(t.Priority)+strings.Repeat(" ", 6-len(t.Priority)),
			pad(u.date(t.DueDate), dueWidth),
			pad(truncate(t.Category, 16), catWidth),
			u.row(t, overdue, truncate(text, textWidth)),
		)
	}
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func taskIDs(tasks []*task.Task) []task.ID {
	out := make([]task.ID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
