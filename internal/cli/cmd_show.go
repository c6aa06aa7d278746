package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tasktrack/internal/task"
)

// newShowCmd creates the show command
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Show every field of a task together with its subtasks.

The id may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), t)
				}
				printTaskDetail(cmd.OutOrStdout(), a.out, t, a.store.Now())
				return nil
			})
		},
	}
}

func printTaskDetail(w io.Writer, u *ui, t *task.Task, now time.Time) {
	status := "pending"
	if t.Completed {
		status = "completed"
	}

	_, _ = fmt.Fprintln(w, u.title(t.Text))
	_, _ = fmt.Fprintln(w, u.subtle("─────────────────────────"))
	_, _ = fmt.Fprintf(w, "ID:        %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "Status:    %s\n", status)
	_, _ = fmt.Fprintf(w, "Priority:  %s\n", u.priority(t.Priority))
	_, _ = fmt.Fprintf(w, "Category:  %s\n", t.Category)
	if t.DueDate != nil {
		due := u.date(t.DueDate)
		if label := task.DueLabel(t, now); label != "" {
			due += " (" + label + ")"
		}
		if t.IsOverdue(now) {
			due = u.style(u.p.danger).Render(due)
		}
		_, _ = fmt.Fprintf(w, "Due:       %s\n", due)
	}
	_, _ = fmt.Fprintf(w, "Created:   %s\n", t.CreatedAt.Local().Format(u.dateFmt+" 15:04"))
	if t.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", t.CompletedAt.Local().Format(u.dateFmt+" 15:04"))
	}
	if t.UpdatedAt != nil {
		_, _ = fmt.Fprintf(w, "Updated:   %s\n", t.UpdatedAt.Local().Format(u.dateFmt+" 15:04"))
	}
	if t.Notes != "" {
		_, _ = fmt.Fprintf(w, "\nNotes:\n  %s\n", t.Notes)
	}

	if len(t.Subtasks) > 0 {
		done, total := t.SubtaskProgress()
		_, _ = fmt.Fprintf(w, "\nSubtasks (%d/%d):\n", done, total)
		for i, s := range t.Subtasks {
			mark := "[ ]"
			if s.Completed {
				mark = "[✓]"
			}
			_, _ = fmt.Fprintf(w, "  %d. %s %s  %s\n", i+1, mark, s.Text, u.subtle(string(s.ID)))
		}
	}
}
