package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/store"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// newAddCmd creates the add command
func newAddCmd() *cobra.Command {
	var (
		priority string
		category string
		due      string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Long: `Add a new pending task.

Priority and category default to the configured defaults (medium, general).

Example:
  tasktrack add "Buy milk"
  tasktrack add "Quarterly report" -p high -c work --due 2025-03-31 --notes "Use the new template"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := store.CreateInput{
				Text:     strings.Join(args, " "),
				Category: category,
				Notes:    notes,
			}
			if priority != "" {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				in.Priority = p
			}
			if due != "" {
				d, err := parseDueFlag(due)
				if err != nil {
					return err
				}
				in.DueDate = &d
			}

			return withApp(cmd, func(a *app) error {
				created, err := a.store.Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), created)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), created.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority (low, medium, high)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func parseDueFlag(s string) (task.Date, error) {
	d, err := task.ParseDate(s)
	if err != nil {
		return task.Date{}, &trackerrors.TrackError{
			Code:  trackerrors.CodeValidation,
			What:  fmt.Sprintf("invalid due date %q", s),
			Fix:   "Use the YYYY-MM-DD format, for example --due 2025-01-31",
			Cause: err,
		}
	}
	return d, nil
}
