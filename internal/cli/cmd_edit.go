package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// newEditCmd creates the edit command
func newEditCmd() *cobra.Command {
	var (
		text     string
		priority string
		category string
		due      string
		noDue    bool
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Long: `Change one or more fields of a task. Only the flags given are changed.

Example:
  tasktrack edit 0192f3a1 --text "Buy oat milk"
  tasktrack edit 0192f3a1 -p low --no-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch task.Patch
			flags := cmd.Flags()

			if flags.Changed("text") {
				patch.Text = &text
			}
			if flags.Changed("priority") {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return err
				}
				patch.Priority = &p
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("due") {
				d, err := parseDueFlag(due)
				if err != nil {
					return err
				}
				patch.DueDate = &d
			}
			patch.ClearDueDate = noDue
			if flags.Changed("notes") {
				patch.Notes = &notes
			}

			if patch.IsEmpty() {
				return &trackerrors.TrackError{
					Code: trackerrors.CodeValidation,
					What: "nothing to change",
					Fix:  "Pass at least one of --text, --priority, --category, --due, --no-due, --notes",
				}
			}

			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				edited, err := a.store.Edit(cmd.Context(), t.ID, patch)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), edited)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), edited.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "new task text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority (low, medium, high)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVar(&due, "due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&noDue, "no-due", false, "remove the due date")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes (empty string clears)")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")

	return cmd
}
