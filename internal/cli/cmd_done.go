package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDoneCmd creates the done command
func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between pending and completed",
		Long: `Mark a pending task as completed, or a completed task as pending again.

Example:
  tasktrack done 0192f3a1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				toggled, err := a.store.ToggleCompletion(cmd.Context(), t.ID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), toggled)
				}
				state := "pending"
				if toggled.Completed {
					state = "completed"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", toggled.ID, state)
				return nil
			})
		},
	}
}
