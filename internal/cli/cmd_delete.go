package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDeleteCmd creates the rm command
func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				if err := a.store.Delete(cmd.Context(), t.ID); err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"deleted": t.ID})
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", t.ID)
				return nil
			})
		},
	}
}
