package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newClearCmd creates the clear command
func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Long: `Delete every task. Asks for confirmation unless --yes is given.

Export first if you may want the tasks back:
  tasktrack export -o backup.json && tasktrack clear --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if a.store.Len() == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks to clear.")
					return nil
				}
				if !yes {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(),
						"Are you sure you want to delete all %d tasks? This cannot be undone. [y/N] ", a.store.Len())
					answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					answer = strings.ToLower(strings.TrimSpace(answer))
					if answer != "y" && answer != "yes" {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return nil
					}
				}

				removed := a.store.ClearAll(cmd.Context())
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]int{"removed": removed})
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
