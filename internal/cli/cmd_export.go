package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tasktrack/internal/storage"
)

// newExportCmd creates the export command
func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks to a JSON file",
		Long: `Write every task to a JSON file that 'tasktrack import' can read back.

Default output: tasks-YYYY-MM-DD.json in the current directory.
Use -o - to write to stdout.

Example:
  tasktrack export
  tasktrack export -o ~/backups/tasks.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				data, err := a.store.ExportSnapshot()
				if err != nil {
					return err
				}

				if output == "-" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}

				path := output
				if path == "" {
					path = storage.ExportFileName(a.store.Now())
				}
				if err := storage.WriteFileAtomic(path, append(data, '\n'), 0644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}

				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"path": path, "count": a.store.Len()})
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s\n", a.store.Len(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default tasks-YYYY-MM-DD.json, - for stdout)")

	return cmd
}
