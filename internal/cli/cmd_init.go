package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tasktrack/internal/config"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a project config in the current directory",
		Long: `Write .tasktrack/config.yaml with the default settings, plus any
--driver or --data-dir given on the command line.

Examples:
  tasktrack init
  tasktrack init --driver file --data-dir .tasktrack/data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path := config.ProjectConfigPath(cwd)

			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); err == nil && !force {
				_, _ = fmt.Fprintf(out, "%s already exists (use --force to overwrite)\n", path)
				return nil
			}

			cfg := config.Default()
			for flag, key := range flagBindings {
				f := cmd.Flags().Lookup(flag)
				if f == nil || !f.Changed {
					continue
				}
				if err := cfg.SetValue(key, f.Value.String()); err != nil {
					return config.ErrInvalidFlag(flag, err)
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing project config")

	return cmd
}
