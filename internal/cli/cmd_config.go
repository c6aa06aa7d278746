package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/tasktrack/internal/config"
)

// newConfigCmd creates the config command with subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and manage configuration",
		Long: `View and manage tasktrack configuration.

Configuration is loaded from these sources, later ones winning:
  1. Built-in defaults
  2. ~/.tasktrack/config.yaml
  3. .tasktrack/config.yaml in the working directory
  4. The file given with --config
  5. Environment variables (TASKTRACK_*)
  6. The --driver and --data-dir flags

Examples:
  tasktrack config show --source
  tasktrack config get storage.driver
  tasktrack config set reminder.interval 5m
  tasktrack config set --project storage.driver file`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigSourcesCmd())

	return cmd
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd() *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show merged configuration",
		Long: `Show the merged configuration from all sources.

By default, outputs valid YAML. Use --source to see where each value comes from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, configValues(tc))
			}
			if showSource {
				return printConfigWithSources(out, tc)
			}
			return printConfigAsYAML(out, tc.Config)
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "show source for each value")

	return cmd
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific config value",
		Long: `Get a configuration value by key.

Keys use dot notation for nested values (e.g., "reminder.interval").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			tc, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			value, err := tc.Config.GetValue(key)
			if err != nil {
				return config.ErrInvalidKey(key, err)
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOut:
				return writeJSON(out, map[string]string{
					"key":    key,
					"value":  value,
					"source": tc.GetTrackedSource(key).String(),
				})
			case showSource:
				_, _ = fmt.Fprintf(out, "%s (from %s)\n", value, tc.GetTrackedSource(key))
			default:
				_, _ = fmt.Fprintln(out, value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "show source of the value")

	return cmd
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	var setProject bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a configuration value.

By default, values are saved to the user config (~/.tasktrack/config.yaml).
Use --project to save to .tasktrack/config.yaml in the working directory.
Other keys already in the file are left as they are.

Examples:
  tasktrack config set display.color never
  tasktrack config set --project defaults.category work`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			var targetPath string
			if setProject {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				targetPath = config.ProjectConfigPath(cwd)
			} else {
				p, err := config.UserConfigPath()
				if err != nil {
					return err
				}
				targetPath = p
			}

			if err := config.SetInFile(targetPath, key, value); err != nil {
				return config.ErrInvalidKey(key, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, targetPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&setProject, "project", false, "save to project config (.tasktrack/config.yaml)")

	return cmd
}

// newConfigSourcesCmd creates the 'config sources' subcommand.
func newConfigSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List values that differ from the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			paths := tc.Overridden()
			if len(paths) == 0 {
				_, _ = fmt.Fprintln(out, "All values are defaults.")
				return nil
			}
			for _, path := range paths {
				value, _ := tc.Config.GetValue(path)
				_, _ = fmt.Fprintf(out, "%s = %s (%s)\n", path, value, tc.GetTrackedSource(path))
			}
			return nil
		},
	}
}

// printConfigAsYAML outputs the config as valid YAML.
func printConfigAsYAML(out io.Writer, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, _ = fmt.Fprint(out, string(data))
	return nil
}

// printConfigWithSources outputs config values with source annotations.
func printConfigWithSources(out io.Writer, tc *config.TrackedConfig) error {
	paths := config.AllConfigPaths()
	sort.Strings(paths)

	for _, path := range paths {
		value, err := tc.Config.GetValue(path)
		if err != nil {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s = %s (%s)\n", path, value, tc.GetTrackedSource(path))
	}
	return nil
}

func configValues(tc *config.TrackedConfig) map[string]string {
	values := make(map[string]string)
	for _, path := range config.AllConfigPaths() {
		if v, err := tc.Config.GetValue(path); err == nil {
			values[path] = v
		}
	}
	return values
}
