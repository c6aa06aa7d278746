// Package cli implements the tasktrack command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/tasktrack/internal/config"
)

var (
	cfgFile string
	verbose bool
	jsonOut bool
)

// flagBindings maps persistent flags to the config paths they override.
// Values reach the config through viper so flags and TASKTRACK_* env vars
// share one lookup.
var flagBindings = map[string]string{
	"driver":   "storage.driver",
	"data-dir": "storage.dir",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasktrack",
		Short: "Personal task tracker",
		Long: `tasktrack keeps a personal task list with priorities, categories,
due dates, notes and subtasks.

Quick start:
  tasktrack add "Buy milk" -p high --due 2025-01-31
  tasktrack list --status pending --sort due
  tasktrack done <id>
  tasktrack export -o backup.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr())
			initConfig(cmd)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tasktrack/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	cmd.PersistentFlags().String("driver", "", "storage driver override (sqlite, postgres, file, memory)")
	cmd.PersistentFlags().String("data-dir", "", "storage directory override")

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDoneCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newSubtaskCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newCategoriesCmd())
	cmd.AddCommand(newThemeCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		PrintError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// setupLogging installs the default slog handler: warnings and above, or
// everything with --verbose.
func setupLogging(w io.Writer) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command) {
	viper.Reset()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in .tasktrack directory
		viper.AddConfigPath(config.TrackDir)
		viper.AddConfigPath("$HOME/" + config.TrackDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()

	for flag, path := range flagBindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(path, f)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig resolves configuration for the working directory and applies
// flag overrides on top.
func loadConfig(cmd *cobra.Command) (*config.TrackedConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loader := config.NewLoader(cwd)
	if cfgFile != "" {
		loader = loader.WithConfigFile(cfgFile)
	}
	tc, err := loader.Load()
	if err != nil {
		return nil, err
	}

	for flag, path := range flagBindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := tc.Config.SetValue(path, viper.GetString(path)); err != nil {
			return nil, config.ErrInvalidFlag(flag, err)
		}
		tc.SetSource(path, config.SourceFlag, "--"+flag)
	}
	if err := tc.Config.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}
