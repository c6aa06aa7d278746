package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
)

// newThemeCmd creates the theme command
func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [dark|light|toggle]",
		Short: "Show or change the colour theme",
		Long: `Without an argument, print the current theme. The choice is kept in
storage alongside the tasks.

Example:
  tasktrack theme
  tasktrack theme light
  tasktrack theme toggle`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				ctx := cmd.Context()
				if len(args) == 1 {
					switch args[0] {
					case "dark":
						a.store.SetTheme(ctx, true)
					case "light":
						a.store.SetTheme(ctx, false)
					case "toggle":
						a.store.ToggleTheme(ctx)
					default:
						return trackerrors.ErrInvalidValue("theme", args[0], []string{"dark", "light", "toggle"})
					}
				}

				name := themeName(a.store.Theme())
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"theme": name})
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
