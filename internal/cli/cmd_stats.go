package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tasktrack/internal/query"
)

// newStatsCmd creates the stats command
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and completion progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				stats := query.Summarize(a.store.Tasks(), a.store.Now())
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), stats)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintf(w, "Total:\t%d\n", stats.Total)
				_, _ = fmt.Fprintf(w, "Completed:\t%d\n", stats.Completed)
				_, _ = fmt.Fprintf(w, "Pending:\t%d\n", stats.Pending)
				_, _ = fmt.Fprintf(w, "Overdue:\t%d\n", stats.Overdue)
				_, _ = fmt.Fprintf(w, "Progress:\t%d%%\n", stats.Progress)
				return w.Flush()
			})
		},
	}
}

// newCategoriesCmd creates the categories command
func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				categories := query.Categories(a.store.Tasks())
				if jsonOut {
					if categories == nil {
						categories = []string{}
					}
					return writeJSON(cmd.OutOrStdout(), categories)
				}
				for _, c := range categories {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			})
		},
	}
}
