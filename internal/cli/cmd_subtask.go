package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newSubtaskCmd creates the subtask command with subcommands.
func newSubtaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"sub"},
		Short:   "Manage subtasks",
		Long: `Add, toggle and remove subtasks of a task.

Subtasks are referenced by id, unique id prefix, or their position as shown
by 'tasktrack show'.

Examples:
  tasktrack subtask add 0192f3a1 "Draft outline"
  tasktrack subtask done 0192f3a1 1
  tasktrack subtask rm 0192f3a1 2`,
	}

	cmd.AddCommand(newSubtaskAddCmd())
	cmd.AddCommand(newSubtaskDoneCmd())
	cmd.AddCommand(newSubtaskRmCmd())

	return cmd
}

func newSubtaskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <text>",
		Short: "Add a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				sub, err := a.store.AddSubtask(cmd.Context(), t.ID, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), sub)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), sub.ID)
				return nil
			})
		},
	}
}

func newSubtaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <task-id> <subtask>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				subID, err := resolveSubtask(t, args[1])
				if err != nil {
					return err
				}
				sub, err := a.store.ToggleSubtask(cmd.Context(), t.ID, subID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), sub)
				}
				state := "pending"
				if sub.Completed {
					state = "completed"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sub.ID, state)
				return nil
			})
		},
	}
}

func newSubtaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id> <subtask>",
		Aliases: []string{"delete"},
		Short:   "Delete a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t, err := a.resolveTask(args[0])
				if err != nil {
					return err
				}
				subID, err := resolveSubtask(t, args[1])
				if err != nil {
					return err
				}
				if err := a.store.DeleteSubtask(cmd.Context(), t.ID, subID); err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"deleted": subID})
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", subID)
				return nil
			})
		},
	}
}
