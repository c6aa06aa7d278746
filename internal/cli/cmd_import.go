package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/store"
)

// importOutcome is the per-file result reported by import.
type importOutcome struct {
	File        string   `json:"file"`
	Count       int      `json:"count"`
	Regenerated int      `json:"regenerated,omitempty"`
	Issues      []string `json:"issues,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// newImportCmd creates the import command
func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|glob>...",
		Short: "Import tasks from JSON export files",
		Long: `Append the tasks in one or more export files to the collection.

Arguments may be glob patterns, including ** for recursive matches. Each file
is imported on its own: a malformed file is reported and skipped without
affecting the others. Use - to read from stdin.

Imported ids are kept unless they clash with an existing task, in which case
a new id is assigned.

Example:
  tasktrack import tasks-2025-01-31.json
  tasktrack import 'backups/**/*.json'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandImportArgs(args)
			if err != nil {
				return err
			}

			return withApp(cmd, func(a *app) error {
				var outcomes []importOutcome
				failed := 0
				for _, file := range files {
					outcome := importFile(cmd, a.store, file)
					if outcome.Error != "" {
						failed++
					}
					outcomes = append(outcomes, outcome)
				}

				out := cmd.OutOrStdout()
				if jsonOut {
					if err := writeJSON(out, outcomes); err != nil {
						return err
					}
				} else {
					for _, o := range outcomes {
						printImportOutcome(out, cmd.ErrOrStderr(), a, o)
					}
				}

				if failed > 0 {
					return trackerrors.ErrImportInvalid(fmt.Sprintf("%d of %d file(s) could not be imported", failed, len(files)))
				}
				return nil
			})
		},
	}

	return cmd
}

// expandImportArgs resolves glob patterns. A pattern that matches nothing is
// an error; "-" is passed through.
func expandImportArgs(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, arg := range args {
		if arg == "-" {
			files = append(files, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, trackerrors.ErrImportInvalid(fmt.Sprintf("bad pattern %q: %v", arg, err)).WithCause(err)
		}
		if len(matches) == 0 {
			return nil, trackerrors.ErrImportInvalid(fmt.Sprintf("no files match %q", arg))
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func importFile(cmd *cobra.Command, st *store.Store, file string) importOutcome {
	outcome := importOutcome{File: file}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	result, err := st.ImportBatch(cmd.Context(), data)
	if err != nil {
		if te := trackerrors.AsTrackError(err); te != nil && te.Why != "" {
			outcome.Error = te.Why
		} else {
			outcome.Error = err.Error()
		}
		return outcome
	}

	outcome.Count = result.Count
	outcome.Regenerated = len(result.Regenerated)
	outcome.Issues = result.Issues
	return outcome
}

func printImportOutcome(out, errOut io.Writer, a *app, o importOutcome) {
	if o.Error != "" {
		_, _ = fmt.Fprintln(errOut, a.errOut.notification(events.LevelError, fmt.Sprintf("%s: %s", o.File, o.Error)))
		return
	}
	line := fmt.Sprintf("%s: imported %d task(s)", o.File, o.Count)
	if o.Regenerated > 0 {
		line += fmt.Sprintf(", %d with new ids", o.Regenerated)
	}
	_, _ = fmt.Fprintln(out, line)
	for _, issue := range o.Issues {
		_, _ = fmt.Fprintln(out, a.out.subtle("  "+issue))
	}
}
