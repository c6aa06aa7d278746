package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tasktrack/internal/task"
)

var testNow = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

// cliEnv runs commands against file storage in a temp directory with a
// fixed clock.
type cliEnv struct {
	t       *testing.T
	dir     string
	dataDir string
	clock   *task.FixedClock
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	t.Setenv("TASKTRACK_STORAGE_DRIVER", "file")
	t.Setenv("TASKTRACK_STORAGE_DIR", dataDir)
	t.Chdir(dir)

	fixed := task.NewFixedClock(testNow)
	old := clock
	clock = fixed
	t.Cleanup(func() { clock = old })

	return &cliEnv{t: t, dir: dir, dataDir: dataDir, clock: fixed}
}

// run executes the root command with args and returns stdout, stderr and
// the command error.
func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	return e.runWithInput("", args...)
}

func (e *cliEnv) runWithInput(input string, args ...string) (string, string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// mustRun fails the test when the command errors and returns trimmed stdout.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	stdout, stderr, err := e.run(args...)
	require.NoError(e.t, err, "tasktrack %v\nstderr: %s", args, stderr)
	return strings.TrimSpace(stdout)
}

// add creates a task and returns its id.
func (e *cliEnv) add(args ...string) string {
	e.t.Helper()
	return e.mustRun(append([]string{"add"}, args...)...)
}

// listJSON returns the tasks printed by list --json with the given filters.
func (e *cliEnv) listJSON(args ...string) []task.Task {
	e.t.Helper()
	out := e.mustRun(append([]string{"list", "--json"}, args...)...)
	var tasks []task.Task
	require.NoError(e.t, json.Unmarshal([]byte(out), &tasks), out)
	return tasks
}

func texts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}
