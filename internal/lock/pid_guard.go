// Package lock keeps one long-running tasktrack process per data directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// WatchGuardName is the guard used by `tasktrack watch`.
const WatchGuardName = "watch"

// PIDGuard records the owning process id in <dir>/<name>.pid.
type PIDGuard struct {
	path string
}

// NewPIDGuard creates a guard named name inside dir.
func NewPIDGuard(dir, name string) *PIDGuard {
	return &PIDGuard{path: filepath.Join(dir, name+".pid")}
}

// Path returns the guard file path.
func (g *PIDGuard) Path() string {
	return g.path
}

// Acquire claims the guard for this process. A file left behind by a process
// that has exited, or one that does not hold a pid, is taken over. Returns
// *AlreadyRunningError while another live process holds the guard.
func (g *PIDGuard) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return fmt.Errorf("create guard dir: %w", err)
	}

	self := os.Getpid()
	for range 2 {
		f, err := os.OpenFile(g.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(self))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(g.path)
				return fmt.Errorf("write pid file: %w", errors.Join(werr, cerr))
			}
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create pid file: %w", err)
		}

		pid, ok := g.owner()
		if ok && pid == self {
			return nil
		}
		if ok && processExists(pid) {
			return &AlreadyRunningError{PID: pid, Path: g.path}
		}
		if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale pid file: %w", err)
		}
	}
	return fmt.Errorf("acquire %s: another process claimed it first", g.path)
}

// Release removes the guard file if this process holds it.
func (g *PIDGuard) Release() {
	if pid, ok := g.owner(); ok && pid == os.Getpid() {
		_ = os.Remove(g.path)
	}
}

// owner reads the recorded pid. ok is false when the file is missing or
// does not hold a number.
func (g *PIDGuard) owner() (pid int, ok bool) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return 0, false
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// AlreadyRunningError indicates another live process holds the guard.
type AlreadyRunningError struct {
	PID  int
	Path string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("already running (pid %d, remove %s if that is wrong)", e.PID, e.Path)
}

// processExists checks if a process with the given PID exists.
func processExists(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds. Signal 0 probes without sending.
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
