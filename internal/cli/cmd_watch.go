package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/tasktrack/internal/events"
	"github.com/randalmurphal/tasktrack/internal/lock"
	"github.com/randalmurphal/tasktrack/internal/reminder"
	"github.com/randalmurphal/tasktrack/internal/storage"
	"github.com/randalmurphal/tasktrack/internal/watcher"
)

// newWatchCmd creates the watch command
func newWatchCmd() *cobra.Command {
	var interval time.Duration
	var noReload bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stay running and remind about overdue tasks",
		Long: `Scan for overdue tasks on an interval and print a reminder whenever
any are found. Changes written to storage by other tasktrack commands are
picked up as they happen. Only one watch runs per data directory.

With --json each event is written to stdout as one JSON object per line.

Example:
  tasktrack watch
  tasktrack watch --interval 5m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				dir, err := a.tc.Config.DataDir()
				if err != nil {
					return err
				}
				guard := lock.NewPIDGuard(dir, lock.WatchGuardName)
				if err := guard.Acquire(); err != nil {
					return fmt.Errorf("watch: %w", err)
				}
				defer guard.Release()

				ctx, cancel := setupSignalHandler(cmd.Context(), cmd.ErrOrStderr())
				defer cancel()

				rc := a.tc.Config.Reminder
				if cmd.Flags().Changed("interval") {
					rc.Interval = interval
					rc.Enabled = true
				}
				return runWatch(ctx, cmd, a, rc.Enabled, rc.Interval, !noReload)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "reminder interval (default from reminder.interval)")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "do not reload when storage changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, remind bool, interval time.Duration, reload bool) error {
	g, ctx := errgroup.WithContext(ctx)

	if jsonOut {
		ch := a.publisher.Subscribe(events.GlobalTaskID)
		defer a.publisher.Unsubscribe(events.GlobalTaskID, ch)
		enc := json.NewEncoder(cmd.OutOrStdout())
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-ch:
					if !ok {
						return nil
					}
					if err := enc.Encode(ev); err != nil {
						return fmt.Errorf("write event: %w", err)
					}
				}
			}
		})
	}

	running := 0
	if remind {
		w := reminder.New(reminder.Config{
			Source:    a.store,
			Publisher: a.notifier,
			Logger:    slog.Default(),
			Interval:  interval,
		})
		w.Check()
		g.Go(func() error { return w.Run(ctx) })
		running++
	}

	if reload {
		paths, err := storage.WatchPaths(a.tc.Config)
		if err != nil {
			return err
		}
		if len(paths) > 0 {
			fw, err := watcher.New(&watcher.Config{
				Paths: paths,
				OnChange: func(path string) {
					if _, err := a.store.Reload(ctx); err != nil {
						slog.Warn("reload failed", "path", path, "error", err)
					}
				},
				Logger: slog.Default(),
			})
			if err != nil {
				return err
			}
			g.Go(func() error { return fw.Start(ctx) })
			running++
		}
	}

	if running == 0 {
		return errors.New("nothing to watch: reminders are disabled and storage has no local files")
	}

	if !jsonOut {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), a.errOut.subtle("Watching tasks (Ctrl+C to stop)"))
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
