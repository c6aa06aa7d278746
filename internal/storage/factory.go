package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/randalmurphal/tasktrack/internal/config"
	"github.com/randalmurphal/tasktrack/internal/db"
	"github.com/randalmurphal/tasktrack/internal/db/driver"
)

// NewKV creates the key-value backend selected by cfg.Storage.Driver.
func NewKV(cfg *config.Config) (KV, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite, "":
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, err
		}
		d, err := db.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		slog.Debug("opened sqlite storage", "path", path)
		return NewDatabaseKV(d), nil
	case config.DriverPostgres:
		pg := cfg.Storage.Postgres
		dsn := driver.PostgresDSN(pg.Host, pg.Port, pg.Database, pg.User, pg.Password, pg.SSLMode)
		d, err := db.OpenWithDialect(dsn, driver.DialectPostgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres %s@%s/%s: %w", pg.User, pg.Host, pg.Database, err)
		}
		slog.Debug("opened postgres storage", "host", pg.Host, "database", pg.Database)
		return NewDatabaseKV(d), nil
	case config.DriverFile:
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}
		slog.Debug("using file storage", "dir", dir)
		return NewFileKV(dir), nil
	case config.DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// Open creates the configured backend and wraps it in an Adapter.
func Open(cfg *config.Config) (*Adapter, error) {
	kv, err := NewKV(cfg)
	if err != nil {
		return nil, err
	}
	return NewAdapter(kv), nil
}

// WatchPaths returns the local files that change when another process
// writes the snapshot. Drivers without local files return nil.
func WatchPaths(cfg *config.Config) ([]string, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite, "":
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, err
		}
		return []string{path, path + "-wal"}, nil
	case config.DriverFile:
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}
		return []string{filepath.Join(dir, TasksKey+".json")}, nil
	default:
		return nil, nil
	}
}
