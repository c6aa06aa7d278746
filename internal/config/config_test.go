package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "tasks.db", cfg.Storage.SQLite.Path)
	assert.True(t, cfg.Reminder.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Reminder.Interval)
	assert.Equal(t, ColorAuto, cfg.Display.Color)
	assert.Equal(t, "medium", cfg.Defaults.Priority)
	assert.Equal(t, "general", cfg.Defaults.Category)
	require.NoError(t, cfg.Validate())
}

func TestSQLitePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	path, err := cfg.SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tasktrack", "tasks.db"), path)

	cfg.Storage.SQLite.Path = "/var/lib/tasktrack/tasks.db"
	path, err = cfg.SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tasktrack/tasks.db", path)

	cfg.Storage.Dir = "relative/data"
	cfg.Storage.SQLite.Path = "t.db"
	path, err = cfg.SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("relative", "data", "t.db"), path)
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveToLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Storage.Driver = DriverFile
	cfg.Reminder.Interval = 5 * time.Minute
	cfg.Display.Locale = "de"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"empty sqlite path", func(c *Config) { c.Storage.SQLite.Path = "" }, "storage.sqlite.path"},
		{"file driver without dir", func(c *Config) {
			c.Storage.Driver = DriverFile
			c.Storage.Dir = ""
		}, "storage.dir"},
		{"postgres without host", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Storage.Postgres.Host = ""
		}, "storage.postgres.host"},
		{"postgres bad port", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Storage.Postgres.Port = 70000
		}, "storage.postgres.port"},
		{"interval too short", func(c *Config) { c.Reminder.Interval = 10 * time.Millisecond }, "reminder.interval"},
		{"bad locale", func(c *Config) { c.Display.Locale = "not a locale!" }, "display.locale"},
		{"bad color", func(c *Config) { c.Display.Color = "rainbow" }, "display.color"},
		{"empty date format", func(c *Config) { c.Display.DateFormat = "" }, "display.date_format"},
		{"bad default priority", func(c *Config) { c.Defaults.Priority = "urgent" }, "defaults.priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, trackerrors.ErrConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_MemoryDriverNeedsNothing(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = DriverMemory
	cfg.Storage.Dir = ""
	cfg.Storage.SQLite.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestLocaleTag(t *testing.T) {
	cfg := Default()
	cfg.Display.Locale = "sv"
	assert.Equal(t, "sv", cfg.LocaleTag().String())

	cfg.Display.Locale = "!!"
	assert.Equal(t, "en", cfg.LocaleTag().String())
}
