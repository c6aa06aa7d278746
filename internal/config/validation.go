package config

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/language"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
	"github.com/randalmurphal/tasktrack/internal/task"
)

// MinReminderInterval bounds how often the watcher may scan.
const MinReminderInterval = time.Second

var (
	// ValidDrivers are the allowed values for storage.driver
	ValidDrivers = []string{DriverSQLite, DriverPostgres, DriverFile, DriverMemory}
	// ValidColorModes are the allowed values for display.color
	ValidColorModes = []string{ColorAuto, ColorAlways, ColorNever}
)

// Validate checks the merged configuration. The first problem found is
// returned as a CONFIG_INVALID error.
func (c *Config) Validate() error {
	if !slices.Contains(ValidDrivers, c.Storage.Driver) {
		return trackerrors.ErrConfigInvalid("storage.driver",
			fmt.Sprintf("unknown driver %q (valid: %v)", c.Storage.Driver, ValidDrivers))
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			return trackerrors.ErrConfigInvalid("storage.sqlite.path", "must not be empty")
		}
		if c.Storage.Dir == "" {
			return trackerrors.ErrConfigInvalid("storage.dir", "must not be empty")
		}
	case DriverFile:
		if c.Storage.Dir == "" {
			return trackerrors.ErrConfigInvalid("storage.dir", "must not be empty")
		}
	case DriverPostgres:
		pg := c.Storage.Postgres
		if pg.Host == "" {
			return trackerrors.ErrConfigInvalid("storage.postgres.host", "must not be empty")
		}
		if pg.Database == "" {
			return trackerrors.ErrConfigInvalid("storage.postgres.database", "must not be empty")
		}
		if pg.User == "" {
			return trackerrors.ErrConfigInvalid("storage.postgres.user", "must not be empty")
		}
		if pg.Port <= 0 || pg.Port > 65535 {
			return trackerrors.ErrConfigInvalid("storage.postgres.port",
				fmt.Sprintf("%d is not a valid port", pg.Port))
		}
	}

	if c.Reminder.Interval < MinReminderInterval {
		return trackerrors.ErrConfigInvalid("reminder.interval",
			fmt.Sprintf("%s is below the minimum of %s", c.Reminder.Interval, MinReminderInterval))
	}

	if _, err := language.Parse(c.Display.Locale); err != nil {
		return trackerrors.ErrConfigInvalid("display.locale", err.Error()).WithCause(err)
	}
	if !slices.Contains(ValidColorModes, c.Display.Color) {
		return trackerrors.ErrConfigInvalid("display.color",
			fmt.Sprintf("unknown color mode %q (valid: %v)", c.Display.Color, ValidColorModes))
	}
	if c.Display.DateFormat == "" {
		return trackerrors.ErrConfigInvalid("display.date_format", "must not be empty")
	}

	if _, err := task.ParsePriority(c.Defaults.Priority); err != nil {
		return trackerrors.ErrConfigInvalid("defaults.priority", err.Error()).WithCause(err)
	}

	return nil
}

// LocaleTag returns the parsed display locale, falling back to English.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// ErrInvalidFlag reports a command-line override that does not fit its
// config field.
func ErrInvalidFlag(flag string, err error) error {
	return trackerrors.ErrConfigInvalid("--"+flag, err.Error()).WithCause(err)
}

// ErrInvalidKey reports a config get/set that names a missing key or gives a
// value that does not fit the key's type.
func ErrInvalidKey(key string, err error) error {
	return trackerrors.ErrConfigInvalid(key, err.Error()).WithCause(err)
}
