// Package config provides configuration management for tasktrack.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default config file name
	ConfigFileName = "config.yaml"
	// TrackDir is the tasktrack configuration directory
	TrackDir = ".tasktrack"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
	DriverMemory   = "memory"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultReminderInterval is how often the watcher scans for overdue tasks.
const DefaultReminderInterval = 60 * time.Second

// Config represents the tasktrack configuration.
type Config struct {
	// Version is the config file version
	Version int `yaml:"version"`

	Storage  StorageConfig  `yaml:"storage"`
	Reminder ReminderConfig `yaml:"reminder"`
	Display  DisplayConfig  `yaml:"display"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// StorageConfig selects and configures the key-value backend that holds the
// task snapshot and theme preference.
type StorageConfig struct {
	// Driver is one of sqlite, postgres, file, memory (default: sqlite)
	Driver string `yaml:"driver"`

	// Dir is the data directory. "~" expands to the home directory.
	// Default: ~/.tasktrack
	Dir string `yaml:"dir"`

	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig defines SQLite-specific settings.
type SQLiteConfig struct {
	// Path of the database file, relative to Dir unless absolute
	Path string `yaml:"path"`
}

// PostgresConfig defines PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"` // Use env TASKTRACK_DB_PASSWORD
	SSLMode  string `yaml:"ssl_mode"`
}

// ReminderConfig controls the overdue reminder watcher.
type ReminderConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// DisplayConfig controls terminal rendering.
type DisplayConfig struct {
	// Locale is a BCP 47 tag used for name/category collation
	Locale string `yaml:"locale"`
	// Color is auto, always or never
	Color string `yaml:"color"`
	// DateFormat is a Go time layout for due dates and timestamps in list output
	DateFormat string `yaml:"date_format"`
}

// DefaultsConfig holds values applied when `add` omits them.
type DefaultsConfig struct {
	Priority string `yaml:"priority"`
	Category string `yaml:"category"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Dir:    filepath.Join("~", TrackDir),
			SQLite: SQLiteConfig{
				Path: "tasks.db",
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "tasktrack",
				User:     "tasktrack",
				SSLMode:  "disable",
			},
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Interval: DefaultReminderInterval,
		},
		Display: DisplayConfig{
			Locale:     "en",
			Color:      ColorAuto,
			DateFormat: "2006-01-02",
		},
		Defaults: DefaultsConfig{
			Priority: "medium",
			Category: "general",
		},
	}
}

// DataDir returns Storage.Dir with a leading "~" expanded.
func (c *Config) DataDir() (string, error) {
	return expandHome(c.Storage.Dir)
}

// SQLitePath returns the resolved SQLite database file path.
func (c *Config) SQLitePath() (string, error) {
	if filepath.IsAbs(c.Storage.SQLite.Path) {
		return c.Storage.SQLite.Path, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLite.Path), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// LoadFrom loads the config from a specific path on top of the defaults.
// A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveTo saves the config to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// ProjectConfigPath returns .tasktrack/config.yaml under projectDir.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, TrackDir, ConfigFileName)
}

// UserConfigPath returns ~/.tasktrack/config.yaml.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, TrackDir, ConfigFileName), nil
}
