package config

import (
	"log/slog"
	"os"
	"sort"
	"strings"
)

// EnvPrefix is the prefix shared by all tasktrack environment variables.
const EnvPrefix = "TASKTRACK"

// EnvVarMapping defines the mapping between environment variables and config paths.
var EnvVarMapping = map[string]string{
	// Storage settings
	"TASKTRACK_STORAGE_DRIVER": "storage.driver",
	"TASKTRACK_STORAGE_DIR":    "storage.dir",
	"TASKTRACK_SQLITE_PATH":    "storage.sqlite.path",
	// Database settings
	"TASKTRACK_DB_HOST":     "storage.postgres.host",
	"TASKTRACK_DB_PORT":     "storage.postgres.port",
	"TASKTRACK_DB_NAME":     "storage.postgres.database",
	"TASKTRACK_DB_USER":     "storage.postgres.user",
	"TASKTRACK_DB_PASSWORD": "storage.postgres.password",
	"TASKTRACK_DB_SSL_MODE": "storage.postgres.ssl_mode",
	// Reminder
	"TASKTRACK_REMINDER_ENABLED":  "reminder.enabled",
	"TASKTRACK_REMINDER_INTERVAL": "reminder.interval",
	// Display
	"TASKTRACK_LOCALE":      "display.locale",
	"TASKTRACK_COLOR":       "display.color",
	"TASKTRACK_DATE_FORMAT": "display.date_format",
	// Defaults for new tasks
	"TASKTRACK_DEFAULT_PRIORITY": "defaults.priority",
	"TASKTRACK_DEFAULT_CATEGORY": "defaults.category",
}

// ApplyEnvVars applies environment variable overrides to a TrackedConfig.
// Returns the sorted list of paths that were overridden. Values that do not
// parse for their field are logged and skipped.
func ApplyEnvVars(tc *TrackedConfig) []string {
	envVars := make([]string, 0, len(EnvVarMapping))
	for envVar := range EnvVarMapping {
		envVars = append(envVars, envVar)
	}
	sort.Strings(envVars)

	var overridden []string
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		configPath := EnvVarMapping[envVar]
		if err := tc.Config.SetValue(configPath, value); err != nil {
			slog.Warn("ignoring environment override", "var", envVar, "error", err)
			continue
		}
		tc.SetSource(configPath, SourceEnv, envVar)
		overridden = append(overridden, configPath)
	}

	return overridden
}

// EnvVarForPath returns the environment variable bound to a config path, or
// "" if there is none.
func EnvVarForPath(path string) string {
	for envVar, p := range EnvVarMapping {
		if p == path {
			return envVar
		}
	}
	return ""
}

// parseBool parses a boolean string (case-insensitive).
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
