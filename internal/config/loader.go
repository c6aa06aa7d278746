package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	trackerrors "github.com/randalmurphal/tasktrack/internal/errors"
)

// Loader resolves configuration for a project directory.
type Loader struct {
	projectDir string
	homeDir    string
	configFile string
}

// NewLoader creates a loader rooted at projectDir. The user config is read
// from the current user's home directory.
func NewLoader(projectDir string) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{projectDir: projectDir, homeDir: home}
}

// WithConfigFile adds an explicit config file (the --config flag), applied
// after the project config and before env vars.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// LoadWithSources loads configuration for the current working directory.
func LoadWithSources() (*TrackedConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return NewLoader(cwd).Load()
}

// Load resolves configuration with source tracking.
// Load order (later sources override earlier):
//  1. Built-in defaults
//  2. User config (~/.tasktrack/config.yaml) - optional
//  3. Project config (.tasktrack/config.yaml) - optional
//  4. Explicit --config file - required if set
//  5. Environment variables (TASKTRACK_*)
//
// The merged result is validated before it is returned.
func (l *Loader) Load() (*TrackedConfig, error) {
	tc := NewTrackedConfig()

	if l.homeDir != "" {
		userPath := filepath.Join(l.homeDir, TrackDir, ConfigFileName)
		if _, err := os.Stat(userPath); err == nil {
			if err := mergeFromFile(tc, userPath, SourceUser); err != nil {
				slog.Warn("failed to load user config", "path", userPath, "error", err)
			}
		}
	}

	projectPath := ProjectConfigPath(l.projectDir)
	if _, err := os.Stat(projectPath); err == nil {
		if err := mergeFromFile(tc, projectPath, SourceProject); err != nil {
			return nil, trackerrors.ErrConfigInvalid(projectPath, err.Error()).WithCause(err)
		}
	}

	if l.configFile != "" {
		if err := mergeFromFile(tc, l.configFile, SourceFile); err != nil {
			return nil, trackerrors.ErrConfigInvalid(l.configFile, err.Error()).WithCause(err)
		}
	}

	ApplyEnvVars(tc)

	if err := tc.Config.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}

// mergeFromFile merges configuration from a file into tc.
//
// yaml.v3 only assigns keys present in the document, so unmarshalling onto
// the current config overlays the file. The raw map is walked separately to
// record which paths the file set.
func mergeFromFile(tc *TrackedConfig, path string, source ConfigSource) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, tc.Config); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for _, key := range flattenKeys("", raw) {
		tc.SetSource(key, source, path)
	}
	return nil
}

// flattenKeys returns dotted leaf paths of a decoded YAML mapping.
func flattenKeys(prefix string, raw map[string]any) []string {
	var keys []string
	for k, v := range raw {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			keys = append(keys, flattenKeys(path, nested)...)
			continue
		}
		keys = append(keys, path)
	}
	return keys
}
