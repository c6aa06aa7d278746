package config

import (
	"fmt"
	"sort"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates a built-in default value.
	SourceDefault ConfigSource = "default"
	// SourceUser indicates ~/.tasktrack/config.yaml.
	SourceUser ConfigSource = "user"
	// SourceProject indicates .tasktrack/config.yaml in the working directory.
	SourceProject ConfigSource = "project"
	// SourceFile indicates a file passed with --config.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates an environment variable override.
	SourceEnv ConfigSource = "env"
	// SourceFlag indicates a command-line flag.
	SourceFlag ConfigSource = "flag"
)

// TrackedSource contains both the source type and the file path.
type TrackedSource struct {
	Source ConfigSource
	Path   string // File path, env var name, or empty for defaults
}

// String returns a human-readable source description.
func (ts TrackedSource) String() string {
	if ts.Path == "" {
		return string(ts.Source)
	}
	return fmt.Sprintf("%s: %s", ts.Source, ts.Path)
}

// TrackedConfig wraps a Config with source tracking.
type TrackedConfig struct {
	// Config is the merged configuration.
	Config *Config

	// Sources maps dotted config paths ("storage.driver") to their origin.
	Sources map[string]TrackedSource
}

// NewTrackedConfig creates a new TrackedConfig with defaults.
func NewTrackedConfig() *TrackedConfig {
	tc := &TrackedConfig{
		Config:  Default(),
		Sources: make(map[string]TrackedSource),
	}
	for _, path := range AllConfigPaths() {
		tc.SetSource(path, SourceDefault, "")
	}
	return tc
}

// SetSource records the source and file path for a config path.
func (tc *TrackedConfig) SetSource(path string, source ConfigSource, origin string) {
	tc.Sources[path] = TrackedSource{Source: source, Path: origin}
}

// GetSource returns the source for a config path.
// Returns SourceDefault if no source is recorded.
func (tc *TrackedConfig) GetSource(path string) ConfigSource {
	return tc.GetTrackedSource(path).Source
}

// GetTrackedSource returns the full source info for a config path.
func (tc *TrackedConfig) GetTrackedSource(path string) TrackedSource {
	if ts, ok := tc.Sources[path]; ok {
		return ts
	}
	return TrackedSource{Source: SourceDefault}
}

// Overridden returns the sorted config paths whose value did not come from
// the built-in defaults.
func (tc *TrackedConfig) Overridden() []string {
	var paths []string
	for path, ts := range tc.Sources {
		if ts.Source != SourceDefault {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}
