package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SetInFile sets a single key in the config file at path, leaving every
// other key in that file as it was. The file is created if missing. The
// value is checked against the field's type before anything is written.
func SetInFile(path, key, value string) error {
	probe := Default()
	if err := probe.SetValue(key, value); err != nil {
		return err
	}
	typed, err := probe.typedValue(key)
	if err != nil {
		return err
	}

	raw := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := setNested(raw, strings.Split(key, "."), typed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	// Round-trip through Config so the result is known to load.
	check := Default()
	out, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := yaml.Unmarshal(out, check); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// typedValue returns the value at path as the YAML scalar it should be
// written as. Durations are written in their string form.
func (c *Config) typedValue(path string) (any, error) {
	v, err := getValueByPath(reflect.ValueOf(c), path)
	if err != nil {
		return nil, err
	}
	if v.Type() == durationType {
		return time.Duration(v.Int()).String(), nil
	}
	return v.Interface(), nil
}

func setNested(m map[string]any, keys []string, value any) error {
	if len(keys) == 1 {
		m[keys[0]] = value
		return nil
	}
	child, ok := m[keys[0]]
	if !ok || child == nil {
		child = map[string]any{}
		m[keys[0]] = child
	}
	nested, ok := child.(map[string]any)
	if !ok {
		return fmt.Errorf("%s is not a section", keys[0])
	}
	return setNested(nested, keys[1:], value)
}
