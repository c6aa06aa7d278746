package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// GetValue retrieves a config value by dot-separated path (e.g., "storage.driver").
// Returns the value as a string and any error encountered.
func (c *Config) GetValue(path string) (string, error) {
	v, err := getValueByPath(reflect.ValueOf(c), path)
	if err != nil {
		return "", err
	}
	return formatValue(v), nil
}

// SetValue sets a config value by dot-separated path.
// The value is parsed based on the target field's type.
func (c *Config) SetValue(path, value string) error {
	return setValueByPath(reflect.ValueOf(c).Elem(), path, value)
}

// getValueByPath traverses a reflect.Value by dot-separated path.
func getValueByPath(v reflect.Value, path string) (reflect.Value, error) {
	if path == "" {
		return v, nil
	}

	fieldName, remaining, _ := strings.Cut(path, ".")

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil pointer at %s", fieldName)
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%s is not a section", fieldName)
	}

	field := findFieldByTag(v, fieldName)
	if !field.IsValid() {
		return reflect.Value{}, fmt.Errorf("unknown config key: %s", fieldName)
	}

	return getValueByPath(field, remaining)
}

// setValueByPath sets a value at the given path.
func setValueByPath(v reflect.Value, path, value string) error {
	fieldName, remaining, _ := strings.Cut(path, ".")

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%s is not a section", fieldName)
	}

	field := findFieldByTag(v, fieldName)
	if !field.IsValid() {
		return fmt.Errorf("unknown config key: %s", fieldName)
	}

	if remaining != "" {
		return setValueByPath(field, remaining, value)
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("%s is a section, not a value", fieldName)
	}

	return setFieldValue(field, value)
}

// findFieldByTag finds a struct field by its yaml tag or name.
func findFieldByTag(v reflect.Value, name string) reflect.Value {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if yamlName(field) == name || strings.EqualFold(field.Name, name) {
			return v.Field(i)
		}
	}

	return reflect.Value{}
}

func yamlName(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}

// setFieldValue sets a field to the parsed value.
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", value, err)
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer %q: %w", value, err)
			}
			field.SetInt(i)
		}
	case reflect.Bool:
		field.SetBool(parseBool(value))
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// formatValue formats a reflect.Value as a string.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int64:
		if v.Type() == durationType {
			return time.Duration(v.Int()).String()
		}
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Ptr:
		if v.IsNil() {
			return "<nil>"
		}
		return formatValue(v.Elem())
	default:
		return fmt.Sprintf("%+v", v.Interface())
	}
}

// AllConfigPaths returns every leaf config path in declaration order.
func AllConfigPaths() []string {
	return collectPaths("", reflect.TypeOf(Config{}))
}

func collectPaths(prefix string, t reflect.Type) []string {
	var paths []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := yamlName(field)
		if prefix != "" {
			path = prefix + "." + path
		}
		if field.Type.Kind() == reflect.Struct && field.Type != durationType {
			paths = append(paths, collectPaths(path, field.Type)...)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
