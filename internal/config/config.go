// Package config loads toupnode options from a TOML file, TOUPNODE_*
// environment variables and command line flags, and watches the file for
// camera settings changes.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/touptek/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "TOUPNODE_"

// LoadConfig fills opts, a pointer to a struct, with precedence
// CLI flags > env vars > config file. The file path is read from a string
// field named Config. Fields use `toml:"section.key"` and `env:"KEY"` tags.
// If cmd is non-nil, flags explicitly set on it are left untouched.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: LoadConfig needs a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	changed := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changed[f.Name] = true
			}
		})
	}

	var file map[string]any
	if f := v.FieldByName("Config"); f.IsValid() && f.Kind() == reflect.String && f.String() != "" {
		data, err := os.ReadFile(f.String())
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("config: parse %s: %w", f.String(), err)
			}
		case !os.IsNotExist(err):
			return fmt.Errorf("config: read %s: %w", f.String(), err)
		}
	}

	for i := range v.NumField() {
		field := v.Field(i)
		ft := t.Field(i)
		if changed[fieldNameToFlag(ft.Name)] {
			continue
		}
		if path := ft.Tag.Get("toml"); path != "" && file != nil {
			if value := getNestedValue(file, path); value != nil {
				if err := setFieldValue(field, value); err != nil {
					return fmt.Errorf("config: %s: %w", path, err)
				}
			}
		}
		if key := ft.Tag.Get("env"); key != "" {
			if s, ok := os.LookupEnv(EnvPrefix + key); ok && s != "" {
				if err := setFieldValueFromString(field, s); err != nil {
					return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
				}
			}
		}
	}
	return nil
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LoggingLevel" -> "logging-level", "CameraID" -> "camera-id".
func fieldNameToFlag(fieldName string) string {
	rs := []rune(fieldName)
	var result []rune
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || (nextLower && unicode.IsUpper(rs[i-1])) {
				result = append(result, '-')
			}
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested maps using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current[parts[len(parts)-1]]
}

var durationType = reflect.TypeFor[time.Duration]()

// setFieldValue assigns a decoded TOML value to field.
func setFieldValue(field reflect.Value, value any) error {
	if !field.CanSet() {
		return nil
	}
	if s, ok := value.(string); ok && field.Kind() != reflect.String {
		return setFieldValueFromString(field, s)
	}

	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("want string, got %T", value)
		}
		field.SetString(s)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("want bool, got %T", value)
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := value.(int64)
		if !ok {
			return fmt.Errorf("want integer, got %T", value)
		}
		if field.OverflowInt(i) {
			return fmt.Errorf("%d overflows %s", i, field.Type())
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := value.(int64)
		if !ok || i < 0 {
			return fmt.Errorf("want non-negative integer, got %v", value)
		}
		if field.OverflowUint(uint64(i)) {
			return fmt.Errorf("%d overflows %s", i, field.Type())
		}
		field.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		switch f := value.(type) {
		case float64:
			field.SetFloat(f)
		case int64:
			field.SetFloat(float64(f))
		default:
			return fmt.Errorf("want number, got %T", value)
		}
	case reflect.Slice:
		arr, ok := value.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list for %s", field.Type())
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("want string list item, got %T", item)
			}
			out = append(out, s)
		}
		field.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// setFieldValueFromString parses an env var or string TOML value into field.
func setFieldValueFromString(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list for %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// LoadLoggingConfig reads the [logging] table. Keys other than level and
// format, and entries of [logging.modules], are per-module levels. A missing
// or unreadable file yields the defaults.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}
	if configPath == "" {
		return cfg
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var raw struct {
		Logging map[string]any `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg
	}
	for key, value := range raw.Logging {
		switch val := value.(type) {
		case string:
			switch key {
			case "level":
				cfg.Level = val
			case "format":
				cfg.Format = val
			default:
				cfg.Modules[key] = val
			}
		case map[string]any:
			if key != "modules" {
				continue
			}
			for module, level := range val {
				if s, ok := level.(string); ok {
					cfg.Modules[module] = s
				}
			}
		}
	}
	return cfg
}
