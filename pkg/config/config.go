// Package config loads service configuration from YAML files and environment
// variables using struct tags:
//
//	env:"NAME"       environment variable overriding the field
//	default:"value"  applied when the field is still zero after file and env
//	required:"true"  the field must end up non-zero (ignored when a default exists)
//
// Supported field kinds are string, bool, ints, floats, time.Duration and
// comma-separated []string. Nested structs are walked recursively.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Validator interface allows config structs to implement custom validation logic.
// It runs after file, environment and default values have been applied.
type Validator interface {
	Validate() error
}

// setFromString parses raw according to the field's kind and stores it.
func setFromString(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("failed to convert %q to duration: %w", raw, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to convert %q to int: %w", raw, err)
		}
		field.SetInt(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to convert %q to float: %w", raw, err)
		}
		field.SetFloat(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("failed to convert %q to bool: %w", raw, err)
		}
		field.SetBool(v)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		slice := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				slice = reflect.Append(slice, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}

// applyEnv overlays environment variables and records which fields they set,
// keyed by owning struct type and field name.
func applyEnv(val reflect.Value, setFields map[string]bool) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		meta := typ.Field(i)
		if !meta.IsExported() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := applyEnv(field, setFields); err != nil {
				return err
			}
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		if err := setFromString(field, raw); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
		setFields[typ.Name()+"."+meta.Name] = true
	}
	return nil
}

// applyDefaults fills zero fields from default tags and reports missing
// required fields. All problems are aggregated.
func applyDefaults(val reflect.Value, setFields map[string]bool) error {
	var result error
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		meta := typ.Field(i)
		if !meta.IsExported() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := applyDefaults(field, setFields); err != nil {
				result = multierror.Append(result, err)
			}
			continue
		}

		def, hasDefault := meta.Tag.Lookup("default")
		required := strings.EqualFold(meta.Tag.Get("required"), "true") || meta.Tag.Get("required") == "1"

		if !field.IsZero() {
			continue
		}
		if hasDefault && def != "" && !setFields[typ.Name()+"."+meta.Name] {
			if err := setFromString(field, def); err != nil {
				result = multierror.Append(result, fmt.Errorf("default for %s: %w", meta.Name, err))
			}
			continue
		}
		if required && !hasDefault {
			result = multierror.Append(result, fmt.Errorf("required field env:%s / yaml:%s is missing",
				meta.Tag.Get("env"), meta.Tag.Get("yaml")))
		}
	}
	return result
}

func finish[T any](dest *T) error {
	val := reflect.ValueOf(dest).Elem()
	setFields := make(map[string]bool)
	if err := applyEnv(val, setFields); err != nil {
		return err
	}
	if err := applyDefaults(val, setFields); err != nil {
		var zero T
		*dest = zero
		return err
	}
	if v, ok := any(dest).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// GetConfigFromEnvVars loads configuration from environment variables only.
//
//	var cfg MyConfig
//	err := GetConfigFromEnvVars(&cfg)
func GetConfigFromEnvVars[T any](dest *T) error {
	return finish(dest)
}

// GetConfig loads configuration from a YAML file first, then overlays
// environment variables and defaults. An empty path means env only. With
// allowFileErrors set, an unreadable or malformed file falls back to env only.
func GetConfig[T any](dest *T, path string, allowFileErrors bool) error {
	if path == "" {
		return finish(dest)
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		if allowFileErrors {
			return finish(dest)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		if allowFileErrors {
			var zero T
			*dest = zero
			return finish(dest)
		}
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return finish(dest)
}
