package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested sections
		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
