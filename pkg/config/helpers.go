package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/leaf/pkg/errors"
)

// settingFields maps every dotted settings key (yaml names, e.g. "platform.os") to its field.
func settingFields(settings reflect.Value) map[string]reflect.Value {
	fields := make(map[string]reflect.Value)
	collectFields(settings, "", fields)
	return fields
}

func collectFields(v reflect.Value, prefix string, into map[string]reflect.Value) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		key := prefix + strings.Split(yamlTag, ",")[0]
		value := v.Field(i)
		if value.Kind() == reflect.Struct && value.Type() != reflect.TypeOf(time.Duration(0)) {
			collectFields(value, key+".", into)
			continue
		}
		into[key] = value
	}
}

// SetValue sets a configuration value by its dotted key and re-validates the result.
// Supported keys are the yaml names of Settings, e.g. bin_dir, http_timeout, platform.arch.
func (c *Config) SetValue(key, value string) error {
	field, ok := settingFields(reflect.ValueOf(&c.Settings).Elem())[key]
	if !ok {
		return fmt.Errorf("%s: %w", key, errors.ErrUnknownConfigKey)
	}

	previous := reflect.New(field.Type()).Elem()
	previous.Set(field)

	switch {
	case field.Type() == reflect.TypeOf(time.Duration(0)):
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(errors.ErrConfigValidation, "invalid duration for %s: %s", key, value)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(errors.ErrConfigValidation, "invalid boolean value for %s: %s", key, value)
		}
		field.SetBool(b)
	case field.Kind() == reflect.String:
		field.SetString(value)
	default:
		return fmt.Errorf("%s has unsupported type %s: %w", key, field.Type(), errors.ErrUnknownConfigKey)
	}

	if err := c.Validate(); err != nil {
		field.Set(previous)
		return err
	}
	return nil
}

// GetValue returns a configuration value by its dotted key.
func (c *Config) GetValue(key string) (string, error) {
	field, ok := settingFields(reflect.ValueOf(c.Settings))[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, errors.ErrUnknownConfigKey)
	}
	return formatValue(field), nil
}

// Keys returns every supported key, sorted.
func (c *Config) Keys() []string {
	fields := settingFields(reflect.ValueOf(c.Settings))
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ToMap returns every setting keyed by its dotted name.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	for key, field := range settingFields(reflect.ValueOf(c.Settings)) {
		result[key] = formatValue(field)
	}
	return result
}

func formatValue(v reflect.Value) string {
	if v.Type() == reflect.TypeOf(time.Duration(0)) {
		return time.Duration(v.Int()).String()
	}
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
