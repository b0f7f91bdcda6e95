package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
)

const (
	APP_NAME    = "hexpat"
	CONFIG_FILE = "config.toml"
)

var DEFAULT_CONFIG_FILE string = `# hexpat configuration
dev = false

[log]
level = "info"
format = "text"

[validator]
# 0 means no bound on nesting depth
max_depth = 0

[watch]
debounce = "200ms"
extensions = [".yaml", ".yml", ".json"]

[metrics]
addr = ""
`

// DefaultPath returns the config file inside the user's config directory,
// creating the directory and a default file on first use.
func DefaultPath() (string, error) {
	dir, err := getConfigDir(APP_NAME)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, CONFIG_FILE)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeStringToFile(path, DEFAULT_CONFIG_FILE); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return path, nil
}

func getConfigDir(appName string) (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), appName)
		} else {
			configDir = filepath.Join(homeDir, ".config", appName)
		}
	} else {
		return "", fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

func writeStringToFile(fileName, content string) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	if err != nil {
		return err
	}

	return nil
}

// MapEnvToStruct sets every field tagged `env:"NAME"` whose variable is
// present in lookup. Nested structs are walked; string, bool and int fields
// are supported.
func MapEnvToStruct(lookup func(string) (string, bool), result any) error {
	v := reflect.ValueOf(result).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if fieldValue.Kind() == reflect.Struct && fieldValue.CanAddr() {
			if err := MapEnvToStruct(lookup, fieldValue.Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		envTag := field.Tag.Get("env")
		if envTag == "" || !fieldValue.CanSet() {
			continue
		}
		value, ok := lookup(envTag)
		if !ok {
			continue
		}

		switch fieldValue.Kind() {
		case reflect.String:
			fieldValue.SetString(value)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s: %w", envTag, err)
			}
			fieldValue.SetBool(b)
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", envTag, err)
			}
			fieldValue.SetInt(n)
		default:
			return fmt.Errorf("%s: unsupported field type %s", envTag, fieldValue.Kind())
		}
	}

	return nil
}
