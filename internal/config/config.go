// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading, merging, and persistence
// helpers for usercrud. It uses Viper for file/env/flag parsing and exposes
// utility functions to read/write configuration files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/usercrud/internal/db"
)

const appName = "usercrud"

// Config is the full application configuration.
type Config struct {
	Database db.Config `mapstructure:"database" yaml:"database"`
	Language string    `mapstructure:"language" yaml:"language"`
	Log      LogConfig `mapstructure:"log" yaml:"log"`
	// Color is auto, always or never.
	Color string `mapstructure:"color" yaml:"color"`
}

// LogConfig controls the package logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// envAliases binds configuration keys to the plain environment variables
// understood in addition to the USERCRUD_ prefixed ones.
var envAliases = map[string]string{
	"database.host":     "DB_HOST",
	"database.name":     "DB_NAME",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.port":     "DB_PORT",
	"database.sslmode":  "DB_SSLMODE",
	"database.dsn":      "DB_DSN",
}

// Defaults returns the default value for every configuration key.
func Defaults() map[string]any {
	d := db.DefaultConfig()
	return map[string]any{
		"database.type":           d.Type,
		"database.host":           d.Host,
		"database.port":           d.Port,
		"database.name":           d.Name,
		"database.user":           d.User,
		"database.password":       d.Password,
		"database.sslmode":        d.SSLMode,
		"database.dsn":            "",
		"database.max_open_conns": d.MaxOpenConns,
		"language":                "en",
		"log.level":               "warn",
		"log.file":                "",
		"color":                   "auto",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), appName)
		default: // Linux, macOS, etc.
			configDir = "/etc/" + appName
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, appName)
	}

	return filepath.Join(configDir, appName+".yaml"), nil
}

// LoadConfig resolves T from, in increasing precedence: defaults, the
// usercrud.yaml file, a .env file in the working directory, the environment
// and the command's flags. A missing config file is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName(appName)
	v.SetConfigType("yaml")

	// 3. An explicit --config path has the highest precedence for files.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	// 4. Add standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for usercrud.yaml in current dir

	// 5. Read in the primary config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	// 6. Values from ./.env are exported to the process environment unless
	// already set there.
	if err := LoadDotEnv(".env"); err != nil {
		return c, err
	}

	// 7. Read from environment variables
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		prefixed := strings.ToUpper(appName + "_" + strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return c, err
		}
	}

	// 8. Flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	// parse config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// LoadDotEnv reads KEY=value pairs from path and exports the ones that are
// not already present in the environment. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("could not parse %s: %w", path, err)
	}
	for _, key := range ev.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, ev.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// WriteConfigFile writes c as YAML to the user (or system) config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600 since the file may contain the database password
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}

	return path, nil
}
