package config

import (
	"log/slog"
	"path/filepath"

	"github.com/modu-ai/habit-tracker/internal/defs"
)

// Config is the root configuration aggregate.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
	System  SystemConfig  `yaml:"system"`
}

// StorageConfig selects where and how habits are persisted.
type StorageConfig struct {
	// Driver is "json" or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
	// DataFile overrides the default data path. Relative paths are
	// resolved against the config directory.
	DataFile string `yaml:"data_file,omitempty" env:"DATA_FILE"`
	// Lock enables the cross-process file lock around each mutation.
	Lock bool `yaml:"lock" env:"STORAGE_LOCK"`
}

// UIConfig controls terminal rendering.
type UIConfig struct {
	HistoryDays int  `yaml:"history_days" env:"HISTORY_DAYS"`
	NoColor     bool `yaml:"no_color" env:"NO_COLOR"`
}

// SystemConfig represents the system configuration section.
type SystemConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`
}

// DataPath returns the data file location for the configured driver.
func (c *Config) DataPath(configDir string) string {
	if c.Storage.DataFile != "" {
		if filepath.IsAbs(c.Storage.DataFile) {
			return filepath.Clean(c.Storage.DataFile)
		}
		return filepath.Join(configDir, c.Storage.DataFile)
	}
	name := defs.HabitsJSON
	if c.Storage.Driver == DriverSQLite {
		name = defs.HabitsDB
	}
	return filepath.Join(configDir, defs.DataSubdir, name)
}

// LockPath returns the lock file path next to the data file.
func (c *Config) LockPath(configDir string) string {
	return c.DataPath(configDir) + defs.LockSuffix
}

// SlogLevel maps LogLevel onto a slog.Level. Unknown values map to warn.
func (s SystemConfig) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
