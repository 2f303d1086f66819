package config

import (
	"os"
	"path/filepath"

	"github.com/modu-ai/habit-tracker/internal/defs"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Default values for configuration fields.
const (
	DefaultDriver      = DriverJSON
	DefaultLock        = true
	DefaultHistoryDays = 7
	MaxHistoryDays     = 31
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// ValidLogLevels lists the accepted system.log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted system.log_format values.
var ValidLogFormats = []string{"text", "json"}

// NewDefaultConfig returns a Config with all compiled defaults applied.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: NewDefaultStorageConfig(),
		UI:      NewDefaultUIConfig(),
		System:  NewDefaultSystemConfig(),
	}
}

// NewDefaultStorageConfig returns a StorageConfig with default values.
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Driver: DefaultDriver,
		Lock:   DefaultLock,
	}
}

// NewDefaultUIConfig returns a UIConfig with default values.
func NewDefaultUIConfig() UIConfig {
	return UIConfig{HistoryDays: DefaultHistoryDays}
}

// NewDefaultSystemConfig returns a SystemConfig with default values.
func NewDefaultSystemConfig() SystemConfig {
	return SystemConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// DefaultDir returns ~/.habit, or .habit in the working directory when
// the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defs.HabitDir
	}
	return filepath.Join(home, defs.HabitDir)
}
