package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HABIT_"

// locator holds the overrides needed before the config file is read.
type locator struct {
	ConfigDir string `env:"CONFIG_DIR"`
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have higher priority than file-based values; unset
// variables leave the field untouched.
func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnv, err)
	}
	return nil
}

// ResolveDir picks the config directory: an explicit flag value wins, then
// HABIT_CONFIG_DIR, then DefaultDir.
func ResolveDir(flagValue string) string {
	if flagValue != "" {
		return filepath.Clean(flagValue)
	}
	var loc locator
	if err := env.ParseWithOptions(&loc, env.Options{Prefix: EnvPrefix}); err == nil && loc.ConfigDir != "" {
		return filepath.Clean(loc.ConfigDir)
	}
	return DefaultDir()
}
