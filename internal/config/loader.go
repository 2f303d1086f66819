package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/habit-tracker/internal/defs"
)

// Loader reads configuration from the YAML config file.
// It is thread-safe via sync.RWMutex.
type Loader struct {
	mu       sync.RWMutex
	fromFile bool
}

// NewLoader creates a new Loader instance.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads config.yaml from configDir and returns it merged over the
// compiled defaults. A missing file yields the defaults; a file that is
// not valid YAML is an error.
func (l *Loader) Load(configDir string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := NewDefaultConfig()
	path := filepath.Join(filepath.Clean(configDir), defs.ConfigYAML)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("config file not found, using defaults", "path", path)
			l.fromFile = false
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", defs.ConfigYAML, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", defs.ConfigYAML, ErrInvalidYAML, err)
	}
	l.fromFile = true
	return cfg, nil
}

// FromFile reports whether the last Load read an existing config file.
func (l *Loader) FromFile() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fromFile
}
