package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/habit-tracker/internal/defs"
)

// managerState represents the lifecycle state of the ConfigManager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
)

// Overrides carries command-line values. Zero fields leave the loaded
// value alone.
type Overrides struct {
	Driver   string
	DataFile string
	NoColor  bool
}

// @MX:ANCHOR: [AUTO] ConfigManager is the single entry point for configuration access
// @MX:REASON: [AUTO] fan_in=4, the CLI composition root and every command read through it
// ConfigManager provides thread-safe configuration management.
// It must be initialized via Load() before use.
type ConfigManager struct {
	mu        sync.RWMutex
	config    *Config
	dir       string
	state     managerState
	loader    *Loader
	overrides Overrides
}

// NewConfigManager creates a new ConfigManager instance in uninitialized state.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		loader: NewLoader(),
		state:  stateUninitialized,
	}
}

// Load reads configuration from configDir. File values are merged over
// compiled defaults, then environment overrides and the given command-line
// overrides are applied in that order. The result is validated before
// being stored.
func (m *ConfigManager) Load(configDir string, o Overrides) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Clean(configDir)
	cfg, err := m.build(dir, o)
	if err != nil {
		return nil, err
	}

	m.config = cfg
	m.dir = dir
	m.overrides = o
	m.state = stateInitialized
	return cfg, nil
}

func (m *ConfigManager) build(dir string, o Overrides) (*Config, error) {
	cfg, err := m.loader.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	applyOverrides(cfg, o)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.Driver != "" {
		cfg.Storage.Driver = o.Driver
	}
	if o.DataFile != "" {
		cfg.Storage.DataFile = o.DataFile
	}
	if o.NoColor {
		cfg.UI.NoColor = true
	}
}

// Get returns a copy of the current configuration.
// Returns nil if the manager has not been initialized via Load().
func (m *ConfigManager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return nil
	}
	cfg := *m.config
	return &cfg
}

// Dir returns the config directory passed to Load.
func (m *ConfigManager) Dir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dir
}

// DataPath returns the data file location of the current configuration.
func (m *ConfigManager) DataPath() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == stateUninitialized {
		return "", ErrNotInitialized
	}
	return m.config.DataPath(m.dir), nil
}

// Save persists the current configuration to config.yaml atomically
// using temp file + os.Rename.
// Returns ErrNotInitialized if Load() has not been called.
func (m *ConfigManager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", defs.ConfigYAML, err)
	}
	if err := atomicWrite(filepath.Join(m.dir, defs.ConfigYAML), data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Reload forces a re-read from disk with the overrides given to Load,
// replacing the in-memory configuration. On error the previous
// configuration stays in place.
// Returns ErrNotInitialized if Load() has not been called.
func (m *ConfigManager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUninitialized {
		return ErrNotInitialized
	}

	cfg, err := m.build(m.dir, m.overrides)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	m.config = cfg
	return nil
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".habit-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
