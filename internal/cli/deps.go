// Package cli provides the Cobra command tree and dependency injection
// wiring for the habit CLI. This file defines the Dependencies struct
// (Composition Root) that wires configuration, storage, the habit store
// and the terminal UI together.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/modu-ai/habit-tracker/internal/config"
	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/internal/storage"
	"github.com/modu-ai/habit-tracker/internal/storage/filelock"
	"github.com/modu-ai/habit-tracker/internal/storage/jsonfile"
	"github.com/modu-ai/habit-tracker/internal/storage/sqlite"
	"github.com/modu-ai/habit-tracker/internal/ui"
)

// GlobalOptions holds the persistent flag values.
type GlobalOptions struct {
	ConfigDir string
	DataFile  string
	Driver    string
	NoColor   bool
	Verbose   bool
}

// Dependencies holds every service the commands use.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Config   *config.ConfigManager
	Store    *habit.Store
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Prompter *ui.Prompter
	Logger   *slog.Logger

	closers []io.Closer
}

// deps is the global dependencies instance, initialized by InitDependencies.
// CLI commands access this through the package-level variable.
var deps *Dependencies

// @MX:ANCHOR: [AUTO] InitDependencies is the Composition Root that wires config, storage and UI
// @MX:REASON: [AUTO] fan_in=3, called from the root pre-run hook and the CLI tests
// InitDependencies loads configuration and builds the habit store for the
// configured storage driver. Log output goes to logOut.
func InitDependencies(opts GlobalOptions, logOut io.Writer) (*Dependencies, error) {
	cm := config.NewConfigManager()
	cfg, err := cm.Load(config.ResolveDir(opts.ConfigDir), config.Overrides{
		Driver:   opts.Driver,
		DataFile: opts.DataFile,
		NoColor:  opts.NoColor,
	})
	if err != nil {
		return nil, err
	}

	logger := newLogger(logOut, cfg.System, opts.Verbose)
	dir := cm.Dir()

	d := &Dependencies{
		Config:   cm,
		Theme:    ui.NewTheme(cfg.UI.NoColor),
		Headless: ui.NewHeadlessManager(),
		Logger:   logger,
	}
	d.Prompter = ui.NewPrompter(d.Theme, d.Headless)

	adapter, err := d.openAdapter(cfg.Storage.Driver, cfg.DataPath(dir))
	if err != nil {
		return nil, err
	}

	storeOpts := []habit.Option{habit.WithLogger(logger)}
	if cfg.Storage.Lock {
		storeOpts = append(storeOpts, habit.WithLocker(filelock.New(cfg.LockPath(dir))))
	}
	d.Store = habit.NewStore(adapter, storeOpts...)

	logger.Debug("dependencies initialized",
		"config_dir", dir,
		"driver", cfg.Storage.Driver,
		"data", adapter.Location(),
		"lock", cfg.Storage.Lock,
	)
	return d, nil
}

func (d *Dependencies) openAdapter(driver, path string) (storage.Adapter, error) {
	switch driver {
	case config.DriverJSON:
		return jsonfile.New(path), nil
	case config.DriverSQLite:
		s := sqlite.New(path)
		d.closers = append(d.closers, s)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidDriver, driver)
	}
}

// Close releases resources held by the storage adapter.
func (d *Dependencies) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}
	d.closers = nil
	return errors.Join(errs...)
}

// GetDeps returns the current Dependencies instance.
// Returns nil if InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// newLogger builds the process logger from the system config section.
// verbose forces debug level.
func newLogger(w io.Writer, sys config.SystemConfig, verbose bool) *slog.Logger {
	level := sys.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if sys.LogFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
