package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events one save produces.
const DefaultDebounce = 100 * time.Millisecond

// DataWatcher calls onChange after the habit data file changes on disk.
// It watches the parent directory so atomic replace-by-rename is seen,
// and also reacts to the SQLite write-ahead log next to the file.
type DataWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	names    map[string]bool
	debounce time.Duration
	onChange func()
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   sync.Once
}

// WatcherOption configures a DataWatcher.
type WatcherOption func(*DataWatcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *DataWatcher) { w.debounce = d }
}

// WithWatcherLogger sets the logger. The default discards everything.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *DataWatcher) { w.logger = l }
}

// NewDataWatcher creates a watcher for the data file at path.
func NewDataWatcher(path string, onChange func(), opts ...WatcherOption) (*DataWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	path = filepath.Clean(path)
	base := filepath.Base(path)
	w := &DataWatcher{
		watcher:  fw,
		dir:      filepath.Dir(path),
		names:    map[string]bool{base: true, base + "-wal": true},
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. The data directory is created if missing since
// a directory that does not exist cannot be watched.
// This method is non-blocking; events are handled in a goroutine.
func (w *DataWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.running = true
	go w.run(ctx)
	w.logger.Debug("watching data directory", "dir", w.dir)
	return nil
}

// Stop ends the event loop, waits for it to exit and releases the
// underlying watcher. It is safe to call more than once.
func (w *DataWatcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	w.closed.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("close watcher", "error", err)
		}
	})
}

func (w *DataWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("data file event", "name", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)

		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

func (w *DataWatcher) relevant(event fsnotify.Event) bool {
	if !w.names[filepath.Base(event.Name)] {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
