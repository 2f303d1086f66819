package statusline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/modu-ai/habit-tracker/pkg/models"
)

// defaultBuilder reads today's listing from the store and renders it.
type defaultBuilder struct {
	lister   Lister
	renderer *Renderer
	date     models.Date
	logger   *slog.Logger
	mode     StatuslineMode
	mu       sync.RWMutex
}

// Options configures a new Builder instance.
type Options struct {
	// Lister supplies the habits. Required.
	Lister Lister

	// Date is the reference day. The zero Date means today.
	Date models.Date

	// Mode sets the initial display mode. Empty means ModeDefault.
	Mode StatuslineMode

	// NoColor disables all ANSI color output when true.
	NoColor bool

	// Logger receives read failures. Nil discards them.
	Logger *slog.Logger
}

// New creates a new Builder with the given options.
func New(opts Options) Builder {
	mode := opts.Mode
	if mode == "" {
		mode = ModeDefault
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &defaultBuilder{
		lister:   opts.Lister,
		renderer: NewRenderer(opts.NoColor),
		date:     opts.Date,
		logger:   logger,
		mode:     mode,
	}
}

// Build renders the statusline. When the habits cannot be read it still
// returns a short fallback line alongside the error, so a prompt never
// ends up empty.
func (b *defaultBuilder) Build(ctx context.Context) (string, error) {
	l, err := b.lister.List(ctx, b.date)
	if err != nil {
		b.logger.Warn("statusline: read habits", "error", err)
		return b.renderer.Render(nil, b.getMode()), fmt.Errorf("statusline: %w", err)
	}
	return b.renderer.Render(FromListing(l), b.getMode()), nil
}

// getMode returns the current display mode. Thread-safe.
func (b *defaultBuilder) getMode() StatuslineMode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode
}

// SetMode switches the display mode. Thread-safe.
func (b *defaultBuilder) SetMode(mode StatuslineMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
}
