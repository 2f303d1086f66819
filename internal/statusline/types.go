// Package statusline renders a one-line summary of today's habits for
// shell prompts and terminal multiplexer status bars.
package statusline

import (
	"context"
	"fmt"

	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

// StatuslineMode selects how much the statusline shows.
type StatuslineMode string

const (
	// ModeMinimal shows only the done count.
	ModeMinimal StatuslineMode = "minimal"
	// ModeDefault adds a completion bar.
	ModeDefault StatuslineMode = "default"
	// ModeVerbose adds the date and the habits still pending.
	ModeVerbose StatuslineMode = "verbose"
)

// ParseMode converts a flag value into a mode. The empty string is ModeDefault.
func ParseMode(s string) (StatuslineMode, error) {
	switch m := StatuslineMode(s); m {
	case "":
		return ModeDefault, nil
	case ModeMinimal, ModeDefault, ModeVerbose:
		return m, nil
	default:
		return "", fmt.Errorf("unknown statusline mode %q: want minimal, default or verbose", s)
	}
}

// StatusData is everything the renderer needs for one line.
type StatusData struct {
	Today   models.Date
	Done    int
	Total   int
	Pending []string
}

// FromListing summarizes a listing for its reference date.
func FromListing(l *habit.Listing) *StatusData {
	data := &StatusData{Today: l.Today, Total: len(l.Habits)}
	for _, h := range l.Habits {
		if h.CompletedOn(l.Today) {
			data.Done++
		} else {
			data.Pending = append(data.Pending, h.Name)
		}
	}
	return data
}

// Lister is the part of the habit store the builder reads from.
type Lister interface {
	List(ctx context.Context, today models.Date) (*habit.Listing, error)
}

// Builder produces the rendered statusline.
type Builder interface {
	Build(ctx context.Context) (string, error)
	SetMode(mode StatuslineMode)
}
