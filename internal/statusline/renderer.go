package statusline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	fallbackText = "habit"
	barWidth     = 10
	// pendingLimit caps how many pending names verbose mode lists.
	pendingLimit = 3
)

// Renderer formats StatusData into a single-line statusline string.
type Renderer struct {
	separator  string
	noColor    bool
	mutedStyle lipgloss.Style
	doneStyle  lipgloss.Style
}

// NewRenderer creates a Renderer. With noColor set the output carries no
// ANSI styling.
func NewRenderer(noColor bool) *Renderer {
	r := &Renderer{separator: " | ", noColor: noColor}
	if noColor {
		r.mutedStyle = lipgloss.NewStyle()
		r.doneStyle = lipgloss.NewStyle()
		return r
	}
	r.mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	r.doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	return r
}

// Render formats data for mode.
// Format: 📋 2/5 | ████░░░░░░ 40% | 📅 2024-03-15 | ⏳ Read, Stretch
func (r *Renderer) Render(data *StatusData, mode StatuslineMode) string {
	if data == nil {
		return fallbackText
	}
	if data.Total == 0 {
		return "📋 no habits"
	}

	sections := []string{r.renderCount(data)}
	switch mode {
	case ModeMinimal:
	case ModeVerbose:
		sections = append(sections, r.renderBar(data), "📅 "+data.Today.String())
		if pending := r.renderPending(data); pending != "" {
			sections = append(sections, pending)
		}
	default:
		sections = append(sections, r.renderBar(data))
	}
	return strings.Join(sections, r.separator)
}

func (r *Renderer) renderCount(data *StatusData) string {
	icon := "📋"
	if data.Done == data.Total {
		icon = "🎉"
	}
	count := fmt.Sprintf("%d/%d", data.Done, data.Total)
	if data.Done > 0 {
		count = r.doneStyle.Render(count)
	}
	return icon + " " + count
}

func (r *Renderer) renderBar(data *StatusData) string {
	pct := donePercent(data.Done, data.Total)
	return fmt.Sprintf("%s %d%%", r.buildBar(pct, barWidth), pct)
}

// buildBar draws pct as full blocks (█) over light blocks (░).
func (r *Renderer) buildBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(pct, 0)*width/100, width)
	return strings.Repeat("█", filled) + r.mutedStyle.Render(strings.Repeat("░", width-filled))
}

func (r *Renderer) renderPending(data *StatusData) string {
	if len(data.Pending) == 0 {
		return ""
	}
	names := data.Pending
	more := ""
	if len(names) > pendingLimit {
		more = fmt.Sprintf(" +%d", len(names)-pendingLimit)
		names = names[:pendingLimit]
	}
	return r.mutedStyle.Render("⏳ " + strings.Join(names, ", ") + more)
}

func donePercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return done * 100 / total
}
