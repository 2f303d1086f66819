// Package ui renders habit listings and progress for the terminal and
// hosts the interactive pieces: prompts, the tracker TUI and the data
// file watcher.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Brand palette shared by cards, the progress grid and the tracker.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: "#DA7756"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorText    = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
)

// ThemeColors holds the hex endpoints used for gradients.
type ThemeColors struct {
	Primary   string
	Secondary string
}

// Theme carries the color decision for one process.
type Theme struct {
	NoColor bool
	Colors  ThemeColors
}

// NewTheme returns the default theme. With noColor set every style
// renders without foreground colors.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors:  ThemeColors{Primary: "#DA7756", Secondary: "#10B981"},
	}
}

func (t *Theme) fg(c lipgloss.AdaptiveColor) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Primary styles titles and the cursor.
func (t *Theme) Primary() lipgloss.Style { return t.fg(colorPrimary).Bold(true) }

// Success styles completed marks and confirmations.
func (t *Theme) Success() lipgloss.Style { return t.fg(colorSuccess) }

// Warn styles informational notices such as unmarking.
func (t *Theme) Warn() lipgloss.Style { return t.fg(colorWarn) }

// Error styles failures.
func (t *Theme) Error() lipgloss.Style { return t.fg(colorError) }

// Muted styles secondary text.
func (t *Theme) Muted() lipgloss.Style { return t.fg(colorMuted) }

func (t *Theme) cardStyle() lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if !t.NoColor {
		s = s.BorderForeground(colorBorder)
	}
	return s
}

// Card renders content inside a rounded border box with a styled title.
func (t *Theme) Card(title, content string) string {
	body := t.Primary().Render(title)
	if content != "" {
		body += "\n\n" + content
	}
	return t.cardStyle().Render(body)
}

// SuccessCard renders a check-marked title followed by detail lines.
func (t *Theme) SuccessCard(title string, details ...string) string {
	return t.markedCard(t.Success().Render("✓"), title, details)
}

// InfoCard renders a neutral notice.
func (t *Theme) InfoCard(title string, details ...string) string {
	return t.markedCard(t.Warn().Render("•"), title, details)
}

// ErrorCard renders a failure with its detail lines.
func (t *Theme) ErrorCard(title string, details ...string) string {
	return t.markedCard(t.Error().Render("✗"), title, details)
}

func (t *Theme) markedCard(mark, title string, details []string) string {
	var body strings.Builder
	body.WriteString(mark + " " + title)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return t.cardStyle().Render(body.String())
}
