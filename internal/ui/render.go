package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

const (
	markDone    = "✓"
	markPending = "○"
	markEmpty   = "·"
)

// ListView renders the numbered habit list with today's marks.
// Numbers are one-based, matching the positions the CLI accepts.
func (t *Theme) ListView(l *habit.Listing) string {
	title := "Habits · " + l.Today.String()
	if len(l.Habits) == 0 {
		return t.Card(title, "No habits yet.\n"+t.Muted().Render("Add one with: habit add NAME"))
	}

	var b strings.Builder
	for i, h := range l.Habits {
		mark := t.Muted().Render(markPending)
		if h.CompletedOn(l.Today) {
			mark = t.Success().Render(markDone)
		}
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, mark, h.Name)
	}
	b.WriteString("\n")
	b.WriteString(t.Muted().Render(fmt.Sprintf("%d of %d done today", l.DoneCount(), len(l.Habits))))
	return t.Card(title, b.String())
}

// ProgressReport is the membership of each habit over a window of days
// ending today.
type ProgressReport struct {
	Habits models.Collection
	Days   []models.Date
	Today  models.Date
}

// NewProgressReport builds a report over the last days days, oldest first.
// days below one is treated as one.
func NewProgressReport(l *habit.Listing, days int) ProgressReport {
	days = max(days, 1)
	window := make([]models.Date, days)
	for i := range days {
		window[i] = l.Today.AddDays(i - days + 1)
	}
	return ProgressReport{Habits: l.Habits, Days: window, Today: l.Today}
}

// DoneToday returns how many habits are completed on the report's today.
func (r ProgressReport) DoneToday() int {
	n := 0
	for _, h := range r.Habits {
		if h.CompletedOn(r.Today) {
			n++
		}
	}
	return n
}

// DoneInWindow returns how many of the report's days h is completed on.
func (r ProgressReport) DoneInWindow(h models.Habit) int {
	n := 0
	for _, d := range r.Days {
		if h.CompletedOn(d) {
			n++
		}
	}
	return n
}

func dayLabel(d models.Date) string {
	return fmt.Sprintf("%02d", d.Day)
}

// ProgressGrid renders the report as a bordered table, one row per habit
// and one column per day.
func (t *Theme) ProgressGrid(r ProgressReport) string {
	title := fmt.Sprintf("Progress · last %d days", len(r.Days))
	if len(r.Habits) == 0 {
		return t.Card(title, "No habits yet.")
	}

	headers := []string{"#", "Habit"}
	for _, d := range r.Days {
		headers = append(headers, dayLabel(d))
	}
	headers = append(headers, "Done")

	rows := make([][]string, 0, len(r.Habits))
	for i, h := range r.Habits {
		row := []string{strconv.Itoa(i + 1), h.Name}
		for _, d := range r.Days {
			if h.CompletedOn(d) {
				row = append(row, markDone)
			} else {
				row = append(row, markEmpty)
			}
		}
		row = append(row, fmt.Sprintf("%d/%d", r.DoneInWindow(h), len(r.Days)))
		rows = append(rows, row)
	}

	lastDay := len(r.Days) + 1
	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.fg(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Inherit(t.Primary())
			case col >= 2 && col <= lastDay && rows[row][col] == markDone:
				return s.Inherit(t.Success())
			case col >= 2 && col <= lastDay:
				return s.Inherit(t.Muted())
			default:
				return s
			}
		})

	summary := fmt.Sprintf("Today %s: %d of %d habits done", r.Today, r.DoneToday(), len(r.Habits))
	return t.Primary().Render(title) + "\n" + grid.String() + "\n" + t.Muted().Render(summary)
}

// ProgressMarkdown renders the report as a markdown document.
func ProgressMarkdown(r ProgressReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Habit progress\n\nToday **%s**: %d of %d habits done.\n\n", r.Today, r.DoneToday(), len(r.Habits))
	if len(r.Habits) == 0 {
		b.WriteString("_No habits yet._\n")
		return b.String()
	}

	b.WriteString("| # | Habit |")
	for _, d := range r.Days {
		fmt.Fprintf(&b, " %s |", d.Time().Format("01-02"))
	}
	b.WriteString(" Done |\n|---:|---|")
	for range r.Days {
		b.WriteString(":---:|")
	}
	b.WriteString("---:|\n")

	for i, h := range r.Habits {
		fmt.Fprintf(&b, "| %d | %s |", i+1, escapeCell(h.Name))
		for _, d := range r.Days {
			cell := " "
			if h.CompletedOn(d) {
				cell = markDone
			}
			fmt.Fprintf(&b, " %s |", cell)
		}
		fmt.Fprintf(&b, " %d/%d |\n", r.DoneInWindow(h), len(r.Days))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderMarkdown styles md for the terminal with glamour. With plain set
// the document comes back unchanged.
func RenderMarkdown(md string, plain bool, width int) (string, error) {
	if plain {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.AutoStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// ToggleMessage renders a toggle outcome the way the list and tracker
// report it. Unapplied toggles render as an empty string.
func (t *Theme) ToggleMessage(res *habit.ToggleResult, today models.Date) string {
	msg := res.Message(today)
	switch res.Outcome {
	case habit.OutcomeMarked:
		return t.Success().Render(msg)
	case habit.OutcomeUnmarked:
		return t.Warn().Render(msg)
	default:
		return ""
	}
}
