package ui

import (
	"strings"
	"testing"

	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

func testTheme() *Theme {
	return NewTheme(true)
}

func sampleListing() *habit.Listing {
	today := models.MustParseDate("2024-03-15")
	return &habit.Listing{
		Today: today,
		Habits: models.Collection{
			{ID: "a", Name: "Read", CompletedDates: []models.Date{today, today.AddDays(-2)}},
			{ID: "b", Name: "Exer|cise", CompletedDates: []models.Date{today.AddDays(-1)}},
		},
	}
}

func TestListView(t *testing.T) {
	t.Parallel()

	out := testTheme().ListView(sampleListing())
	for _, want := range []string{"Habits · 2024-03-15", " 1. ✓ Read", " 2. ○ Exer|cise", "1 of 2 done today"} {
		if !strings.Contains(out, want) {
			t.Errorf("ListView() missing %q:\n%s", want, out)
		}
	}
}

func TestListViewEmpty(t *testing.T) {
	t.Parallel()

	out := testTheme().ListView(&habit.Listing{Today: models.MustParseDate("2024-03-15")})
	if !strings.Contains(out, "No habits yet.") || !strings.Contains(out, "habit add NAME") {
		t.Errorf("ListView() empty state:\n%s", out)
	}
}

func TestNewProgressReportWindow(t *testing.T) {
	t.Parallel()

	r := NewProgressReport(sampleListing(), 3)
	want := []string{"2024-03-13", "2024-03-14", "2024-03-15"}
	if len(r.Days) != len(want) {
		t.Fatalf("Days = %v, want %v", r.Days, want)
	}
	for i, d := range r.Days {
		if d.String() != want[i] {
			t.Errorf("Days[%d] = %s, want %s", i, d, want[i])
		}
	}
	if r.DoneToday() != 1 {
		t.Errorf("DoneToday() = %d, want 1", r.DoneToday())
	}
	if got := r.DoneInWindow(r.Habits[0]); got != 2 {
		t.Errorf("DoneInWindow(Read) = %d, want 2", got)
	}

	if got := len(NewProgressReport(sampleListing(), 0).Days); got != 1 {
		t.Errorf("window of 0 days has %d days, want 1", got)
	}
}

func TestProgressGrid(t *testing.T) {
	t.Parallel()

	out := testTheme().ProgressGrid(NewProgressReport(sampleListing(), 3))
	for _, want := range []string{"Progress · last 3 days", "13", "14", "15", "Read", "2/3", "1/3", "Today 2024-03-15: 1 of 2 habits done"} {
		if !strings.Contains(out, want) {
			t.Errorf("ProgressGrid() missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, markDone); got != 3 {
		t.Errorf("ProgressGrid() has %d done marks, want 3:\n%s", got, out)
	}
}

func TestProgressMarkdown(t *testing.T) {
	t.Parallel()

	md := ProgressMarkdown(NewProgressReport(sampleListing(), 2))
	want := "# Habit progress\n\n" +
		"Today **2024-03-15**: 1 of 2 habits done.\n\n" +
		"| # | Habit | 03-14 | 03-15 | Done |\n" +
		"|---:|---|:---:|:---:|---:|\n" +
		"| 1 | Read |   | ✓ | 1/2 |\n" +
		"| 2 | Exer\\|cise | ✓ |   | 1/2 |\n"
	if md != want {
		t.Errorf("ProgressMarkdown() =\n%s\nwant\n%s", md, want)
	}

	empty := ProgressMarkdown(NewProgressReport(&habit.Listing{Today: models.MustParseDate("2024-03-15")}, 7))
	if !strings.Contains(empty, "_No habits yet._") {
		t.Errorf("empty markdown = %q", empty)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	md := ProgressMarkdown(NewProgressReport(sampleListing(), 2))

	plain, err := RenderMarkdown(md, true, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown(plain) error: %v", err)
	}
	if plain != md {
		t.Error("plain rendering should return the markdown unchanged")
	}

	styled, err := RenderMarkdown(md, false, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	if !strings.Contains(styled, "Habit progress") || !strings.Contains(styled, "Read") {
		t.Errorf("styled output missing content:\n%s", styled)
	}
}

func TestCards(t *testing.T) {
	t.Parallel()

	th := testTheme()
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{"success", th.SuccessCard("Habit added successfully!", "Read"), []string{"✓ Habit added successfully!", "Read", "╭"}},
		{"info", th.InfoCard("Nothing to do"), []string{"• Nothing to do"}},
		{"error", th.ErrorCard("Habit name empty or already exists.", "detail"), []string{"✗ Habit name empty", "detail"}},
		{"card", th.Card("Title", "body"), []string{"Title", "body", "╰"}},
	}
	for _, tt := range tests {
		for _, want := range tt.want {
			if !strings.Contains(tt.out, want) {
				t.Errorf("%s card missing %q:\n%s", tt.name, want, tt.out)
			}
		}
	}
}

func TestToggleMessage(t *testing.T) {
	t.Parallel()

	th := testTheme()
	today := models.MustParseDate("2024-03-15")
	marked := &habit.ToggleResult{Outcome: habit.OutcomeMarked, Name: "Read", Date: today}
	if got := th.ToggleMessage(marked, today); got != "'Read' marked complete for today!" {
		t.Errorf("ToggleMessage(marked) = %q", got)
	}
	if got := th.ToggleMessage(&habit.ToggleResult{Outcome: habit.OutcomeNone}, today); got != "" {
		t.Errorf("ToggleMessage(none) = %q, want empty", got)
	}
}

func TestHeadlessManager(t *testing.T) {
	t.Parallel()

	h := NewHeadlessManager()
	h.ForceHeadless(true)
	if !h.IsHeadless() {
		t.Error("ForceHeadless(true) not honoured")
	}
	h.ForceHeadless(false)
	if h.IsHeadless() {
		t.Error("ForceHeadless(false) not honoured")
	}
	h.ClearForce()
	if h.forced != nil {
		t.Error("ClearForce() left an override")
	}

	if IsTerminalWriter(&strings.Builder{}) {
		t.Error("IsTerminalWriter(builder) = true")
	}
}
