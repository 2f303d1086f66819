package statusline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

var day = models.MustParseDate("2024-03-15")

func sampleData() *StatusData {
	return &StatusData{
		Today:   day,
		Done:    2,
		Total:   5,
		Pending: []string{"Read", "Stretch", "Journal"},
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	r := NewRenderer(true)
	tests := []struct {
		name string
		data *StatusData
		mode StatuslineMode
		want string
	}{
		{"nil data falls back", nil, ModeDefault, "habit"},
		{"no habits", &StatusData{Today: day}, ModeVerbose, "📋 no habits"},
		{"minimal", sampleData(), ModeMinimal, "📋 2/5"},
		{"default", sampleData(), ModeDefault, "📋 2/5 | ████░░░░░░ 40%"},
		{"unknown mode renders as default", sampleData(), StatuslineMode("odd"), "📋 2/5 | ████░░░░░░ 40%"},
		{"verbose", sampleData(), ModeVerbose, "📋 2/5 | ████░░░░░░ 40% | 📅 2024-03-15 | ⏳ Read, Stretch, Journal"},
		{
			"all done",
			&StatusData{Today: day, Done: 3, Total: 3},
			ModeVerbose,
			"🎉 3/3 | ██████████ 100% | 📅 2024-03-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Render(tt.data, tt.mode); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPendingIsCapped(t *testing.T) {
	t.Parallel()

	data := &StatusData{Today: day, Total: 5, Pending: []string{"a", "b", "c", "d", "e"}}
	got := NewRenderer(true).Render(data, ModeVerbose)
	if !strings.HasSuffix(got, "⏳ a, b, c +2") {
		t.Errorf("Render() = %q, want pending list capped at three", got)
	}
}

func TestBuildBar(t *testing.T) {
	t.Parallel()

	r := NewRenderer(true)
	tests := []struct {
		pct, width int
		want       string
	}{
		{0, 4, "░░░░"},
		{50, 4, "██░░"},
		{100, 4, "████"},
		{150, 4, "████"},
		{-10, 4, "░░░░"},
		{50, 0, ""},
	}
	for _, tt := range tests {
		if got := r.buildBar(tt.pct, tt.width); got != tt.want {
			t.Errorf("buildBar(%d, %d) = %q, want %q", tt.pct, tt.width, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]StatuslineMode{
		"":        ModeDefault,
		"minimal": ModeMinimal,
		"default": ModeDefault,
		"verbose": ModeVerbose,
	} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Error("ParseMode(loud) error = nil, want error")
	}
}

func TestFromListing(t *testing.T) {
	t.Parallel()

	l := &habit.Listing{
		Today: day,
		Habits: models.Collection{
			{Name: "Read", CompletedDates: []models.Date{day}},
			{Name: "Run", CompletedDates: []models.Date{day.AddDays(-1)}},
			{Name: "Write", CompletedDates: []models.Date{}},
		},
	}
	data := FromListing(l)
	if data.Done != 1 || data.Total != 3 || data.Today != day {
		t.Errorf("FromListing() = %+v", data)
	}
	if strings.Join(data.Pending, ",") != "Run,Write" {
		t.Errorf("Pending = %v, want [Run Write]", data.Pending)
	}
}

type listerFunc func(ctx context.Context, today models.Date) (*habit.Listing, error)

func (f listerFunc) List(ctx context.Context, today models.Date) (*habit.Listing, error) {
	return f(ctx, today)
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	var asked models.Date
	lister := listerFunc(func(_ context.Context, today models.Date) (*habit.Listing, error) {
		asked = today
		return &habit.Listing{
			Today:  today,
			Habits: models.Collection{{Name: "Read", CompletedDates: []models.Date{today}}},
		}, nil
	})

	b := New(Options{Lister: lister, Date: day, NoColor: true})
	got, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if asked != day {
		t.Errorf("listed date = %v, want %v", asked, day)
	}
	if got != "🎉 1/1 | ██████████ 100%" {
		t.Errorf("Build() = %q", got)
	}

	b.SetMode(ModeMinimal)
	if got, _ := b.Build(context.Background()); got != "🎉 1/1" {
		t.Errorf("Build() after SetMode = %q", got)
	}
}

func TestBuilderFallsBackOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	b := New(Options{
		Lister: listerFunc(func(context.Context, models.Date) (*habit.Listing, error) {
			return nil, boom
		}),
		NoColor: true,
	})

	got, err := b.Build(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Build() error = %v, want %v", err, boom)
	}
	if got != "habit" {
		t.Errorf("Build() = %q, want fallback", got)
	}
}
