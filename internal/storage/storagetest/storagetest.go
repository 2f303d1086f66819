// Package storagetest holds generators and checks shared by the storage
// adapter tests.
package storagetest

import (
	"context"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/modu-ai/habit-tracker/internal/storage"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

// TB is the subset of testing.TB and *rapid.T used here.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

var epoch = models.MustParseDate("2020-01-01")

// DateGen draws calendar dates within roughly ten years of 2020-01-01.
func DateGen() *rapid.Generator[models.Date] {
	return rapid.Custom(func(t *rapid.T) models.Date {
		return epoch.AddDays(rapid.IntRange(0, 3650).Draw(t, "offset"))
	})
}

// NameGen draws non-blank habit names, including some non-ASCII letters.
func NameGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-zéÜß][A-Za-z0-9éÜß ]{0,15}`)
}

// HabitGen draws a habit with distinct completion dates.
func HabitGen() *rapid.Generator[models.Habit] {
	return rapid.Custom(func(t *rapid.T) models.Habit {
		return models.Habit{
			ID:             rapid.OneOf(rapid.Just(""), rapid.StringMatching(`[0-9a-f]{8}-[0-9a-f]{4}`)).Draw(t, "id"),
			Name:           NameGen().Draw(t, "name"),
			CompletedDates: rapid.SliceOfNDistinct(DateGen(), 0, 8, func(d models.Date) models.Date { return d }).Draw(t, "dates"),
		}
	})
}

// CollectionGen draws collections that satisfy models.Collection.Check.
func CollectionGen() *rapid.Generator[models.Collection] {
	return rapid.Custom(func(t *rapid.T) models.Collection {
		habits := rapid.SliceOfNDistinct(HabitGen(), 0, 6, func(h models.Habit) string {
			return models.FoldName(h.Name)
		}).Draw(t, "habits")
		return models.Collection(habits).Clone()
	})
}

// CheckRoundTrip saves c, loads it back, saves the loaded value again and
// verifies every load equals c.
func CheckRoundTrip(t TB, a storage.Adapter, c models.Collection) {
	t.Helper()
	ctx := context.Background()
	want := c.Clone()

	if err := a.Save(ctx, c); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	first, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("first load mismatch (-want +got):\n%s", diff)
	}

	if err := a.Save(ctx, first); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}
	second, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatalf("second load mismatch (-want +got):\n%s", diff)
	}
}
