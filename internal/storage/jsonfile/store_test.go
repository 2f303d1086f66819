package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/modu-ai/habit-tracker/internal/storage"
	"github.com/modu-ai/habit-tracker/internal/storage/storagetest"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

var _ storage.Adapter = (*Store)(nil)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "data", "habits.json"))
	c, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c == nil || len(c) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil collection", c)
	}
	if _, err := os.Stat(filepath.Dir(s.Location())); !os.IsNotExist(err) {
		t.Error("Load() should not create the data directory")
	}
}

func TestSaveCreatesDirectoryLazily(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "data", "habits.json")
	s := New(path)

	if err := s.Save(context.Background(), models.Collection{}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got, want := string(data), "{\n    \"habits\": []\n}\n"; got != want {
		t.Errorf("empty document =\n%q\nwant\n%q", got, want)
	}
}

func TestSaveWritesReferenceLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "habits.json")
	s := New(path)
	c := models.Collection{
		{Name: "Read", CompletedDates: []models.Date{models.MustParseDate("2024-03-14"), models.MustParseDate("2024-03-15")}},
		{Name: "Exercise"},
	}
	if err := s.Save(context.Background(), c); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	want := `{
    "habits": [
        {
            "name": "Read",
            "completed_dates": [
                "2024-03-14",
                "2024-03-15"
            ]
        },
        {
            "name": "Exercise",
            "completed_dates": []
        }
    ]
}
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "habits.json"))
	for range 3 {
		if err := s.Save(context.Background(), models.Collection{{Name: "Read"}}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "habits.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only habits.json", names)
	}
}

func TestLoadCorruptState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"habits": [`},
		{"empty file", ``},
		{"top level list", `[]`},
		{"missing habits", `{}`},
		{"null habits", `{"habits": null}`},
		{"habits not list", `{"habits": {"name": "Read"}}`},
		{"empty name", `{"habits": [{"name": "", "completed_dates": []}]}`},
		{"bad date", `{"habits": [{"name": "Read", "completed_dates": ["2024-13-01"]}]}`},
		{"date with time", `{"habits": [{"name": "Read", "completed_dates": ["2024-03-15T00:00:00Z"]}]}`},
		{"duplicate date", `{"habits": [{"name": "Read", "completed_dates": ["2024-03-15", "2024-03-15"]}]}`},
		{"duplicate name", `{"habits": [{"name": "Read"}, {"name": "READ"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "habits.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			_, err := New(path).Load(context.Background())
			if !errors.Is(err, storage.ErrCorruptState) {
				t.Fatalf("Load() error = %v, want ErrCorruptState", err)
			}
			var ce *storage.CorruptStateError
			if !errors.As(err, &ce) || ce.Path != path {
				t.Errorf("CorruptStateError path = %v, want %q", ce, path)
			}
		})
	}
}

func TestLoadToleratesMissingCompletedDates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "habits.json")
	if err := os.WriteFile(path, []byte(`{"habits": [{"name": "Read"}], "extra": true}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c) != 1 || c[0].CompletedDates == nil {
		t.Errorf("Load() = %#v, want one habit with empty (non-nil) dates", c)
	}
}

func TestLoadReadErrorIsStorageIO(t *testing.T) {
	t.Parallel()

	// A directory where the file should be cannot be read as a file.
	path := filepath.Join(t.TempDir(), "habits.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	_, err := New(path).Load(context.Background())
	if !errors.Is(err, storage.ErrStorageIO) {
		t.Errorf("Load() error = %v, want ErrStorageIO", err)
	}
}

func TestSaveRenameOntoDirectoryFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "habits.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := New(path).Save(context.Background(), models.Collection{{Name: "Read"}})
	if !errors.Is(err, storage.ErrStorageIO) {
		t.Fatalf("Save() error = %v, want ErrStorageIO", err)
	}
	if !strings.Contains(err.Error(), "rename") {
		t.Errorf("Save() error = %q, want rename failure", err)
	}
}

func TestSaveReadOnlyDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("skipping permission test when running as root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := New(filepath.Join(dir, "data", "habits.json")).Save(context.Background(), models.Collection{})
	if !errors.Is(err, storage.ErrStorageIO) {
		t.Errorf("Save() error = %v, want ErrStorageIO", err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(filepath.Join(t.TempDir(), "habits.json"))
	if _, err := s.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if err := s.Save(ctx, models.Collection{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(s.Location()); !os.IsNotExist(err) {
		t.Error("cancelled Save() should not write the file")
	}
}

func TestRoundTripProperty(t *testing.T) {
	dir := t.TempDir()
	var n int
	rapid.Check(t, func(t *rapid.T) {
		n++
		s := New(filepath.Join(dir, strconv.Itoa(n), "habits.json"))
		storagetest.CheckRoundTrip(t, s, storagetest.CollectionGen().Draw(t, "collection"))
	})
}
