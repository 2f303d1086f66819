package ui

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within 3s")
}

func TestDataWatcherFiresOnReplace(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "habits.json")
	var calls atomic.Int32

	w, err := NewDataWatcher(path, func() { calls.Add(1) }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewDataWatcher() error: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Start() should create the data directory: %v", err)
	}

	// Replace by rename, the way the JSON adapter saves.
	tmp := filepath.Join(dir, ".habits-1.tmp")
	if err := os.WriteFile(tmp, []byte(`{"habits": []}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	waitFor(t, func() bool { return calls.Load() >= 1 })
}

func TestDataWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	var calls atomic.Int32
	w, err := NewDataWatcher(filepath.Join(dir, "habits.json"), func() { calls.Add(1) }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewDataWatcher() error: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "habits.json.lock"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	if n := calls.Load(); n != 0 {
		t.Errorf("onChange called %d times for unrelated files", n)
	}
}

func TestDataWatcherDebouncesBursts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "habits.db")
	var calls atomic.Int32
	w, err := NewDataWatcher(path, func() { calls.Add(1) }, WithDebounce(150*time.Millisecond))
	if err != nil {
		t.Fatalf("NewDataWatcher() error: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	for i := range 5 {
		if err := os.WriteFile(path+"-wal", []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	waitFor(t, func() bool { return calls.Load() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("onChange called %d times for one burst, want 1", n)
	}
}

func TestDataWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w, err := NewDataWatcher(filepath.Join(t.TempDir(), "habits.json"), func() {})
	if err != nil {
		t.Fatalf("NewDataWatcher() error: %v", err)
	}
	// Stop without Start releases the watcher.
	w.Stop()
	w.Stop()
}

func TestDataWatcherContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewDataWatcher(filepath.Join(t.TempDir(), "habits.json"), func() {})
	if err != nil {
		t.Fatalf("NewDataWatcher() error: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	cancel()
	w.Stop()
}
