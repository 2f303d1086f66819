// Package jsonfile stores the habit collection as a single JSON document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modu-ai/habit-tracker/internal/storage"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

const (
	indent   = "    "
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store is a storage.Adapter backed by one JSON file.
type Store struct {
	path string
}

// New returns a Store for the JSON document at path. Nothing is created
// until the first Save.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Location returns the document path.
func (s *Store) Location() string {
	return s.path
}

// document mirrors models.Document with a pointer so a missing or null
// "habits" field can be told apart from an empty list.
type document struct {
	Habits *models.Collection `json:"habits"`
}

// Load reads the document. A missing file yields an empty collection.
func (s *Store) Load(ctx context.Context) (models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Collection{}, nil
		}
		return nil, storage.IOError("read", s.path, err)
	}

	return decode(s.path, data)
}

func decode(path string, data []byte) (models.Collection, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, storage.Corrupt(path, err)
	}
	if doc.Habits == nil {
		return nil, storage.Corrupt(path, errors.New(`missing "habits" list`))
	}

	habits := *doc.Habits
	for i := range habits {
		if habits[i].CompletedDates == nil {
			habits[i].CompletedDates = []models.Date{}
		}
	}
	if err := habits.Check(); err != nil {
		return nil, storage.Corrupt(path, err)
	}
	return habits, nil
}

// Save writes the whole collection, replacing the document atomically.
// The parent directory is created on first use.
func (s *Store) Save(ctx context.Context, c models.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode habits: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return storage.IOError("mkdir", filepath.Dir(s.path), err)
	}
	return atomicWrite(s.path, data)
}

func encode(c models.Collection) ([]byte, error) {
	// Normalize nil slices so the document always holds lists, never null.
	doc := models.Document{Habits: c.Clone()}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".habits-*.tmp")
	if err != nil {
		return storage.IOError("create temp", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return storage.IOError("write", tmpName, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return storage.IOError("chmod", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return storage.IOError("close", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return storage.IOError("rename", path, err)
	}
	return nil
}
