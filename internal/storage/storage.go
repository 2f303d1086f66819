// Package storage defines the contract between the habit store and the
// durable representation of the habit collection.
//
// An Adapter reads and writes the whole collection as one unit. Concrete
// adapters live in the jsonfile and sqlite subpackages; filelock provides a
// cross-process Locker.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/modu-ai/habit-tracker/pkg/models"
)

// Sentinel errors for storage operations.
var (
	// ErrCorruptState indicates the stored representation could not be
	// parsed into a valid collection.
	ErrCorruptState = errors.New("storage: corrupt state")

	// ErrStorageIO indicates a read or write failure of the durable medium.
	ErrStorageIO = errors.New("storage: I/O failure")
)

// Adapter maps the habit collection to and from durable storage.
type Adapter interface {
	// Load returns the stored collection, or an empty collection when
	// nothing has been stored yet.
	Load(ctx context.Context) (models.Collection, error)

	// Save replaces the stored collection. Readers never observe a
	// partially written state.
	Save(ctx context.Context, c models.Collection) error

	// Location describes where the collection lives, for logs and UI.
	Location() string
}

// Locker provides mutual exclusion across processes sharing one storage
// location. Lock blocks until the lock is held or ctx is done.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// CorruptStateError reports stored data that does not have the expected shape.
type CorruptStateError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt state in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCorruptState) succeed.
func (e *CorruptStateError) Is(target error) bool {
	return target == ErrCorruptState
}

// StorageIOError reports a failed read or write. It is never retried.
type StorageIOError struct {
	Op   string // "read", "write", "mkdir", ...
	Path string
	Err  error
}

// Error implements the error interface.
func (e *StorageIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageIOError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorageIO) succeed.
func (e *StorageIOError) Is(target error) bool {
	return target == ErrStorageIO
}

// Corrupt wraps err as a *CorruptStateError for path.
func Corrupt(path string, err error) error {
	return &CorruptStateError{Path: path, Err: err}
}

// IOError wraps err as a *StorageIOError.
func IOError(op, path string, err error) error {
	return &StorageIOError{Op: op, Path: path, Err: err}
}
