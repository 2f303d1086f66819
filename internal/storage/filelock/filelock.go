// Package filelock serializes load-modify-save cycles across processes
// with an advisory lock on a sibling lock file.
package filelock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/modu-ai/habit-tracker/internal/resilience"
	"github.com/modu-ai/habit-tracker/internal/storage"
)

// ErrLockBusy means another process still held the lock when the retry
// policy gave up. It is wrapped in a *storage.StorageIOError.
var ErrLockBusy = errors.New("filelock: lock held by another process")

// DefaultPolicy polls with jittered exponential backoff for roughly ten
// seconds before reporting ErrLockBusy.
var DefaultPolicy = resilience.RetryPolicy{
	MaxRetries:      45,
	BaseDelay:       5 * time.Millisecond,
	MaxDelay:        250 * time.Millisecond,
	UseJitter:       true,
	RetryableErrors: []error{ErrLockBusy},
}

// Locker is a storage.Locker backed by flock(2) (LockFileEx on Windows).
type Locker struct {
	path   string
	policy resilience.RetryPolicy
}

var _ storage.Locker = (*Locker)(nil)

// Option configures a Locker.
type Option func(*Locker)

// WithRetryPolicy replaces DefaultPolicy. ErrLockBusy is always retryable.
func WithRetryPolicy(p resilience.RetryPolicy) Option {
	return func(l *Locker) {
		p.RetryableErrors = append([]error{ErrLockBusy}, p.RetryableErrors...)
		l.policy = p
	}
}

// New returns a Locker for the lock file at path. The file and its
// directory are created on first Lock.
func New(path string, opts ...Option) *Locker {
	l := &Locker{path: filepath.Clean(path), policy: DefaultPolicy}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.path
}

// Lock takes the exclusive lock, retrying while another process holds it.
// It fails with ErrLockBusy once the policy is exhausted, or with the
// context error when ctx is done first.
func (l *Locker) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, storage.IOError("mkdir", filepath.Dir(l.path), err)
	}

	fl := flock.New(l.path)
	err := resilience.Retry(ctx, l.policy, func() error {
		locked, err := fl.TryLock()
		if err != nil {
			return storage.IOError("lock", l.path, err)
		}
		if !locked {
			return ErrLockBusy
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrLockBusy):
		return nil, storage.IOError("lock", l.path, err)
	default:
		return nil, err
	}

	return func() error {
		if err := fl.Unlock(); err != nil {
			return storage.IOError("unlock", l.path, err)
		}
		return nil
	}, nil
}
