// Package habit implements the habit store: the in-memory view of all
// habits and the four operations the presentation layer may call.
//
// Every operation is one pass of load, mutate and save over a
// storage.Adapter. Habits are addressed by zero-based position; positions
// outside the collection are silent no-ops, not errors.
package habit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modu-ai/habit-tracker/internal/storage"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

// legacyNamespace seeds the deterministic ids given to records stored
// before habits carried an id.
var legacyNamespace = uuid.MustParse("9b3c2e4a-51d7-4f0e-8a6b-2c1d7e9f0a35")

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used when no date is supplied.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clock = now }
}

// WithLocker adds cross-process locking around each mutating operation.
func WithLocker(l storage.Locker) Option {
	return func(s *Store) { s.locker = l }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDGenerator replaces the random id source for new habits.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// @MX:ANCHOR: [AUTO] Store is the only writer of the habit collection
// @MX:REASON: [AUTO] fan_in=6, every CLI command and the tracker TUI go through it
// Store manages the habit collection on top of a storage.Adapter.
// It is safe for concurrent use; mutating operations are serialized.
type Store struct {
	adapter storage.Adapter
	locker  storage.Locker
	clock   func() time.Time
	newID   func() string
	logger  *slog.Logger

	mu sync.Mutex
}

// NewStore creates a Store that persists through adapter.
func NewStore(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		clock:   time.Now,
		newID:   uuid.NewString,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns where the underlying adapter keeps the collection.
func (s *Store) Location() string {
	return s.adapter.Location()
}

// Today returns the current date according to the store's clock.
func (s *Store) Today() models.Date {
	return models.DateOf(s.clock())
}

func (s *Store) resolve(d models.Date) models.Date {
	if d.IsZero() {
		return s.Today()
	}
	return d
}

// List returns all habits in order together with the reference date.
// A zero today is replaced by the clock date.
func (s *Store) List(ctx context.Context, today models.Date) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return &Listing{Habits: c, Today: s.resolve(today)}, nil
}

// Add appends a habit named by the trimmed input. Empty and duplicate
// names are reported through AddResult, not as an error; the returned
// error is reserved for storage failures.
func (s *Store) Add(ctx context.Context, name string) (*AddResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.rejected(&ValidationError{
			Field:   "name",
			Message: "must not be empty",
			Wrapped: ErrEmptyName,
		}), nil
	}

	var result *AddResult
	err := s.update(ctx, func(c models.Collection) (models.Collection, bool) {
		if i := c.IndexOfName(name); i >= 0 {
			result = s.rejected(&ValidationError{
				Field:   "name",
				Message: fmt.Sprintf("matches existing habit %q", c[i].Name),
				Value:   name,
				Wrapped: ErrDuplicateName,
			})
			return c, false
		}

		h := models.Habit{ID: s.newID(), Name: name, CompletedDates: []models.Date{}}
		result = &AddResult{OK: true, Name: h.Name, ID: h.ID, Position: len(c), Message: MsgAdded}
		return append(c, h), true
	})
	if err != nil {
		return nil, fmt.Errorf("add habit: %w", err)
	}
	if result.OK {
		s.logger.Debug("habit added", "name", result.Name, "position", result.Position, "id", result.ID)
	}
	return result, nil
}

func (s *Store) rejected(verr *ValidationError) *AddResult {
	s.logger.Info("habit rejected", "reason", verr.Error())
	return &AddResult{OK: false, Position: -1, Message: MsgAddRejected, Err: verr}
}

// Toggle flips membership of date in the completion record of the habit
// at position. A zero date means today. Out-of-range positions leave
// storage untouched and return OutcomeNone.
func (s *Store) Toggle(ctx context.Context, position int, date models.Date) (*ToggleResult, error) {
	result := &ToggleResult{Outcome: OutcomeNone, Position: position, Date: s.resolve(date)}

	err := s.update(ctx, func(c models.Collection) (models.Collection, bool) {
		if !c.InRange(position) {
			return c, false
		}
		h := &c[position]
		result.Name, result.ID = h.Name, h.ID

		if i := slices.Index(h.CompletedDates, result.Date); i >= 0 {
			h.CompletedDates = slices.Delete(h.CompletedDates, i, i+1)
			result.Outcome = OutcomeUnmarked
		} else {
			h.CompletedDates = append(h.CompletedDates, result.Date)
			result.Outcome = OutcomeMarked
		}
		return c, true
	})
	if err != nil {
		return nil, fmt.Errorf("toggle habit %d: %w", position, err)
	}

	if result.Applied() {
		s.logger.Debug("habit toggled", "name", result.Name, "date", result.Date.String(), "outcome", result.Outcome.String())
	} else {
		s.logger.Debug("toggle ignored", "position", position)
	}
	return result, nil
}

// Delete removes the habit at position; later habits move up by one.
// Out-of-range positions leave storage untouched.
func (s *Store) Delete(ctx context.Context, position int) (*DeleteResult, error) {
	result := &DeleteResult{Position: position}

	err := s.update(ctx, func(c models.Collection) (models.Collection, bool) {
		if !c.InRange(position) {
			return c, false
		}
		result.Removed, result.Name, result.ID = true, c[position].Name, c[position].ID
		return slices.Delete(c, position, position+1), true
	})
	if err != nil {
		return nil, fmt.Errorf("delete habit %d: %w", position, err)
	}

	if result.Removed {
		s.logger.Debug("habit deleted", "name", result.Name, "position", position)
	}
	return result, nil
}

// DeleteID removes the habit carrying id, wherever it sits now. Callers
// that confirmed a deletion against an earlier listing use it so that a
// concurrent writer shifting positions cannot redirect the delete.
// Removed is false when no habit has that id.
func (s *Store) DeleteID(ctx context.Context, id string) (*DeleteResult, error) {
	result := &DeleteResult{Position: -1, ID: id}
	if id == "" {
		return result, nil
	}

	err := s.update(ctx, func(c models.Collection) (models.Collection, bool) {
		pos := slices.IndexFunc(c, func(h models.Habit) bool { return h.ID == id })
		if pos < 0 {
			return c, false
		}
		result.Removed, result.Position, result.Name = true, pos, c[pos].Name
		return slices.Delete(c, pos, pos+1), true
	})
	if err != nil {
		return nil, fmt.Errorf("delete habit %s: %w", id, err)
	}

	if result.Removed {
		s.logger.Debug("habit deleted", "name", result.Name, "position", result.Position, "id", id)
	} else {
		s.logger.Debug("delete ignored", "id", id)
	}
	return result, nil
}

// update runs one load-mutate-save cycle under the store mutex and the
// optional cross-process lock. fn reports whether anything changed; the
// collection is only saved if it did.
func (s *Store) update(ctx context.Context, fn func(models.Collection) (models.Collection, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		unlock, lockErr := s.locker.Lock(ctx)
		if lockErr != nil {
			return lockErr
		}
		defer func() {
			if unlockErr := unlock(); unlockErr != nil {
				s.logger.Warn("release storage lock", "error", unlockErr)
			}
		}()
	}

	c, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, changed := fn(c)
	if !changed {
		return nil
	}
	return s.adapter.Save(ctx, next)
}

// load reads the collection and assigns ids to records stored without one.
// Those ids derive from the folded name so they stay stable until saved.
func (s *Store) load(ctx context.Context) (models.Collection, error) {
	c, err := s.adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range c {
		if c[i].ID == "" {
			c[i].ID = legacyID(c[i].Name)
		}
	}
	return c, nil
}

func legacyID(name string) string {
	return uuid.NewSHA1(legacyNamespace, []byte(models.FoldName(name))).String()
}
