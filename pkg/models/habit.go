package models

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Habit is a named, user-tracked recurring activity together with the
// dates on which it was completed.
type Habit struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	CompletedDates []Date `json:"completed_dates"`
}

// Collection is the ordered list of habits. Position is significant:
// habits are addressed by their zero-based index.
type Collection []Habit

// Document is the persisted shape of a Collection.
type Document struct {
	Habits Collection `json:"habits"`
}

// CompletedOn reports whether d is in the habit's completion record.
func (h Habit) CompletedOn(d Date) bool {
	return slices.Contains(h.CompletedDates, d)
}

// Clone returns a deep copy of h.
func (h Habit) Clone() Habit {
	h.CompletedDates = slices.Clone(h.CompletedDates)
	if h.CompletedDates == nil {
		h.CompletedDates = []Date{}
	}
	return h
}

// Clone returns a deep copy of c. The result is never nil.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, h := range c {
		out[i] = h.Clone()
	}
	return out
}

// InRange reports whether pos addresses a habit in c.
func (c Collection) InRange(pos int) bool {
	return pos >= 0 && pos < len(c)
}

// IndexOfName returns the position of the habit whose folded name equals
// the folded form of name, or -1.
func (c Collection) IndexOfName(name string) int {
	key := FoldName(name)
	for i, h := range c {
		if FoldName(h.Name) == key {
			return i
		}
	}
	return -1
}

// Check verifies the collection invariants: non-empty names, no two names
// equal after folding, and no duplicate completion dates within a habit.
func (c Collection) Check() error {
	seen := make(map[string]int, len(c))
	for i, h := range c {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("habit %d: empty name", i)
		}
		key := FoldName(h.Name)
		if j, dup := seen[key]; dup {
			return fmt.Errorf("habit %d: name %q duplicates habit %d", i, h.Name, j)
		}
		seen[key] = i

		days := make(map[Date]struct{}, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if d.IsZero() {
				return fmt.Errorf("habit %q: zero completion date", h.Name)
			}
			if _, dup := days[d]; dup {
				return fmt.Errorf("habit %q: duplicate completion date %s", h.Name, d)
			}
			days[d] = struct{}{}
		}
	}
	return nil
}

// FoldName returns the comparison key for a habit name: trimmed, NFC
// normalized and Unicode case folded. Two names collide iff their keys match.
func FoldName(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
