package habit

import (
	"fmt"

	"github.com/modu-ai/habit-tracker/pkg/models"
)

// User-facing messages for Add.
const (
	MsgAdded       = "Habit added successfully!"
	MsgAddRejected = "Habit name empty or already exists."
)

// Listing is the result of List.
type Listing struct {
	Habits models.Collection
	Today  models.Date
}

// DoneCount returns how many habits are completed on Today.
func (l *Listing) DoneCount() int {
	n := 0
	for _, h := range l.Habits {
		if h.CompletedOn(l.Today) {
			n++
		}
	}
	return n
}

// AddResult is the outcome of Add. Err is set when OK is false.
type AddResult struct {
	OK       bool
	Name     string
	ID       string
	Position int
	Message  string
	Err      *ValidationError
}

// Outcome says which branch a Toggle took.
type Outcome int

const (
	// OutcomeNone means the position was out of range and nothing changed.
	OutcomeNone Outcome = iota
	// OutcomeMarked means the date was added to the completion record.
	OutcomeMarked
	// OutcomeUnmarked means the date was removed from the completion record.
	OutcomeUnmarked
)

// String returns a lowercase label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeMarked:
		return "marked"
	case OutcomeUnmarked:
		return "unmarked"
	default:
		return "none"
	}
}

// ToggleResult is the outcome of Toggle.
type ToggleResult struct {
	Outcome  Outcome
	Position int
	Name     string
	ID       string
	Date     models.Date
}

// Applied reports whether the toggle changed anything.
func (r *ToggleResult) Applied() bool {
	return r.Outcome != OutcomeNone
}

// Message renders the result for the user. today decides whether the date
// is shown as "today" or spelled out.
func (r *ToggleResult) Message(today models.Date) string {
	when := "today"
	if r.Date != today {
		when = r.Date.String()
	}
	switch r.Outcome {
	case OutcomeMarked:
		return fmt.Sprintf("'%s' marked complete for %s!", r.Name, when)
	case OutcomeUnmarked:
		return fmt.Sprintf("'%s' unmarked for %s.", r.Name, when)
	default:
		return ""
	}
}

// DeleteResult is the outcome of Delete. Removed is false when the position
// was out of range.
type DeleteResult struct {
	Removed  bool
	Position int
	Name     string
	ID       string
}

// Message renders the result for the user.
func (r *DeleteResult) Message() string {
	if !r.Removed {
		return ""
	}
	return fmt.Sprintf("Habit '%s' deleted.", r.Name)
}
