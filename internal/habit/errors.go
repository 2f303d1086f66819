package habit

import (
	"errors"
	"fmt"
)

// Sentinel errors for habit validation.
var (
	// ErrEmptyName indicates a habit name that is empty after trimming.
	ErrEmptyName = errors.New("habit: name is empty")

	// ErrDuplicateName indicates a name that case-insensitively matches an existing habit.
	ErrDuplicateName = errors.New("habit: name already exists")
)

// ValidationError describes why an add was rejected. It is reported inside
// AddResult rather than returned as an error.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error // underlying sentinel error for errors.Is support
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error: field %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}
