package bubble

import (
	"errors"
	"fmt"
)

// Domain errors for layout operations.
var (
	// ErrNotConfigured indicates the year range was never set.
	ErrNotConfigured = errors.New("bubble: year range not configured")

	// ErrInvalidRange indicates a start year after the end year.
	ErrInvalidRange = errors.New("bubble: start year after end year")

	// ErrUnknownEntity indicates an identifier with no entity in the layout.
	ErrUnknownEntity = errors.New("bubble: unknown entity")

	// ErrNoEntities indicates every input row was filtered out.
	ErrNoEntities = errors.New("bubble: no entities to lay out")

	// ErrInvalidState indicates a non-finite position or radius.
	ErrInvalidState = errors.New("bubble: invalid layout state (NaN or Inf detected)")
)

// SessionError wraps an error with frame context.
type SessionError struct {
	Frame   int
	Year    int
	Wrapped error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("frame %d (year %d): %v", e.Frame, e.Year, e.Wrapped)
}

func (e *SessionError) Unwrap() error {
	return e.Wrapped
}
