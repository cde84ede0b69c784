package irrigation

import (
	"errors"
	"fmt"

	"github.com/LeonardoBeccarini/borewell_project/internal/core/actionlog"
)

var (
	// ErrInvalidInput is reported before any state change.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLogFull is returned together with a valid Result: the record was
	// stored but the action history had no room left.
	ErrLogFull = actionlog.ErrLogFull
)

// ValidationError describes which argument of which operation was rejected.
type ValidationError struct {
	Op     string
	Field  string
	Reason string
	Err    error // underlying cause, if any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(op, field, reason string) error {
	return &ValidationError{Op: op, Field: field, Reason: reason}
}
