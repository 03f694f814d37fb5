package session

import (
	"errors"
	"fmt"

	"github.com/bethropolis/redline/internal/core/suggestion"
)

var (
	// ErrValidation marks malformed input, such as offsets outside the buffer.
	ErrValidation = errors.New("validation failed")
	// ErrState marks an operation not allowed in the suggestion's current state.
	ErrState = errors.New("invalid state")
	// ErrStaleData marks results computed against an outdated buffer revision.
	ErrStaleData = errors.New("stale data")
	// ErrNotFound is returned for unknown suggestion IDs.
	ErrNotFound = errors.New("suggestion not found")
)

// ValidationError reports a rejected draft or edit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// StateError reports a status transition or buffer precondition that failed.
// Nothing is mutated when it is returned.
type StateError struct {
	Op     string
	ID     string
	Status suggestion.Status
	Reason string
	Err    error
}

func (e *StateError) Error() string {
	msg := fmt.Sprintf("%s %s (%s): %s", e.Op, e.ID, e.Status, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StateError) Is(target error) bool { return target == ErrState }

func (e *StateError) Unwrap() error { return e.Err }

// StaleDataWarning is returned when a batch was requested against a revision
// that has since been superseded. The batch is discarded.
type StaleDataWarning struct {
	TicketRevision  uint64
	CurrentRevision uint64
}

func (w *StaleDataWarning) Error() string {
	return fmt.Sprintf("results for revision %d discarded, buffer is at revision %d",
		w.TicketRevision, w.CurrentRevision)
}

func (w *StaleDataWarning) Unwrap() error { return ErrStaleData }

func notFound(id string) error {
	return fmt.Errorf("%q: %w", id, ErrNotFound)
}
