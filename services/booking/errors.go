package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBookingNotFound signals that no booking matches the given ID.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotOwner signals that the requester does not own the booking.
	ErrNotOwner = errors.New("booking belongs to another user")
	// ErrProgramNotFound signals that the referenced program is absent.
	ErrProgramNotFound = errors.New("program not found")
	// ErrSessionNotFound signals that the referenced session is absent.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSeatUnavailable signals that payment succeeded but the session
	// filled up before confirmation. Replays cannot fix this; the booking
	// stays Pending for manual resolution.
	ErrSeatUnavailable = errors.New("no seat available for confirmed payment")
)

// StateConflictError signals that an operation is invalid for the
// booking's current status, e.g. cancelling an already cancelled booking.
type StateConflictError struct {
	Status string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("already %s", strings.ToLower(e.Status))
}

// IsStateConflict reports whether err is a StateConflictError.
func IsStateConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc)
}
