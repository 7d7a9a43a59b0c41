package sessionRepo

import (
	"context"

	"coursebook/models"
)

// SessionRepository defines methods for session data access, including the
// capacity ledger. Capacity is only ever mutated through AcquireSeat and
// ReleaseSeat; both are single atomic updates.
type SessionRepository interface {
	// GetByID retrieves a session by its unique ID. Returns nil when no
	// session matches.
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// ListByProgram retrieves all sessions scheduled for a program.
	ListByProgram(ctx context.Context, programID string) ([]models.Session, error)
	// Create inserts a new session record.
	Create(ctx context.Context, session *models.Session) error
	// AcquireSeat atomically increments current_capacity while it is below
	// max_capacity. Returns ErrSessionFull when no seat is available and
	// ErrSessionNotFound when no session matches.
	AcquireSeat(ctx context.Context, id string) error
	// ReleaseSeat atomically decrements current_capacity with a floor of
	// zero. Releasing a seat on a session already at zero is a no-op.
	ReleaseSeat(ctx context.Context, id string) error
}
