package profileRepo

import (
	"context"

	"coursebook/models"
)

// ProfileRepository defines methods for profile data access. Profiles are
// stored separately from the identity records and keyed by user id.
type ProfileRepository interface {
	// GetByUserID retrieves the profile for a user. Returns nil when no
	// profile exists yet.
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates or replaces the profile for a user and returns the
	// stored record.
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}
