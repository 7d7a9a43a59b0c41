package userRepo

import (
	"context"

	"coursebook/models"
)

// UserRepository defines methods for identity data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. Returns nil when no user
	// matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. Returns nil when no
	// user matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
