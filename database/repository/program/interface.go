package programRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"coursebook/models"
)

// ProgramRepository defines methods for program data access.
type ProgramRepository interface {
	// GetByID retrieves a program by its unique ID. Returns nil when no
	// program matches.
	GetByID(ctx context.Context, id string) (*models.Program, error)
	// GetAll retrieves all programs.
	GetAll(ctx context.Context) ([]models.Program, error)
	// Create inserts a new program record.
	Create(ctx context.Context, program *models.Program) error
	// UpdateFields applies a partial update and returns the updated record.
	// Returns nil when no program matches.
	UpdateFields(ctx context.Context, id string, fields bson.M) (*models.Program, error)
	// Delete removes a program record by its ID.
	Delete(ctx context.Context, id string) error
}
