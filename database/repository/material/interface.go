package materialRepo

import (
	"context"

	"coursebook/models"
)

// MaterialRepository defines methods for material data access.
type MaterialRepository interface {
	// GetByID retrieves a material by its unique ID. Returns nil when no
	// material matches.
	GetByID(ctx context.Context, id string) (*models.Material, error)
	// ListByProgram retrieves materials for a program. When publicOnly is
	// true, private materials are filtered out at the query level.
	ListByProgram(ctx context.Context, programID string, publicOnly bool) ([]models.Material, error)
	// Create inserts a new material record.
	Create(ctx context.Context, material *models.Material) error
	// Delete removes a material record by its ID.
	Delete(ctx context.Context, id string) error
}
