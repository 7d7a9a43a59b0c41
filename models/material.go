package models

import "time"

// Material is a downloadable resource owned by a program. Private
// materials are only served to admins and users holding an active booking
// on the owning program.
type Material struct {
	ID          string    `bson:"id" json:"id"`
	ProgramID   string    `bson:"program_id" json:"program_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	IsPublic    bool      `bson:"is_public" json:"is_public"`
	StoragePath string    `bson:"storage_path" json:"-"`
	FileName    string    `bson:"file_name" json:"file_name"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
