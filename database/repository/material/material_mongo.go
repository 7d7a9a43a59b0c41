package materialRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursebook/models"
	"coursebook/utils"
)

// MongoMaterialRepo implements MaterialRepository using MongoDB.
type MongoMaterialRepo struct {
	coll *mongo.Collection
}

// NewMongoMaterialRepo creates a MaterialRepository backed by MongoDB.
func NewMongoMaterialRepo(client *mongo.Client, dbName string) MaterialRepository {
	coll := client.Database(dbName).Collection("materials")
	repo := &MongoMaterialRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("failed to create material indexes: %v", err)
	}
	return repo
}

func (r *MongoMaterialRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "program_id", Value: 1}, {Key: "is_public", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a material by its unique ID.
func (r *MongoMaterialRepo) GetByID(ctx context.Context, id string) (*models.Material, error) {
	var material models.Material
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&material); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch material with id %s: %w", id, err)
	}
	return &material, nil
}

// ListByProgram retrieves materials for a program; the publicOnly flag is
// applied as a row filter rather than a per-row check.
func (r *MongoMaterialRepo) ListByProgram(ctx context.Context, programID string, publicOnly bool) ([]models.Material, error) {
	filter := bson.M{"program_id": programID}
	if publicOnly {
		filter["is_public"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve materials for program %s: %w", programID, err)
	}
	defer cursor.Close(ctx)

	var materials []models.Material
	for cursor.Next(ctx) {
		var m models.Material
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, nil
}

// Create inserts a new material document.
func (r *MongoMaterialRepo) Create(ctx context.Context, material *models.Material) error {
	now := time.Now()
	material.CreatedAt = now
	material.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, material); err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

// Delete removes a material document by its ID.
func (r *MongoMaterialRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete material with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("material with id %s not found", id)
	}
	return nil
}
