package programRepo

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

// MongoProgramRepo implements ProgramRepository using MongoDB.
type MongoProgramRepo struct {
	coll *mongo.Collection
}

// NewMongoProgramRepo creates a ProgramRepository backed by MongoDB.
func NewMongoProgramRepo(client *mongo.Client, dbName string) ProgramRepository {
	coll := client.Database(dbName).Collection("programs")
	repo := &MongoProgramRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("failed to create program indexes: %v", err)
	}
	return repo
}

func (r *MongoProgramRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a program by its unique ID.
func (r *MongoProgramRepo) GetByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&program); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch program with id %s: %w", id, err)
	}
	return &program, nil
}

// GetAll retrieves all programs, newest first.
func (r *MongoProgramRepo) GetAll(ctx context.Context) ([]models.Program, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve programs: %w", err)
	}
	defer cursor.Close(ctx)

	var programs []models.Program
	for cursor.Next(ctx) {
		var p models.Program
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// Create inserts a new program document.
func (r *MongoProgramRepo) Create(ctx context.Context, program *models.Program) error {
	now := time.Now()
	program.CreatedAt = now
	program.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, program); err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

// UpdateFields applies a partial $set update and returns the updated
// document in one round trip.
func (r *MongoProgramRepo) UpdateFields(ctx context.Context, id string, fields bson.M) (*models.Program, error) {
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var program models.Program
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": fields}, opts).Decode(&program)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update program with id %s: %w", id, err)
	}
	return &program, nil
}

// Delete removes a program document by its ID.
func (r *MongoProgramRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete program with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("program with id %s not found", id)
	}
	return nil
}
