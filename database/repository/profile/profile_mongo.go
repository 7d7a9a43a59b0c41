package profileRepo

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

// MongoProfileRepo implements ProfileRepository using MongoDB.
type MongoProfileRepo struct {
	coll *mongo.Collection
}

// NewMongoProfileRepo creates a ProfileRepository backed by MongoDB.
func NewMongoProfileRepo(client *mongo.Client, dbName string) ProfileRepository {
	coll := client.Database(dbName).Collection("profiles")
	repo := &MongoProfileRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("failed to create profile indexes: %v", err)
	}
	return repo
}

func (r *MongoProfileRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByUserID retrieves the profile for a user.
func (r *MongoProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// Upsert creates or replaces the profile for a user.
func (r *MongoProfileRepo) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	now := time.Now()
	profile.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"full_name":   profile.FullName,
			"phone":       profile.Phone,
			"picture_url": profile.PictureURL,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{"user_id": profile.UserID, "created_at": now},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored models.Profile
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"user_id": profile.UserID}, update, opts).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile for user %s: %w", profile.UserID, err)
	}
	return &stored, nil
}
