package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coursebook/models"
	"coursebook/utils"
)

var (
	// ErrSessionFull signals that every seat on the session is occupied.
	ErrSessionFull = errors.New("session is at maximum capacity")
	// ErrSessionNotFound signals that no session matches the given ID.
	ErrSessionNotFound = errors.New("session not found")
)

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo creates a SessionRepository backed by MongoDB.
func NewMongoSessionRepo(client *mongo.Client, dbName string) SessionRepository {
	coll := client.Database(dbName).Collection("sessions")
	repo := &MongoSessionRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("failed to create session indexes: %v", err)
	}
	return repo
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "program_id", Value: 1}, {Key: "start_time", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its unique ID.
func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session with id %s: %w", id, err)
	}
	return &session, nil
}

// ListByProgram retrieves all sessions for a program ordered by start time.
func (r *MongoSessionRepo) ListByProgram(ctx context.Context, programID string) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"program_id": programID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sessions for program %s: %w", programID, err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	for cursor.Next(ctx) {
		var s models.Session
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// Create inserts a new session document.
func (r *MongoSessionRepo) Create(ctx context.Context, session *models.Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// AcquireSeat increments current_capacity in one guarded update. The
// current_capacity < max_capacity condition lives in the filter, so two
// concurrent acquisitions can never push the counter past the maximum.
func (r *MongoSessionRepo) AcquireSeat(ctx context.Context, id string) error {
	filter := bson.M{
		"id":    id,
		"$expr": bson.M{"$lt": bson.A{"$current_capacity", "$max_capacity"}},
	}
	update := bson.M{
		"$inc": bson.M{"current_capacity": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to acquire seat on session %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		// The filter misses both on a full session and on an absent one;
		// tell them apart before reporting.
		err := r.coll.FindOne(ctx, bson.M{"id": id}).Err()
		if err == mongo.ErrNoDocuments {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check session %s: %w", id, err)
		}
		return ErrSessionFull
	}
	return nil
}

// ReleaseSeat decrements current_capacity in one guarded update. The
// current_capacity > 0 condition keeps the counter at max(0, previous-1);
// releasing on a session already at zero matches nothing and is a no-op.
func (r *MongoSessionRepo) ReleaseSeat(ctx context.Context, id string) error {
	filter := bson.M{"id": id, "current_capacity": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"current_capacity": -1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release seat on session %s: %w", id, err)
	}
	return nil
}
