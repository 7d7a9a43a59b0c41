package bookingRepo

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

// ErrNoTransition signals that a guarded status update matched no document:
// the booking is absent or its status changed underneath the caller.
var ErrNoTransition = errors.New("booking not in an expected status")

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll        *mongo.Collection
	sessionColl *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by MongoDB. The
// session collection is needed for the transactional cancel.
func NewMongoBookingRepo(client *mongo.Client, dbName string) BookingRepository {
	db := client.Database(dbName)
	repo := &MongoBookingRepo{
		coll:        db.Collection("bookings"),
		sessionColl: db.Collection("sessions"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("failed to create booking indexes: %v", err)
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "program_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "payment_intent_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// ListByUser retrieves all bookings made by the given user, newest first.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// GetByPaymentIntent retrieves the booking tied to a Stripe payment intent.
func (r *MongoBookingRepo) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"payment_intent_id": paymentIntentID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking for payment intent %s: %w", paymentIntentID, err)
	}
	return &booking, nil
}

// UpdateStatus moves a booking to newStatus only while it is still in one
// of the expected statuses. The guard runs inside the update filter, so a
// concurrent transition cannot slip through between a read and a write.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id, newStatus string, expected ...string) error {
	filter := bson.M{"id": id}
	if len(expected) > 0 {
		filter["status"] = bson.M{"$in": expected}
	}
	update := bson.M{"$set": bson.M{"status": newStatus, "updated_at": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update status of booking %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}

// HasActiveBooking reports whether the user holds a Confirmed or Completed
// booking on the program. Uses a limit-1 existence query.
func (r *MongoBookingRepo) HasActiveBooking(ctx context.Context, userID, programID string) (bool, error) {
	filter := bson.M{
		"user_id":    userID,
		"program_id": programID,
		"status":     bson.M{"$in": bson.A{models.BookingStatusConfirmed, models.BookingStatusCompleted}},
	}
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"id": 1})).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bookings for user %s on program %s: %w", userID, programID, err)
	}
	return true, nil
}
