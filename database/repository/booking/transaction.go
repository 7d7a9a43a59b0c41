package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"coursebook/models"
)

// CancelWithRelease sets the booking to Cancelled and decrements the
// session's current_capacity in one multi-document transaction. Either
// both writes commit or neither does, so a cancellation can never leave
// the booking and the seat counter disagreeing.
//
// The status update is guarded on the non-terminal statuses and the seat
// decrement is guarded on current_capacity > 0, keeping the counter at
// max(0, previous-1) even under concurrent cancellations.
func (r *MongoBookingRepo) CancelWithRelease(ctx context.Context, bookingID, sessionID string) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"id":     bookingID,
			"status": bson.M{"$in": bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}},
		}
		update := bson.M{"$set": bson.M{
			"status":     models.BookingStatusCancelled,
			"updated_at": time.Now(),
		}}

		var prev models.Booking
		err := r.coll.FindOneAndUpdate(sc, filter, update).Decode(&prev)
		if err == mongo.ErrNoDocuments {
			return ErrNoTransition
		}
		if err != nil {
			return fmt.Errorf("cancel booking failed: %w", err)
		}

		// Only a Confirmed booking holds a seat; a Pending one never
		// acquired it.
		if sessionID == "" || prev.Status != models.BookingStatusConfirmed {
			return nil
		}

		// Floor guard: a session already at zero is left untouched.
		seatFilter := bson.M{"id": sessionID, "current_capacity": bson.M{"$gt": 0}}
		seatUpdate := bson.M{
			"$inc": bson.M{"current_capacity": -1},
			"$set": bson.M{"updated_at": time.Now()},
		}
		if _, err := r.sessionColl.UpdateOne(sc, seatFilter, seatUpdate); err != nil {
			return fmt.Errorf("release seat failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrNoTransition {
			return err
		}
		return fmt.Errorf("cancellation transaction failed: %w", err)
	}

	return nil
}
