package bookingRepo

import (
	"context"

	"coursebook/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID. Returns nil when no
	// booking matches.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Create inserts a new booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// ListByUser retrieves all bookings made by the given user.
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// GetByPaymentIntent retrieves the booking tied to a Stripe payment
	// intent. Returns nil when no booking matches.
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Booking, error)
	// UpdateStatus moves a booking from one of the expected statuses to the
	// new status. Returns ErrNoTransition when the booking is absent or no
	// longer in any expected status.
	UpdateStatus(ctx context.Context, id, newStatus string, expected ...string) error
	// HasActiveBooking reports whether the user holds a Confirmed or
	// Completed booking on the program (existence query, limit 1).
	HasActiveBooking(ctx context.Context, userID, programID string) (bool, error)
	// CancelWithRelease sets the booking to Cancelled and releases one seat
	// on the session inside a single transaction, so a partial update can
	// never be committed. sessionID may be empty for bookings without a
	// session; only the status is then updated.
	CancelWithRelease(ctx context.Context, bookingID, sessionID string) error
}
