package booking

import (
	"context"

	bookingRepo "coursebook/database/repository/booking"
	programRepo "coursebook/database/repository/program"
	sessionRepo "coursebook/database/repository/session"
	"coursebook/models"
	"coursebook/services/payment"
	"coursebook/services/tasks"
)

// CheckoutResult is returned by Checkout: the pending booking plus the
// Stripe client secret the frontend needs to collect payment.
type CheckoutResult struct {
	Booking      *models.Booking `json:"booking"`
	ClientSecret string          `json:"clientSecret"`
}

// BookingService governs the booking lifecycle:
//
//	Pending -> Confirmed | Cancelled
//	Confirmed -> Cancelled | Completed
//
// Cancelled and Completed are terminal.
type BookingService interface {
	// Checkout creates a Pending booking together with a payment intent.
	Checkout(ctx context.Context, requester models.AuthUser, req models.CheckoutRequest) (*CheckoutResult, error)
	// Cancel transitions a booking to Cancelled and releases its seat.
	// Only the owner may cancel. The returned warning is non-empty when a
	// post-commit side effect (notification enqueue) failed.
	Cancel(ctx context.Context, bookingID string, requester models.AuthUser) (warning string, err error)
	// ConfirmByPaymentIntent transitions the booking tied to a succeeded
	// payment intent from Pending to Confirmed and acquires its seat.
	ConfirmByPaymentIntent(ctx context.Context, paymentIntentID string) error
	// Complete transitions a Confirmed booking to Completed (admin only,
	// after program delivery).
	Complete(ctx context.Context, bookingID string) error
	// ListByUser returns the requester's bookings.
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// GetByID returns a booking visible to its owner or an admin.
	GetByID(ctx context.Context, bookingID string, requester models.AuthUser) (*models.Booking, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo        bookingRepo.BookingRepository
	SessionRepo sessionRepo.SessionRepository
	ProgramRepo programRepo.ProgramRepository
	Payments    payment.PaymentService
	Tasks       tasks.TaskQueue
}
