package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "coursebook/database/repository/booking"
	sessionRepo "coursebook/database/repository/session"
	"coursebook/config"
	"coursebook/models"
	"coursebook/utils"
)

// Checkout creates a Pending booking and a Stripe payment intent for the
// program's price. The booking stays Pending until the payment webhook
// confirms it; the seat is acquired at confirmation time, not here.
func (svc *DefaultBookingService) Checkout(ctx context.Context, requester models.AuthUser, req models.CheckoutRequest) (*CheckoutResult, error) {
	program, err := svc.ProgramRepo.GetByID(ctx, req.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up program: %w", err)
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	if req.SessionID != "" {
		session, err := svc.SessionRepo.GetByID(ctx, req.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up session: %w", err)
		}
		if session == nil || session.ProgramID != req.ProgramID {
			return nil, ErrSessionNotFound
		}
	}

	bookingID := uuid.New().String()
	amount := int64(math.Round(program.Price * 100))
	intentID, clientSecret, err := svc.Payments.CreateIntent(ctx, amount, config.AppConfig.Currency, map[string]string{
		"booking_id": bookingID,
		"program_id": program.ID,
		"user_id":    requester.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	b := &models.Booking{
		ID:              bookingID,
		UserID:          requester.ID,
		ProgramID:       req.ProgramID,
		SessionID:       req.SessionID,
		Status:          models.BookingStatusPending,
		PaymentIntentID: intentID,
	}
	if err := svc.Repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return &CheckoutResult{Booking: b, ClientSecret: clientSecret}, nil
}

// Cancel transitions a booking to Cancelled. Ordering of checks: existence,
// ownership, terminal status. The status update and the seat release run in
// one transaction; only the post-commit notification enqueue can fail
// independently, in which case the cancellation stands and a warning is
// returned.
func (svc *DefaultBookingService) Cancel(ctx context.Context, bookingID string, requester models.AuthUser) (string, error) {
	b, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("failed to look up booking: %w", err)
	}
	if b == nil {
		return "", ErrBookingNotFound
	}
	if b.UserID != requester.ID {
		return "", ErrNotOwner
	}
	if b.IsTerminal() {
		return "", &StateConflictError{Status: b.Status}
	}

	if err := svc.Repo.CancelWithRelease(ctx, b.ID, b.SessionID); err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			// The booking reached a terminal status between the read above
			// and the guarded update.
			current, ferr := svc.Repo.GetByID(ctx, bookingID)
			if ferr != nil || current == nil {
				return "", fmt.Errorf("failed to cancel booking: %w", err)
			}
			return "", &StateConflictError{Status: current.Status}
		}
		return "", fmt.Errorf("failed to cancel booking: %w", err)
	}

	warning := ""
	notification := models.NotificationPayload{
		UserID: b.UserID,
		Title:  "Booking cancelled",
		Body:   "Your booking has been cancelled.",
		Data:   map[string]string{"bookingId": b.ID, "programId": b.ProgramID},
	}
	if err := svc.Tasks.EnqueueNotification(ctx, notification); err != nil {
		utils.GetLogger().Warn("cancellation committed but notification enqueue failed",
			zap.String("bookingId", b.ID), zap.Error(err))
		warning = "booking cancelled, but the confirmation notification could not be queued"
	}

	return warning, nil
}

// ConfirmByPaymentIntent moves the booking tied to a succeeded payment
// intent from Pending to Confirmed and acquires its seat. The seat is
// taken first; if the status guard then finds the booking already
// processed, the seat is released again.
func (svc *DefaultBookingService) ConfirmByPaymentIntent(ctx context.Context, paymentIntentID string) error {
	b, err := svc.Repo.GetByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("failed to look up booking for payment intent: %w", err)
	}
	if b == nil {
		return ErrBookingNotFound
	}

	if b.SessionID != "" {
		if err := svc.SessionRepo.AcquireSeat(ctx, b.SessionID); err != nil {
			if errors.Is(err, sessionRepo.ErrSessionFull) {
				return fmt.Errorf("%w: booking %s, session %s", ErrSeatUnavailable, b.ID, b.SessionID)
			}
			return fmt.Errorf("failed to acquire seat for booking %s: %w", b.ID, err)
		}
	}

	if err := svc.Repo.UpdateStatus(ctx, b.ID, models.BookingStatusConfirmed, models.BookingStatusPending); err != nil {
		if b.SessionID != "" {
			if rerr := svc.SessionRepo.ReleaseSeat(ctx, b.SessionID); rerr != nil {
				utils.GetLogger().Error("failed to release seat after confirm conflict",
					zap.String("bookingId", b.ID), zap.Error(rerr))
			}
		}
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			return &StateConflictError{Status: b.Status}
		}
		return fmt.Errorf("failed to confirm booking %s: %w", b.ID, err)
	}

	svc.notifyConfirmed(ctx, b)
	return nil
}

// notifyConfirmed sends the confirmation push and schedules a session
// reminder 24 hours before start. Failures here never fail the
// confirmation.
func (svc *DefaultBookingService) notifyConfirmed(ctx context.Context, b *models.Booking) {
	logger := utils.GetLogger()

	notification := models.NotificationPayload{
		UserID: b.UserID,
		Title:  "Booking confirmed",
		Body:   "Your payment was received and your seat is reserved.",
		Data:   map[string]string{"bookingId": b.ID, "programId": b.ProgramID},
	}
	if err := svc.Tasks.EnqueueNotification(ctx, notification); err != nil {
		logger.Warn("failed to enqueue confirmation notification",
			zap.String("bookingId", b.ID), zap.Error(err))
	}

	if b.SessionID == "" {
		return
	}
	session, err := svc.SessionRepo.GetByID(ctx, b.SessionID)
	if err != nil || session == nil {
		logger.Warn("failed to load session for reminder scheduling",
			zap.String("sessionId", b.SessionID), zap.Error(err))
		return
	}

	fireAt := session.StartTime.Add(-24 * time.Hour)
	if fireAt.Before(time.Now()) {
		return
	}
	reminder := models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		SessionID: session.ID,
		Title:     "Session reminder",
		Body:      "Your session starts in 24 hours.",
		FireDate:  fireAt.Format(time.RFC3339),
	}
	if err := svc.Tasks.ScheduleReminder(ctx, reminder, fireAt); err != nil {
		logger.Warn("failed to schedule session reminder",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// Complete transitions a Confirmed booking to Completed.
func (svc *DefaultBookingService) Complete(ctx context.Context, bookingID string) error {
	b, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to look up booking: %w", err)
	}
	if b == nil {
		return ErrBookingNotFound
	}
	if b.Status != models.BookingStatusConfirmed {
		return &StateConflictError{Status: b.Status}
	}

	if err := svc.Repo.UpdateStatus(ctx, bookingID, models.BookingStatusCompleted, models.BookingStatusConfirmed); err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			return &StateConflictError{Status: b.Status}
		}
		return fmt.Errorf("failed to complete booking %s: %w", bookingID, err)
	}
	return nil
}

// ListByUser returns the user's bookings, newest first.
func (svc *DefaultBookingService) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return svc.Repo.ListByUser(ctx, userID)
}

// GetByID returns a booking to its owner or an admin.
func (svc *DefaultBookingService) GetByID(ctx context.Context, bookingID string, requester models.AuthUser) (*models.Booking, error) {
	b, err := svc.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.UserID != requester.ID && !requester.IsAdmin() {
		return nil, ErrNotOwner
	}
	return b, nil
}
