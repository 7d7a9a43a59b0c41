package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"coursebook/config"
	"coursebook/services/booking"
	"coursebook/utils"
)

// Stripe caps webhook payloads at 64KB; anything larger is not ours.
const maxWebhookBodyBytes = int64(65536)

// PaymentWebhookHandler consumes Stripe webhook events. Payment
// processing itself stays with Stripe; this endpoint only reacts to the
// outcome.
type PaymentWebhookHandler struct {
	Bookings booking.BookingService
	Logger   *zap.Logger
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler instance.
func NewPaymentWebhookHandler(bookings booking.BookingService, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{Bookings: bookings, Logger: logger}
}

// Handle verifies the event signature and confirms the matching booking
// on payment_intent.succeeded.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to read webhook body", "")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook signature", "")
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Malformed payment intent payload", "")
			return
		}

		if err := h.Bookings.ConfirmByPaymentIntent(c.Request.Context(), intent.ID); err != nil {
			// A replayed event finds the booking already confirmed; ack it
			// so Stripe stops retrying.
			if booking.IsStateConflict(err) {
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			// The session filled before this payment confirmed. Retries
			// cannot free a seat, so ack the event and leave the booking
			// Pending for manual resolution.
			if errors.Is(err, booking.ErrSeatUnavailable) {
				h.Logger.Error("payment succeeded but no seat is available",
					zap.String("paymentIntent", intent.ID), zap.Error(err))
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			h.Logger.Error("failed to confirm booking from webhook",
				zap.String("paymentIntent", intent.ID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to process payment event", "")
			return
		}
	default:
		h.Logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
