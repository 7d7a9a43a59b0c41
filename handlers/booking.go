package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursebook/middleware"
	"coursebook/models"
	"coursebook/services/booking"
	"coursebook/utils"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler instance.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// Checkout creates a Pending booking plus a payment intent.
func (h *BookingHandler) Checkout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	result, err := h.Service.Checkout(c.Request.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrProgramNotFound):
			utils.JSONError(c, http.StatusNotFound, "Program not found", "")
		case errors.Is(err, booking.ErrSessionNotFound):
			utils.JSONError(c, http.StatusNotFound, "Session not found", "")
		default:
			h.Logger.Error("checkout failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to start checkout", "")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Cancel handles PUT /bookings/:id/cancel. Only the booking's owner may
// cancel, and only from a non-terminal status.
func (h *BookingHandler) Cancel(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	bookingID := c.Param("id")
	if bookingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Booking id is required", "")
		return
	}

	warning, err := h.Service.Cancel(c.Request.Context(), bookingID, user)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
		case errors.Is(err, booking.ErrNotOwner):
			utils.JSONError(c, http.StatusForbidden, "You may only cancel your own bookings", "")
		case booking.IsStateConflict(err):
			utils.JSONError(c, http.StatusBadRequest, "Booking "+err.Error(), "")
		default:
			h.Logger.Error("cancellation failed", zap.String("bookingId", bookingID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to cancel booking", "")
		}
		return
	}

	resp := gin.H{"message": "Booking cancelled successfully"}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

// List returns the authenticated user's bookings.
func (h *BookingHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	bookings, err := h.Service.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.Logger.Error("failed to list bookings", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list bookings", "")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get returns one booking to its owner or an admin.
func (h *BookingHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	b, err := h.Service.GetByID(c.Request.Context(), c.Param("id"), user)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
		case errors.Is(err, booking.ErrNotOwner):
			utils.JSONError(c, http.StatusForbidden, "You may only view your own bookings", "")
		default:
			h.Logger.Error("failed to fetch booking", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch booking", "")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// Complete marks a Confirmed booking Completed after program delivery
// (admin only).
func (h *BookingHandler) Complete(c *gin.Context) {
	bookingID := c.Param("id")
	if err := h.Service.Complete(c.Request.Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
		case booking.IsStateConflict(err):
			utils.JSONError(c, http.StatusBadRequest, "Booking "+err.Error(), "")
		default:
			h.Logger.Error("completion failed", zap.String("bookingId", bookingID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to complete booking", "")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking completed successfully"})
}
