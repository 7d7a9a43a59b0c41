package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursebook/middleware"
	"coursebook/models"
	"coursebook/services/user"
	"coursebook/utils"
)

// UserHandler exposes the profile and credential endpoints.
type UserHandler struct {
	Service user.UserService
	Logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(svc user.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{Service: svc, Logger: logger}
}

// GetProfile handles GET /users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	au, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	profile, err := h.Service.GetProfile(c.Request.Context(), au.ID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Profile not found", "")
			return
		}
		h.Logger.Error("failed to fetch profile", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch profile", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile handles PUT /users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	au, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	profile, err := h.Service.UpdateProfile(c.Request.Context(), au.ID, req)
	if err != nil {
		h.Logger.Error("failed to update profile", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update profile", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ChangePassword handles PUT /users/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	au, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	if err := h.Service.ChangePassword(c.Request.Context(), au.ID, req); err != nil {
		switch {
		case errors.Is(err, user.ErrWrongPassword):
			utils.JSONError(c, http.StatusBadRequest, "Current password is incorrect", "")
		case errors.Is(err, user.ErrUserNotFound):
			utils.JSONError(c, http.StatusUnauthorized, "Unknown user", "")
		default:
			h.Logger.Error("failed to change password", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to change password", "")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
