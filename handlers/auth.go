package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursebook/models"
	"coursebook/services/auth"
	"coursebook/utils"
)

// AuthHandler exposes the registration and login endpoints.
type AuthHandler struct {
	Service auth.AuthService
	Logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(svc auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Service: svc, Logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	result, err := h.Service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "Email is already registered", "")
			return
		}
		h.Logger.Error("registration failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register", "")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	result, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "")
			return
		}
		h.Logger.Error("login failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to log in", "")
		return
	}
	c.JSON(http.StatusOK, result)
}
