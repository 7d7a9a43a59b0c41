package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// FieldError describes a single request-field violation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetLogger()
				logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := GetLogger()
	logger.Warn(message, zap.String("details", details))
	resp := ErrorResponse{Message: message}
	if details != "" {
		resp.Details = details
	}
	c.JSON(status, resp)
}

// JSONValidationError sends a 400 listing every field violation at once.
func JSONValidationError(c *gin.Context, fields []FieldError) {
	logger := GetLogger()
	logger.Warn("Validation failed", zap.Int("violations", len(fields)))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message: "Validation failed",
		Details: fields,
	})
}
