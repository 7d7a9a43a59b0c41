package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursebook/middleware"
	"coursebook/models"
	"coursebook/services/material"
	"coursebook/utils"
)

// MaterialHandler exposes the course-material endpoints.
type MaterialHandler struct {
	Service material.MaterialService
	Logger  *zap.Logger
}

// NewMaterialHandler creates a new MaterialHandler instance.
func NewMaterialHandler(svc material.MaterialService, logger *zap.Logger) *MaterialHandler {
	return &MaterialHandler{Service: svc, Logger: logger}
}

// ListByProgram handles GET /materials/program/:programId. Non-enrolled,
// non-admin users only see public materials.
func (h *MaterialHandler) ListByProgram(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	programID := c.Param("programId")
	if programID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Program id is required", "")
		return
	}

	materials, err := h.Service.ListForProgram(c.Request.Context(), user, programID)
	if err != nil {
		h.Logger.Error("failed to list materials", zap.String("programId", programID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list materials", "")
		return
	}
	if materials == nil {
		materials = []models.Material{}
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// Download handles GET /materials/download/:materialId and answers with a
// signed URL valid for one hour.
func (h *MaterialHandler) Download(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	materialID := c.Param("materialId")
	if materialID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Material id is required", "")
		return
	}

	link, err := h.Service.DownloadLink(c.Request.Context(), user, materialID)
	if err != nil {
		switch {
		case errors.Is(err, material.ErrMaterialNotFound):
			utils.JSONError(c, http.StatusNotFound, "Material not found", "")
		case errors.Is(err, material.ErrAccessDenied):
			utils.JSONError(c, http.StatusForbidden, "You do not have access to this material", "")
		default:
			h.Logger.Error("failed to issue download link", zap.String("materialId", materialID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to issue download link", "")
		}
		return
	}

	c.JSON(http.StatusOK, link)
}
