package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursebook/models"
	"coursebook/services/catalog"
	"coursebook/utils"
)

// CatalogHandler exposes the public program listing endpoints.
type CatalogHandler struct {
	Service catalog.CatalogService
	Logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler instance.
func NewCatalogHandler(svc catalog.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Service: svc, Logger: logger}
}

// ListPrograms handles GET /programs.
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	programs, err := h.Service.ListPrograms(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list programs", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list programs", "")
		return
	}
	if programs == nil {
		programs = []models.Program{}
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

// GetProgram handles GET /programs/:id, including its sessions.
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	programID := c.Param("id")
	program, err := h.Service.GetProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, catalog.ErrProgramNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Program not found", "")
			return
		}
		h.Logger.Error("failed to fetch program", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch program", "")
		return
	}

	sessions, err := h.Service.ListSessions(c.Request.Context(), programID)
	if err != nil {
		h.Logger.Error("failed to list sessions", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch program", "")
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	c.JSON(http.StatusOK, gin.H{"program": program, "sessions": sessions})
}
