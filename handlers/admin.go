package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursebook/models"
	"coursebook/services/catalog"
	"coursebook/services/material"
	"coursebook/services/storage"
	"coursebook/utils"
)

// AdminHandler exposes the catalog administration endpoints.
type AdminHandler struct {
	Catalog   catalog.CatalogService
	Materials material.MaterialService
	Storage   storage.StorageService
	Logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(catalogSvc catalog.CatalogService, materialSvc material.MaterialService, storageSvc storage.StorageService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		Catalog:   catalogSvc,
		Materials: materialSvc,
		Storage:   storageSvc,
		Logger:    logger,
	}
}

// CreateProgram handles POST /admin/programs.
func (h *AdminHandler) CreateProgram(c *gin.Context) {
	var req models.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	program, err := h.Catalog.CreateProgram(c.Request.Context(), req)
	if err != nil {
		h.Logger.Error("failed to create program", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create program", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"program": program})
}

// UpdateProgram handles PUT /admin/programs/:id with partial updates.
func (h *AdminHandler) UpdateProgram(c *gin.Context) {
	var req models.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	program, err := h.Catalog.UpdateProgram(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNoFields):
			c.JSON(http.StatusOK, gin.H{"message": "No fields to update"})
		case errors.Is(err, catalog.ErrProgramNotFound):
			utils.JSONError(c, http.StatusNotFound, "Program not found", "")
		default:
			h.Logger.Error("failed to update program", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to update program", "")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program})
}

// DeleteProgram handles DELETE /admin/programs/:id.
func (h *AdminHandler) DeleteProgram(c *gin.Context) {
	if err := h.Catalog.DeleteProgram(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, catalog.ErrProgramNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Program not found", "")
			return
		}
		h.Logger.Error("failed to delete program", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete program", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Program deleted successfully"})
}

// CreateSession handles POST /admin/programs/sessions.
func (h *AdminHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		utils.JSONValidationError(c, fields)
		return
	}

	session, err := h.Catalog.CreateSession(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProgramNotFound):
			utils.JSONError(c, http.StatusNotFound, "Program not found", "")
		default:
			h.Logger.Error("failed to create session", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to create session", "")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// UploadMaterial handles POST /admin/programs/materials: a multipart
// upload stored in the bucket and registered as a material record.
func (h *AdminHandler) UploadMaterial(c *gin.Context) {
	programID := c.PostForm("program_id")
	title := c.PostForm("title")
	if programID == "" || title == "" {
		utils.JSONError(c, http.StatusBadRequest, "program_id and title are required", "")
		return
	}
	isPublic, _ := strconv.ParseBool(c.DefaultPostForm("is_public", "false"))

	if _, err := h.Catalog.GetProgram(c.Request.Context(), programID); err != nil {
		if errors.Is(err, catalog.ErrProgramNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Program not found", "")
			return
		}
		h.Logger.Error("failed to look up program", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload material", "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "File not provided", err.Error())
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save file", err.Error())
		return
	}
	defer os.Remove(tempFilePath)

	objectPath, err := h.Storage.UploadFile(c.Request.Context(), tempFilePath, "materials/"+programID)
	if err != nil {
		h.Logger.Error("failed to upload material file", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to upload file", "")
		return
	}

	m := &models.Material{
		ID:          uuid.New().String(),
		ProgramID:   programID,
		Title:       title,
		Description: c.PostForm("description"),
		IsPublic:    isPublic,
		StoragePath: objectPath,
		FileName:    fileHeader.Filename,
	}
	if err := h.Materials.Create(c.Request.Context(), m); err != nil {
		h.Logger.Error("failed to register material", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register material", "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"material": m})
}

// DeleteMaterial handles DELETE /admin/materials/:materialId: removes the
// record and the stored object behind it.
func (h *AdminHandler) DeleteMaterial(c *gin.Context) {
	if err := h.Materials.Delete(c.Request.Context(), c.Param("materialId")); err != nil {
		if errors.Is(err, material.ErrMaterialNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Material not found", "")
			return
		}
		h.Logger.Error("failed to delete material", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete material", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}
