package material

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "coursebook/database/repository/booking"
	materialRepo "coursebook/database/repository/material"
	"coursebook/models"
	"coursebook/services/storage"
)

// Signed download links stay valid for one hour.
const downloadURLValidity = time.Hour

var (
	// ErrMaterialNotFound signals that no material matches, or that the
	// record has no resolvable storage reference. "Exists but unfetchable"
	// is deliberately not conflated with "authorized".
	ErrMaterialNotFound = errors.New("material not found")
	// ErrAccessDenied signals that the requester holds no active booking on
	// the owning program and the material is not public.
	ErrAccessDenied = errors.New("access to this material is denied")
)

// DownloadLink is the issued signed URL plus the original file name.
type DownloadLink struct {
	DownloadURL string `json:"downloadURL"`
	FileName    string `json:"fileName"`
}

// MaterialService gates access to course materials and issues signed
// download links.
type MaterialService interface {
	// Authorize decides whether the user may fetch the material: public
	// materials are open to everyone, admins see everything, and other
	// users need a Confirmed or Completed booking on the owning program.
	Authorize(ctx context.Context, user models.AuthUser, material *models.Material) (bool, error)
	// ListForProgram returns the program's materials, filtered down to
	// public ones unless the user passes the same access predicate.
	ListForProgram(ctx context.Context, user models.AuthUser, programID string) ([]models.Material, error)
	// DownloadLink authorizes the user and issues a one-hour signed URL.
	DownloadLink(ctx context.Context, user models.AuthUser, materialID string) (*DownloadLink, error)
	// Create registers an uploaded material (admin).
	Create(ctx context.Context, material *models.Material) error
	// Delete removes a material record and its stored object (admin).
	Delete(ctx context.Context, materialID string) error
}

// DefaultMaterialService is the production implementation.
type DefaultMaterialService struct {
	Repo        materialRepo.MaterialRepository
	BookingRepo bookingRepo.BookingRepository
	Storage     storage.StorageService
}

// Authorize implements the access predicate. Order matters: the public
// flag short-circuits before any role or booking lookup.
func (svc *DefaultMaterialService) Authorize(ctx context.Context, user models.AuthUser, m *models.Material) (bool, error) {
	if m.IsPublic {
		return true, nil
	}
	if user.IsAdmin() {
		return true, nil
	}
	enrolled, err := svc.BookingRepo.HasActiveBooking(ctx, user.ID, m.ProgramID)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return enrolled, nil
}

// ListForProgram applies the access predicate as a row filter: one
// enrollment check decides between the full set and the public subset.
func (svc *DefaultMaterialService) ListForProgram(ctx context.Context, user models.AuthUser, programID string) ([]models.Material, error) {
	publicOnly := true
	if user.IsAdmin() {
		publicOnly = false
	} else {
		enrolled, err := svc.BookingRepo.HasActiveBooking(ctx, user.ID, programID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		publicOnly = !enrolled
	}
	return svc.Repo.ListByProgram(ctx, programID, publicOnly)
}

// DownloadLink authorizes the request and issues a signed URL valid for
// one hour. A material without a storage reference is reported as not
// found even when it is public.
func (svc *DefaultMaterialService) DownloadLink(ctx context.Context, user models.AuthUser, materialID string) (*DownloadLink, error) {
	m, err := svc.Repo.GetByID(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up material: %w", err)
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}

	allowed, err := svc.Authorize(ctx, user, m)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	if m.StoragePath == "" {
		return nil, ErrMaterialNotFound
	}

	url, err := svc.Storage.SignedDownloadURL(ctx, m.StoragePath, downloadURLValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return &DownloadLink{DownloadURL: url, FileName: m.FileName}, nil
}

// Create registers an uploaded material.
func (svc *DefaultMaterialService) Create(ctx context.Context, m *models.Material) error {
	return svc.Repo.Create(ctx, m)
}

// Delete removes the material record and the object behind it. The stored
// object goes first so a failure leaves the record pointing at a still
// existing object rather than the other way round.
func (svc *DefaultMaterialService) Delete(ctx context.Context, materialID string) error {
	m, err := svc.Repo.GetByID(ctx, materialID)
	if err != nil {
		return fmt.Errorf("failed to look up material: %w", err)
	}
	if m == nil {
		return ErrMaterialNotFound
	}

	if m.StoragePath != "" {
		if err := svc.Storage.DeleteFile(ctx, m.StoragePath); err != nil {
			return fmt.Errorf("failed to delete stored object: %w", err)
		}
	}
	return svc.Repo.Delete(ctx, materialID)
}
