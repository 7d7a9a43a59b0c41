package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	programRepo "coursebook/database/repository/program"
	sessionRepo "coursebook/database/repository/session"
	"coursebook/models"
)

var (
	// ErrProgramNotFound signals that no program matches the given ID.
	ErrProgramNotFound = errors.New("program not found")
	// ErrNoFields signals an update request that supplied nothing to change.
	ErrNoFields = errors.New("no fields to update")
)

// CatalogService manages the program/session catalog. Create and update
// operations are admin-only; listing is public.
type CatalogService interface {
	CreateProgram(ctx context.Context, req models.CreateProgramRequest) (*models.Program, error)
	UpdateProgram(ctx context.Context, id string, req models.UpdateProgramRequest) (*models.Program, error)
	DeleteProgram(ctx context.Context, id string) error
	GetProgram(ctx context.Context, id string) (*models.Program, error)
	ListPrograms(ctx context.Context) ([]models.Program, error)
	// CreateSession schedules a session under an existing program; the
	// capacity counter starts at zero occupied seats.
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error)
	ListSessions(ctx context.Context, programID string) ([]models.Session, error)
}

// DefaultCatalogService is the production implementation. Cache is
// optional; nil disables listing caching.
type DefaultCatalogService struct {
	Programs programRepo.ProgramRepository
	Sessions sessionRepo.SessionRepository
	Cache    ListingCache
}

func (svc *DefaultCatalogService) CreateProgram(ctx context.Context, req models.CreateProgramRequest) (*models.Program, error) {
	p := &models.Program{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Level:         req.Level,
		DurationWeeks: req.DurationWeeks,
		Date:          req.Date,
		Time:          req.Time,
		Price:         req.Price,
		Seats:         req.Seats,
		Icon:          req.Icon,
		Topics:        req.Topics,
		Requirements:  req.Requirements,
	}
	if err := svc.Programs.Create(ctx, p); err != nil {
		return nil, err
	}
	if svc.Cache != nil {
		svc.Cache.Invalidate(ctx)
	}
	return p, nil
}

// UpdateProgram applies only the supplied fields. An empty request maps to
// ErrNoFields so the handler can answer with a "no fields" message instead
// of a write.
func (svc *DefaultCatalogService) UpdateProgram(ctx context.Context, id string, req models.UpdateProgramRequest) (*models.Program, error) {
	if req.IsEmpty() {
		return nil, ErrNoFields
	}

	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if req.DurationWeeks != nil {
		fields["duration_weeks"] = *req.DurationWeeks
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if req.Time != nil {
		fields["time"] = *req.Time
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Seats != nil {
		fields["seats"] = *req.Seats
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
	}
	if req.Topics != nil {
		fields["topics"] = *req.Topics
	}
	if req.Requirements != nil {
		fields["requirements"] = *req.Requirements
	}

	updated, err := svc.Programs.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrProgramNotFound
	}
	if svc.Cache != nil {
		svc.Cache.Invalidate(ctx)
	}
	return updated, nil
}

// DeleteProgram removes a program from the catalog.
func (svc *DefaultCatalogService) DeleteProgram(ctx context.Context, id string) error {
	p, err := svc.Programs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProgramNotFound
	}
	if err := svc.Programs.Delete(ctx, id); err != nil {
		return err
	}
	if svc.Cache != nil {
		svc.Cache.Invalidate(ctx)
	}
	return nil
}

func (svc *DefaultCatalogService) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	p, err := svc.Programs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProgramNotFound
	}
	return p, nil
}

// ListPrograms serves the public listing through the cache when one is
// configured.
func (svc *DefaultCatalogService) ListPrograms(ctx context.Context) ([]models.Program, error) {
	if svc.Cache != nil {
		if programs, ok := svc.Cache.GetPrograms(ctx); ok {
			return programs, nil
		}
	}
	programs, err := svc.Programs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if svc.Cache != nil {
		svc.Cache.SetPrograms(ctx, programs)
	}
	return programs, nil
}

func (svc *DefaultCatalogService) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	program, err := svc.Programs.GetByID(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}
	if !end.After(start) {
		return nil, errors.New("end_time must be after start_time")
	}

	s := &models.Session{
		ID:              uuid.New().String(),
		ProgramID:       req.ProgramID,
		StartTime:       start,
		EndTime:         end,
		CurrentCapacity: 0,
		MaxCapacity:     req.MaxCapacity,
	}
	if err := svc.Sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (svc *DefaultCatalogService) ListSessions(ctx context.Context, programID string) ([]models.Session, error) {
	return svc.Sessions.ListByProgram(ctx, programID)
}
