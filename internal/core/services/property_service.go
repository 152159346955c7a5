package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
)

// propertyService manages properties and their units.
type propertyService struct {
	BaseService
	propertyRepo portsrepo.PropertyRepositoryFacade
}

// NewPropertyService creates a new property service.
func NewPropertyService(propertyRepo portsrepo.PropertyRepositoryFacade) portssvc.PropertySvcFacade {
	return &propertyService{propertyRepo: propertyRepo}
}

var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

// CreateProperty implements portssvc.PropertySvcFacade.
func (s *propertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, creatorUserID string) (*domain.Property, error) {
	now := time.Now()
	property := domain.Property{
		PropertyID: uuid.NewString(),
		Name:       req.Name,
		Address:    req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		s.LogError(ctx, err, "Failed to save property", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save property: %w", err)
	}

	s.LogInfo(ctx, "Property created", slog.String("property_id", property.PropertyID))
	return &property, nil
}

// GetPropertyByID implements portssvc.PropertySvcFacade.
func (s *propertyService) GetPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	return s.propertyRepo.FindPropertyByID(ctx, propertyID)
}

// ListProperties implements portssvc.PropertySvcFacade.
func (s *propertyService) ListProperties(ctx context.Context, limit int, offset int) ([]domain.Property, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.propertyRepo.ListProperties(ctx, limit, offset)
}

// AddUnit implements portssvc.PropertySvcFacade. The ownership and
// lift-station fraction strings are parsed once here; computation code
// only ever sees the parsed values.
func (s *propertyService) AddUnit(ctx context.Context, propertyID string, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	ownership, err := domain.ParseFraction(req.Ownership)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	liftStation, err := domain.ParseFraction(req.LiftStation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now()
	unit := domain.Unit{
		UnitID:      uuid.NewString(),
		PropertyID:  propertyID,
		Number:      req.Number,
		Description: req.Description,
		OwnerName:   req.OwnerName,
		Ownership:   ownership,
		LiftStation: liftStation,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.propertyRepo.SaveUnit(ctx, unit); err != nil {
		s.LogError(ctx, err, "Failed to save unit", slog.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to save unit: %w", err)
	}

	s.LogInfo(ctx, "Unit created", slog.String("unit_id", unit.UnitID), slog.String("property_id", propertyID))
	return &unit, nil
}

// UpdateUnit implements portssvc.PropertySvcFacade.
func (s *propertyService) UpdateUnit(ctx context.Context, unitID string, req dto.UpdateUnitRequest, updaterUserID string) (*domain.Unit, error) {
	unit, err := s.propertyRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", unitID, err)
	}

	if req.Description != nil {
		unit.Description = *req.Description
	}
	if req.OwnerName != nil {
		unit.OwnerName = *req.OwnerName
	}
	if req.Ownership != nil {
		ownership, err := domain.ParseFraction(*req.Ownership)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		unit.Ownership = ownership
	}
	if req.LiftStation != nil {
		liftStation, err := domain.ParseFraction(*req.LiftStation)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		unit.LiftStation = liftStation
	}

	unit.LastUpdatedAt = time.Now()
	unit.LastUpdatedBy = updaterUserID

	if err := s.propertyRepo.UpdateUnit(ctx, *unit); err != nil {
		s.LogError(ctx, err, "Failed to update unit", slog.String("unit_id", unitID))
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	return unit, nil
}
