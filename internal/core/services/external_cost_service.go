package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// externalCostService resolves the heating/water shares supplied by the
// external sub-metering provider (keys 01* and 02*).
type externalCostService struct {
	BaseService
	meteringRepo portsrepo.MeteringRepositoryFacade
}

// NewExternalCostService creates a new external cost resolver.
func NewExternalCostService(meteringRepo portsrepo.MeteringRepositoryFacade) portssvc.ExternalCostSvc {
	return &externalCostService{meteringRepo: meteringRepo}
}

var _ portssvc.ExternalCostSvc = (*externalCostService)(nil)

// Resolve implements portssvc.ExternalCostSvc. Metering data is optional:
// a unit or property without records for the year yields zero values so the
// statement shrinks instead of failing.
func (s *externalCostService) Resolve(ctx context.Context, unit domain.Unit, property domain.Property, year int) (domain.ExternalCosts, error) {
	result := domain.ExternalCosts{
		HeatingTotal:     decimal.Zero,
		HeatingUnitShare: decimal.Zero,
		WaterTotal:       decimal.Zero,
		WaterUnitShare:   decimal.Zero,
	}

	unitRecord, err := s.meteringRepo.FindUnitCostRecord(ctx, unit.UnitID, year)
	switch {
	case err == nil:
		result.HeatingUnitShare = unitRecord.HeatingCost
		result.WaterUnitShare = unitRecord.WaterCost
	case errors.Is(err, apperrors.ErrNotFound):
		s.LogDebug(ctx, "No unit metering record, heating/water shares degrade to zero",
			slog.String("unit_id", unit.UnitID), slog.Int("year", year))
	default:
		return domain.ExternalCosts{}, fmt.Errorf("failed to load unit metering record: %w", err)
	}

	records, err := s.meteringRepo.FindPropertyCostRecords(ctx, property.PropertyID, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return result, nil
		}
		return domain.ExternalCosts{}, fmt.Errorf("failed to load property metering records: %w", err)
	}

	// Prefer the dedicated property-total record; sum the per-unit shares
	// when the provider did not deliver one.
	var totalFound bool
	heatingSum, waterSum := decimal.Zero, decimal.Zero
	for _, record := range records {
		if record.UnitID == "" {
			result.HeatingTotal = record.HeatingCost
			result.WaterTotal = record.WaterCost
			totalFound = true
			continue
		}
		heatingSum = heatingSum.Add(record.HeatingCost)
		waterSum = waterSum.Add(record.WaterCost)
	}
	if !totalFound {
		result.HeatingTotal = heatingSum
		result.WaterTotal = waterSum
	}

	return result, nil
}
