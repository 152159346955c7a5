package repositories

import (
	"context"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// ScheduleRepositoryFacade defines access to advance-payment schedules.
type ScheduleRepositoryFacade interface {
	// FindSchedule returns the unit's Hausgeld schedule for the year.
	// Returns apperrors.ErrNotFound when no schedule is configured; callers
	// treat that as a zero Soll, not as a failure.
	FindSchedule(ctx context.Context, unitID string, year int) (*domain.AdvancePaymentSchedule, error)

	// SaveSchedule persists or replaces a unit's schedule for a year.
	SaveSchedule(ctx context.Context, schedule domain.AdvancePaymentSchedule) error
}

// MeteringRepositoryFacade defines access to the externally supplied
// heating/water cost records.
type MeteringRepositoryFacade interface {
	// FindUnitCostRecord returns the unit's record for the year.
	// Returns apperrors.ErrNotFound when the provider supplied no data.
	FindUnitCostRecord(ctx context.Context, unitID string, year int) (*domain.ExternalCostRecord, error)

	// FindPropertyCostRecords returns all records for the property and year,
	// including the property-total record (empty UnitID) when present.
	FindPropertyCostRecords(ctx context.Context, propertyID string, year int) ([]domain.ExternalCostRecord, error)
}

// BalanceRepositoryFacade defines access to the monthly bank balance history.
type BalanceRepositoryFacade interface {
	// FindMonthlyBalances returns the property's monthly records for the
	// year, ordered by month. An empty slice means no history was recorded.
	FindMonthlyBalances(ctx context.Context, propertyID string, year int) ([]domain.MonthlyBalanceRecord, error)
}
