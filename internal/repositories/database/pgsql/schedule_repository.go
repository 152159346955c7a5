package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
)

// PgxScheduleRepository persists advance-payment schedules in PostgreSQL.
type PgxScheduleRepository struct {
	pool *pgxpool.Pool
}

// newPgxScheduleRepository creates a new repository for schedule data.
func newPgxScheduleRepository(pool *pgxpool.Pool) portsrepo.ScheduleRepositoryFacade {
	return &PgxScheduleRepository{pool: pool}
}

var _ portsrepo.ScheduleRepositoryFacade = (*PgxScheduleRepository)(nil)

// FindSchedule returns the unit's schedule for the year.
func (r *PgxScheduleRepository) FindSchedule(ctx context.Context, unitID string, year int) (*domain.AdvancePaymentSchedule, error) {
	query := `
		SELECT unit_id, year, monthly_amount, yearly_override
		FROM advance_payment_schedules
		WHERE unit_id = $1 AND year = $2
	`
	var schedule domain.AdvancePaymentSchedule
	var yearlyOverride *decimal.Decimal
	err := r.pool.QueryRow(ctx, query, unitID, year).Scan(
		&schedule.UnitID,
		&schedule.Year,
		&schedule.MonthlyAmount,
		&yearlyOverride,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("schedule for unit %s year %d: %w", unitID, year, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying schedule: %w", err)
	}
	schedule.YearlyOverride = yearlyOverride

	return &schedule, nil
}

// SaveSchedule inserts or replaces a unit's schedule for a year.
func (r *PgxScheduleRepository) SaveSchedule(ctx context.Context, schedule domain.AdvancePaymentSchedule) error {
	query := `
		INSERT INTO advance_payment_schedules (unit_id, year, monthly_amount, yearly_override)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (unit_id, year)
		DO UPDATE SET monthly_amount = EXCLUDED.monthly_amount, yearly_override = EXCLUDED.yearly_override
	`
	_, err := r.pool.Exec(ctx, query,
		schedule.UnitID,
		schedule.Year,
		schedule.MonthlyAmount,
		schedule.YearlyOverride,
	)
	if err != nil {
		return fmt.Errorf("error saving schedule: %w", err)
	}
	return nil
}
