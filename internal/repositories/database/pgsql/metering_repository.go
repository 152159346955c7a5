package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
)

// PgxMeteringRepository reads the externally supplied heating/water cost
// records. The records are imported by an upstream process; this repository
// never writes them.
type PgxMeteringRepository struct {
	pool *pgxpool.Pool
}

// newPgxMeteringRepository creates a new repository for metering data.
func newPgxMeteringRepository(pool *pgxpool.Pool) portsrepo.MeteringRepositoryFacade {
	return &PgxMeteringRepository{pool: pool}
}

var _ portsrepo.MeteringRepositoryFacade = (*PgxMeteringRepository)(nil)

// FindUnitCostRecord returns the unit's record for the year.
func (r *PgxMeteringRepository) FindUnitCostRecord(ctx context.Context, unitID string, year int) (*domain.ExternalCostRecord, error) {
	query := `
		SELECT record_id, property_id, COALESCE(unit_id, ''), year, heating_cost, water_cost
		FROM external_cost_records
		WHERE unit_id = $1 AND year = $2
	`
	var record domain.ExternalCostRecord
	err := r.pool.QueryRow(ctx, query, unitID, year).Scan(
		&record.RecordID,
		&record.PropertyID,
		&record.UnitID,
		&record.Year,
		&record.HeatingCost,
		&record.WaterCost,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("metering record for unit %s year %d: %w", unitID, year, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying metering record: %w", err)
	}
	return &record, nil
}

// FindPropertyCostRecords returns all records for the property and year,
// including the property-total record (empty UnitID) when present.
func (r *PgxMeteringRepository) FindPropertyCostRecords(ctx context.Context, propertyID string, year int) ([]domain.ExternalCostRecord, error) {
	query := `
		SELECT record_id, property_id, COALESCE(unit_id, ''), year, heating_cost, water_cost
		FROM external_cost_records
		WHERE property_id = $1 AND year = $2
		ORDER BY unit_id NULLS FIRST
	`
	rows, err := r.pool.Query(ctx, query, propertyID, year)
	if err != nil {
		return nil, fmt.Errorf("error querying metering records: %w", err)
	}
	defer rows.Close()

	records := []domain.ExternalCostRecord{}
	for rows.Next() {
		var record domain.ExternalCostRecord
		if err := rows.Scan(
			&record.RecordID,
			&record.PropertyID,
			&record.UnitID,
			&record.Year,
			&record.HeatingCost,
			&record.WaterCost,
		); err != nil {
			return nil, fmt.Errorf("error scanning metering record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metering records: %w", err)
	}

	return records, nil
}
