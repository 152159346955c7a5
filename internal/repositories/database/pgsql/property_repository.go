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

// PgxPropertyRepository persists properties and units in PostgreSQL.
type PgxPropertyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPropertyRepository creates a new repository for property data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{pool: pool}
}

var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

// FindPropertyByID returns the property with its units, ordered by unit number.
func (r *PgxPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `
		SELECT property_id, name, address, created_at, created_by, last_updated_at, last_updated_by
		FROM properties
		WHERE property_id = $1
	`
	var property domain.Property
	err := r.pool.QueryRow(ctx, query, propertyID).Scan(
		&property.PropertyID,
		&property.Name,
		&property.Address,
		&property.CreatedAt,
		&property.CreatedBy,
		&property.LastUpdatedAt,
		&property.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying property: %w", err)
	}

	units, err := r.findUnitsByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	property.Units = units

	return &property, nil
}

func (r *PgxPropertyRepository) findUnitsByProperty(ctx context.Context, propertyID string) ([]domain.Unit, error) {
	query := `
		SELECT unit_id, property_id, number, description, owner_name, ownership, lift_station,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM units
		WHERE property_id = $1
		ORDER BY number
	`
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("error querying units: %w", err)
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

// FindUnitByID returns a single unit.
func (r *PgxPropertyRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `
		SELECT unit_id, property_id, number, description, owner_name, ownership, lift_station,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM units
		WHERE unit_id = $1
	`
	row := r.pool.QueryRow(ctx, query, unitID)
	unit, err := scanUnit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("unit %s: %w", unitID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &unit, nil
}

// scanUnit reads one unit row and parses its fraction strings once, so
// downstream code only ever sees the parsed values.
func scanUnit(row pgx.Row) (domain.Unit, error) {
	var unit domain.Unit
	var ownership, liftStation string
	err := row.Scan(
		&unit.UnitID,
		&unit.PropertyID,
		&unit.Number,
		&unit.Description,
		&unit.OwnerName,
		&ownership,
		&liftStation,
		&unit.CreatedAt,
		&unit.CreatedBy,
		&unit.LastUpdatedAt,
		&unit.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Unit{}, err
		}
		return domain.Unit{}, fmt.Errorf("error scanning unit: %w", err)
	}

	unit.Ownership, err = domain.ParseFraction(ownership)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("stored ownership fraction for unit %s: %w", unit.UnitID, err)
	}
	unit.LiftStation, err = domain.ParseFraction(liftStation)
	if err != nil {
		return domain.Unit{}, fmt.Errorf("stored lift-station fraction for unit %s: %w", unit.UnitID, err)
	}

	return unit, nil
}

// ListProperties returns properties without their units, paginated.
func (r *PgxPropertyRepository) ListProperties(ctx context.Context, limit int, offset int) ([]domain.Property, error) {
	query := `
		SELECT property_id, name, address, created_at, created_by, last_updated_at, last_updated_by
		FROM properties
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying properties: %w", err)
	}
	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(
			&p.PropertyID,
			&p.Name,
			&p.Address,
			&p.CreatedAt,
			&p.CreatedBy,
			&p.LastUpdatedAt,
			&p.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	return properties, nil
}

// SaveProperty inserts a new property.
func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	query := `
		INSERT INTO properties (property_id, name, address, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		property.PropertyID,
		property.Name,
		property.Address,
		property.CreatedAt,
		property.CreatedBy,
		property.LastUpdatedAt,
		property.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting property: %w", err)
	}
	return nil
}

// SaveUnit inserts a new unit.
func (r *PgxPropertyRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	query := `
		INSERT INTO units (unit_id, property_id, number, description, owner_name, ownership, lift_station,
		                   created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		unit.UnitID,
		unit.PropertyID,
		unit.Number,
		unit.Description,
		unit.OwnerName,
		unit.Ownership.Raw,
		unit.LiftStation.Raw,
		unit.CreatedAt,
		unit.CreatedBy,
		unit.LastUpdatedAt,
		unit.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting unit: %w", err)
	}
	return nil
}

// UpdateUnit updates an existing unit's mutable fields.
func (r *PgxPropertyRepository) UpdateUnit(ctx context.Context, unit domain.Unit) error {
	query := `
		UPDATE units
		SET description = $2, owner_name = $3, ownership = $4, lift_station = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE unit_id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		unit.UnitID,
		unit.Description,
		unit.OwnerName,
		unit.Ownership.Raw,
		unit.LiftStation.Raw,
		unit.LastUpdatedAt,
		unit.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error updating unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unit %s: %w", unit.UnitID, apperrors.ErrNotFound)
	}
	return nil
}
