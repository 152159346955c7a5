// Package allocation implements the distribution formulas that split a
// property-wide cost total into per-unit shares. The functions here are
// pure; all data access and grouping happens in the services layer.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

var one = decimal.NewFromInt(1)

// ShareFor computes a unit's share of totalCost under the given distribution key.
//
// Sign conventions and pre-attribution rules:
//   - 03: totalCost / unit count; a property without units is fatal.
//   - 05: totalCost × ownership fraction.
//   - 06: totalCost × lift-station fraction; units without a lift-station
//     share contribute zero, which is not an error.
//   - 04: the aggregator pre-filters transactions to the unit, so totalCost
//     already is the unit's amount and passes through unchanged.
//   - 01/02: shares come from the external sub-metering records; this
//     function returns zero for them.
//
// Division results stay unrounded; rounding happens at presentation time.
func ShareFor(totalCost decimal.Decimal, key domain.DistributionKey, unit domain.Unit, property domain.Property) (decimal.Decimal, error) {
	switch key {
	case domain.KeyEqual:
		count := property.UnitCount()
		if count == 0 {
			return decimal.Zero, fmt.Errorf("equal split for account with key %s: %w", key, apperrors.ErrNoUnits)
		}
		return totalCost.Div(decimal.NewFromInt(int64(count))), nil

	case domain.KeyOwnership:
		if err := validateOwnership(unit.Ownership); err != nil {
			return decimal.Zero, err
		}
		return totalCost.Mul(unit.Ownership.Value), nil

	case domain.KeyLiftStation:
		// Many units have no lift-station connection; a missing share is
		// a legitimate zero, not a configuration error.
		if unit.LiftStation.IsZero() {
			return decimal.Zero, nil
		}
		return totalCost.Mul(unit.LiftStation.Value), nil

	case domain.KeyDirect:
		return totalCost, nil

	case domain.KeyExternalHeating, domain.KeyExternalWater:
		return decimal.Zero, nil

	default:
		return decimal.Zero, fmt.Errorf("%w: unknown distribution key %q", apperrors.ErrValidation, key)
	}
}

// validateOwnership rejects ownership fractions outside [0,1].
func validateOwnership(f domain.Fraction) error {
	if f.Value.IsNegative() || f.Value.GreaterThan(one) {
		return fmt.Errorf("%w: ownership fraction %s outside [0,1]", apperrors.ErrValidation, f.Value.String())
	}
	return nil
}
