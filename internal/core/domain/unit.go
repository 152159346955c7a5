package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// mea values given without a denominator are interpreted against /1000.
var defaultFractionBase = decimal.NewFromInt(1000)

// Fraction is an ownership or allocation share parsed once at load time
// from its stored "N/D" string representation. Raw keeps the original
// string for display on the statement.
type Fraction struct {
	Raw   string          `json:"raw"`
	Value decimal.Decimal `json:"value"`
}

// ParseFraction parses a share string of the form "N/D" into a decimal value.
// A bare number without a slash is read as N/1000 (common German MEA notation).
// The empty string yields a zero fraction and no error.
func ParseFraction(raw string) (Fraction, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Fraction{}, nil
	}

	numStr, denStr, found := strings.Cut(trimmed, "/")
	num, err := decimal.NewFromString(strings.TrimSpace(numStr))
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid fraction numerator in %q: %w", raw, err)
	}

	den := defaultFractionBase
	if found {
		den, err = decimal.NewFromString(strings.TrimSpace(denStr))
		if err != nil {
			return Fraction{}, fmt.Errorf("invalid fraction denominator in %q: %w", raw, err)
		}
	}
	if den.IsZero() {
		return Fraction{}, fmt.Errorf("fraction %q has zero denominator", raw)
	}

	return Fraction{Raw: trimmed, Value: num.Div(den)}, nil
}

// IsZero reports whether the fraction carries no share.
func (f Fraction) IsZero() bool {
	return f.Value.IsZero()
}

// Unit represents a single ownership unit (Wohnung, Stellplatz, ...) within a property.
type Unit struct {
	UnitID      string `json:"unitID"`
	PropertyID  string `json:"propertyID"`
	Number      string `json:"number"`
	Description string `json:"description"`
	OwnerName   string `json:"ownerName"`
	// Ownership is the MEA share of this unit, parsed at load time.
	Ownership Fraction `json:"ownership"`
	// LiftStation is the optional share in the sewage lift station;
	// units without a lift station connection carry a zero fraction.
	LiftStation Fraction `json:"liftStation"`
	AuditFields
}
