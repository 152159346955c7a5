// Package renderer turns a computed statement snapshot into its output
// documents. All formats consume the same domain.StatementData; every number
// shown is taken from the computed structures, never re-derived here.
package renderer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary value in German notation with two decimal
// places: period thousands separator, comma decimal separator (1.234,56).
// Rounding happens here and nowhere earlier in the calculation.
func FormatAmount(value decimal.Decimal) string {
	fixed := value.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatPercent renders a 0..1 ratio as a German percentage with two
// decimal places, e.g. 0.425 -> "42,50 %".
func FormatPercent(ratio decimal.Decimal) string {
	return FormatAmount(ratio.Mul(decimal.NewFromInt(100))) + " %"
}

// FormatEuro appends the currency symbol to a formatted amount.
func FormatEuro(value decimal.Decimal) string {
	return FormatAmount(value) + " €"
}
