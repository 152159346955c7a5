package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single booking line for a property. Negative amounts are
// expenses, positive amounts income or refunds. Account, Unit and Invoice
// links are optional; a transaction without an account link never reaches
// the statement engine.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	PropertyID    string          `json:"propertyID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountNumber string          `json:"accountNumber"` // FK -> CostAccount.Number, empty if uncategorized
	UnitID        string          `json:"unitID"`        // Set for direct (04*) assignments and owner payments
	Invoice       *Invoice        `json:"invoice,omitempty"`
	// YearOverride force-assigns the transaction to a statement year whose
	// range its calendar date falls outside of (e.g. a December invoice
	// paid in January). Zero means no override.
	YearOverride int `json:"yearOverride,omitempty"`
	AuditFields
}

// EffectiveYear resolves the statement year the transaction belongs to:
// the explicit override when present, otherwise the calendar year of its date.
func (t *Transaction) EffectiveYear() int {
	if t.YearOverride != 0 {
		return t.YearOverride
	}
	return t.Date.Year()
}

// IsExpense reports whether the transaction's amount flows out of the property account.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
