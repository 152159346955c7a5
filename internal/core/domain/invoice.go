package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice carries the supplier invoice metadata attached to a transaction.
// LaborPortion is the Lohn-/Fahrtkosten component relevant for the §35a EStG
// deduction; it never exceeds TotalAmount.
type Invoice struct {
	InvoiceID    string          `json:"invoiceID"`
	TotalAmount  decimal.Decimal `json:"totalAmount"` // Gross, including VAT
	LaborPortion decimal.Decimal `json:"laborPortion"`
	ServiceDate  time.Time       `json:"serviceDate"`
}

// LaborRatio returns LaborPortion/TotalAmount, or zero for a zero-total invoice.
func (i *Invoice) LaborRatio() decimal.Decimal {
	if i.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return i.LaborPortion.Div(i.TotalAmount)
}
