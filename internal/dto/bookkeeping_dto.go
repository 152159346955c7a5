package dto

import (
	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// CreateCostAccountRequest is the payload for creating a cost account.
// Category must be one of the legal categories, KeyCode the stored "0N*"
// distribution key code.
type CreateCostAccountRequest struct {
	Number        string `json:"number" binding:"required"`
	Description   string `json:"description" binding:"required"`
	Category      string `json:"category" binding:"required,oneof=LEVYABLE_HEATING LEVYABLE_OTHER NON_LEVYABLE RESERVE_CONTRIBUTION INCOME"`
	KeyCode       string `json:"distributionKey" binding:"required"`
	TaxDeductible bool   `json:"taxDeductible"`
}

// InvoicePayload is the optional invoice metadata on a transaction.
type InvoicePayload struct {
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"required"`
	LaborPortion decimal.Decimal `json:"laborPortion"`
	ServiceDate  string          `json:"serviceDate" binding:"required"` // YYYY-MM-DD
}

// CreateTransactionRequest is the payload for recording a transaction.
// Negative amounts are expenses, positive amounts income or refunds.
type CreateTransactionRequest struct {
	Date          string          `json:"date" binding:"required"` // YYYY-MM-DD
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	AccountNumber string          `json:"accountNumber"`
	UnitID        string          `json:"unitID"`
	YearOverride  int             `json:"yearOverride"`
	Invoice       *InvoicePayload `json:"invoice,omitempty"`
}

// SetScheduleRequest configures a unit's advance-payment schedule for a year.
type SetScheduleRequest struct {
	Year           int              `json:"year" binding:"required"`
	MonthlyAmount  decimal.Decimal  `json:"monthlyAmount"`
	YearlyOverride *decimal.Decimal `json:"yearlyOverride,omitempty"`
}

// CostAccountResponse is the transport representation of a cost account.
type CostAccountResponse struct {
	AccountID     string `json:"accountID"`
	Number        string `json:"number"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Key           string `json:"distributionKey"`
	IsActive      bool   `json:"isActive"`
	TaxDeductible bool   `json:"taxDeductible"`
}

// ToCostAccountResponse maps a domain cost account to its transport form.
func ToCostAccountResponse(a domain.CostAccount) CostAccountResponse {
	return CostAccountResponse{
		AccountID:     a.AccountID,
		Number:        a.Number,
		Description:   a.Description,
		Category:      string(a.Category),
		Key:           string(a.Key),
		IsActive:      a.IsActive,
		TaxDeductible: a.TaxDeductible,
	}
}

// TransactionResponse is the transport representation of a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	PropertyID    string          `json:"propertyID"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountNumber string          `json:"accountNumber,omitempty"`
	UnitID        string          `json:"unitID,omitempty"`
	YearOverride  int             `json:"yearOverride,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its transport form.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		PropertyID:    t.PropertyID,
		Date:          t.Date.Format("2006-01-02"),
		Description:   t.Description,
		Amount:        t.Amount,
		AccountNumber: t.AccountNumber,
		UnitID:        t.UnitID,
		YearOverride:  t.YearOverride,
	}
}
