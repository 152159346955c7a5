package domain

import "github.com/shopspring/decimal"

// MonthlyBalanceRecord tracks the property bank account's movement for one
// calendar month. Informational only; the cost calculation never reads it.
type MonthlyBalanceRecord struct {
	PropertyID       string          `json:"propertyID"`
	Year             int             `json:"year"`
	Month            int             `json:"month"` // 1..12
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
	TransactionSum   decimal.Decimal `json:"transactionSum"`
	TransactionCount int             `json:"transactionCount"`
}

// BalanceSummary condenses a year of monthly records for the statement's
// account-balance trend section.
type BalanceSummary struct {
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	ClosingBalance decimal.Decimal        `json:"closingBalance"`
	NetChange      decimal.Decimal        `json:"netChange"`
	Months         []MonthlyBalanceRecord `json:"months"`
}
