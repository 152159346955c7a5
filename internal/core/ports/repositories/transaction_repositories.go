package repositories

import (
	"context"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// TransactionRepositoryFacade defines persistence operations for transactions.
// The year parameters select by calendar date range; the engine applies the
// statement-year override on top of what these return, so implementations
// must include transactions overridden into the year as well.
type TransactionRepositoryFacade interface {
	// FindForPropertyAndYear returns all transactions that belong to the
	// property's statement year, via date range or explicit override.
	FindForPropertyAndYear(ctx context.Context, propertyID string, year int) ([]domain.Transaction, error)

	// FindUnitPaymentsForYear returns the unit-linked income transactions
	// for the statement year (the Ist side of the reconciliation).
	FindUnitPaymentsForYear(ctx context.Context, unitID string, year int) ([]domain.Transaction, error)

	// SaveTransaction persists a new transaction with its optional invoice.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}
