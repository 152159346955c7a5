package services

import (
	"context"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// CostAggregatorSvc groups a year's transactions by cost account and applies
// the distribution formulas to produce per-unit statement lines.
type CostAggregatorSvc interface {
	// Aggregate returns the cost groups for the given legal categories,
	// ordered by account number. Per-group distribution failures are
	// recorded on the group's Note with a zero share; they do not fail
	// the aggregation.
	Aggregate(ctx context.Context, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int, categories []domain.LegalCategory) ([]domain.CostGroup, error)

	// Summarize computes the full cost view of a unit's statement:
	// levy-able, non-levy-able and reserve groups plus the headline totals.
	// Reserve contributions never enter the totals.
	Summarize(ctx context.Context, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int) (domain.CostSummary, error)
}

// ExternalCostSvc resolves the externally metered heating and water shares.
type ExternalCostSvc interface {
	// Resolve returns the unit's and the property's heating/water view for
	// the year. Missing metering data degrades to all-zero values.
	Resolve(ctx context.Context, unit domain.Unit, property domain.Property, year int) (domain.ExternalCosts, error)
}

// ReconciliationSvc compares scheduled advance payments against payments received.
type ReconciliationSvc interface {
	// ReconcileUnit returns the unit's Soll/Ist view for the year together
	// with the payment transactions backing the Ist side.
	ReconcileUnit(ctx context.Context, unit domain.Unit, year int) (domain.Reconciliation, []domain.Transaction, error)

	// ReconcileProperty sums Soll and Ist across all units of the property.
	ReconcileProperty(ctx context.Context, property domain.Property, year int) (domain.Reconciliation, error)
}

// TaxDeductionSvc derives the §35a deductible labor-cost portion.
type TaxDeductionSvc interface {
	// Calculate returns the unit's deductible items and total for the
	// already-snapshotted year of transactions.
	Calculate(ctx context.Context, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int) (domain.TaxDeduction, error)
}

// BalanceSvc condenses the bank account's monthly history for the report.
type BalanceSvc interface {
	// Summarize returns nil without error when no history was recorded,
	// so the statement can omit the balance-trend section.
	Summarize(ctx context.Context, propertyID string, year int) (*domain.BalanceSummary, error)
}

// StatementRenderer turns one computed statement snapshot into an output document.
type StatementRenderer interface {
	Render(data *domain.StatementData) ([]byte, error)
}

// StatementSvcFacade is the outward entry point of the statement engine.
// Callers must run Validate before GenerateStatement; generation refuses to
// proceed on error-grade findings.
type StatementSvcFacade interface {
	// Validate surfaces missing ownership fractions, missing property
	// linkage and invalid years before a potentially expensive generation.
	Validate(ctx context.Context, unitID string, year int) ([]domain.ValidationIssue, error)

	// GenerateStatement computes and renders one unit's annual statement.
	GenerateStatement(ctx context.Context, unitID string, year int, format domain.StatementFormat) ([]byte, error)

	// GenerateForProperty generates statements for every unit of the
	// property. Units fail independently; one failing unit never aborts
	// the batch.
	GenerateForProperty(ctx context.Context, propertyID string, year int, format domain.StatementFormat) ([]domain.UnitStatementOutcome, error)
}
