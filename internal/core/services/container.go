package services

import (
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// NewContainer creates the service container with properly initialized
// dependencies. The renderer set and statement options come from main so
// the container stays free of configuration concerns.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	renderers map[domain.StatementFormat]portssvc.StatementRenderer,
	deductibleAccounts []string,
	statementOptions ...StatementServiceOption,
) *portssvc.ServiceContainer {
	aggregator := NewAggregationService(repos.CostAccountRepo)
	external := NewExternalCostService(repos.MeteringRepo)
	reconciler := NewReconciliationService(repos.ScheduleRepo, repos.TransactionRepo)
	tax := NewTaxService(repos.CostAccountRepo, deductibleAccounts)
	balance := NewBalanceService(repos.BalanceRepo)

	return &portssvc.ServiceContainer{
		Property: NewPropertyService(repos.PropertyRepo),
		Bookkeeping: NewBookkeepingService(
			repos.CostAccountRepo,
			repos.TransactionRepo,
			repos.ScheduleRepo,
			repos.PropertyRepo,
		),
		Statement: NewStatementService(
			repos.PropertyRepo,
			repos.TransactionRepo,
			repos.ScheduleRepo,
			aggregator,
			external,
			reconciler,
			tax,
			balance,
			renderers,
			statementOptions...,
		),
	}
}
