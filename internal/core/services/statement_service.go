package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// minStatementYear and maxStatementYear bound plausible statement years.
const (
	minStatementYear = 1990
	maxStatementYear = 2100
)

// statementService orchestrates the full statement computation: it reads the
// transaction snapshot once per (unit, year) and feeds every section from it.
type statementService struct {
	BaseService
	propertyRepo    portsrepo.PropertyRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	scheduleRepo    portsrepo.ScheduleRepositoryFacade
	aggregator      portssvc.CostAggregatorSvc
	external        portssvc.ExternalCostSvc
	reconciler      portssvc.ReconciliationSvc
	tax             portssvc.TaxDeductionSvc
	balance         portssvc.BalanceSvc
	renderers       map[domain.StatementFormat]portssvc.StatementRenderer
	projection      *projectionConfig
}

// projectionConfig holds the statically configured next-year plan figures.
type projectionConfig struct {
	plannedCosts   decimal.Decimal
	monthlyAdvance decimal.Decimal
	note           string
}

// StatementServiceOption is a functional option for configuring the statement service.
type StatementServiceOption func(*statementService)

// WithBudgetProjection enables the optional next-year budget section with
// the given planned figures from static configuration.
func WithBudgetProjection(plannedCosts, monthlyAdvance decimal.Decimal, note string) StatementServiceOption {
	return func(s *statementService) {
		s.projection = &projectionConfig{
			plannedCosts:   plannedCosts,
			monthlyAdvance: monthlyAdvance,
			note:           note,
		}
	}
}

// NewStatementService creates the statement engine's outward facade.
func NewStatementService(
	propertyRepo portsrepo.PropertyRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	aggregator portssvc.CostAggregatorSvc,
	external portssvc.ExternalCostSvc,
	reconciler portssvc.ReconciliationSvc,
	tax portssvc.TaxDeductionSvc,
	balance portssvc.BalanceSvc,
	renderers map[domain.StatementFormat]portssvc.StatementRenderer,
	options ...StatementServiceOption,
) portssvc.StatementSvcFacade {
	svc := &statementService{
		propertyRepo:    propertyRepo,
		transactionRepo: transactionRepo,
		scheduleRepo:    scheduleRepo,
		aggregator:      aggregator,
		external:        external,
		reconciler:      reconciler,
		tax:             tax,
		balance:         balance,
		renderers:       renderers,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// Validate implements portssvc.StatementSvcFacade.
func (s *statementService) Validate(ctx context.Context, unitID string, year int) ([]domain.ValidationIssue, error) {
	issues := make([]domain.ValidationIssue, 0, 4)

	if year < minStatementYear || year > maxStatementYear {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			Field:    "year",
			Message:  fmt.Sprintf("year %d outside plausible range %d-%d", year, minStatementYear, maxStatementYear),
		})
	}

	unit, err := s.propertyRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", unitID, err)
	}

	if unit.PropertyID == "" {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			Field:    "propertyID",
			Message:  "unit is not linked to a property",
		})
	} else if _, err := s.propertyRepo.FindPropertyByID(ctx, unit.PropertyID); err != nil {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			Field:    "propertyID",
			Message:  fmt.Sprintf("linked property %s could not be loaded: %v", unit.PropertyID, err),
		})
	}

	if unit.Ownership.IsZero() {
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityError,
			Field:    "ownership",
			Message:  "unit has no ownership fraction (MEA)",
		})
	}

	if _, err := s.scheduleRepo.FindSchedule(ctx, unitID, year); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load advance payment schedule: %w", err)
		}
		// Degrades to a zero Soll during generation; still worth surfacing.
		issues = append(issues, domain.ValidationIssue{
			Severity: domain.SeverityWarning,
			Field:    "advancePayments",
			Message:  fmt.Sprintf("no advance payment schedule configured for %d", year),
		})
	}

	return issues, nil
}

// GenerateStatement implements portssvc.StatementSvcFacade.
func (s *statementService) GenerateStatement(ctx context.Context, unitID string, year int, format domain.StatementFormat) ([]byte, error) {
	issues, err := s.Validate(ctx, unitID, year)
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		if issue.Severity == domain.SeverityError {
			return nil, fmt.Errorf("%w: %s: %s", ErrValidationFailed, issue.Field, issue.Message)
		}
	}

	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	data, err := s.computeStatement(ctx, unitID, year)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}

	s.LogInfo(ctx, "Statement generated",
		slog.String("unit_id", unitID),
		slog.Int("year", year),
		slog.String("format", string(format)),
		slog.Int("size_bytes", len(output)))
	return output, nil
}

// GenerateForProperty implements portssvc.StatementSvcFacade. Units are
// processed concurrently; the engine holds no shared mutable state and each
// worker reads its own data snapshot.
func (s *statementService) GenerateForProperty(ctx context.Context, propertyID string, year int, format domain.StatementFormat) ([]domain.UnitStatementOutcome, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	outcomes := make([]domain.UnitStatementOutcome, len(property.Units))
	var wg sync.WaitGroup
	for i, unit := range property.Units {
		wg.Add(1)
		go func(i int, unit domain.Unit) {
			defer wg.Done()
			outcome := domain.UnitStatementOutcome{
				UnitID:     unit.UnitID,
				UnitNumber: unit.Number,
				OwnerName:  unit.OwnerName,
			}
			output, err := s.GenerateStatement(ctx, unit.UnitID, year, format)
			if err != nil {
				// One failing unit must not block the rest of the batch.
				outcome.Err = err.Error()
			} else {
				outcome.Output = output
			}
			outcomes[i] = outcome
		}(i, unit)
	}
	wg.Wait()

	return outcomes, nil
}

// computeStatement assembles the full data snapshot for one (unit, year).
// All sections are fed from the same transaction list so the statement's
// numbers cannot drift apart if the underlying data changes mid-run.
func (s *statementService) computeStatement(ctx context.Context, unitID string, year int) (*domain.StatementData, error) {
	unit, err := s.propertyRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", unitID, err)
	}
	property, err := s.propertyRepo.FindPropertyByID(ctx, unit.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", unit.PropertyID, err)
	}

	txns, err := s.transactionRepo.FindForPropertyAndYear(ctx, property.PropertyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	costs, err := s.aggregator.Summarize(ctx, txns, *unit, *property, year)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate costs: %w", err)
	}

	external, err := s.external.Resolve(ctx, *unit, *property, year)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve external costs: %w", err)
	}

	recon, payments, err := s.reconciler.ReconcileUnit(ctx, *unit, year)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile unit payments: %w", err)
	}
	propertyRecon, err := s.reconciler.ReconcileProperty(ctx, *property, year)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile property payments: %w", err)
	}

	tax, err := s.tax.Calculate(ctx, txns, *unit, *property, year)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate tax deduction: %w", err)
	}

	balance, err := s.balance.Summarize(ctx, property.PropertyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize balances: %w", err)
	}

	data := &domain.StatementData{
		Property:       *property,
		Unit:           *unit,
		Year:           year,
		Costs:          costs,
		External:       external,
		Reconciliation: recon,
		PropertyRecon:  propertyRecon,
		Settlement:     Settle(costs.UnitTotalCosts, recon.Ist),
		Payments:       payments,
		Tax:            tax,
		Balance:        balance,
	}

	if s.projection != nil {
		data.Projection = &domain.BudgetProjection{
			Year:           year + 1,
			PlannedCosts:   s.projection.plannedCosts,
			MonthlyAdvance: s.projection.monthlyAdvance,
			Note:           s.projection.note,
		}
	}

	return data, nil
}
