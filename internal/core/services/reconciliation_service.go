package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// reconciliationService compares scheduled advance payments (Soll) against
// payments actually received (Ist).
type reconciliationService struct {
	BaseService
	scheduleRepo    portsrepo.ScheduleRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewReconciliationService creates a new payment reconciler.
func NewReconciliationService(scheduleRepo portsrepo.ScheduleRepositoryFacade, transactionRepo portsrepo.TransactionRepositoryFacade) portssvc.ReconciliationSvc {
	return &reconciliationService{
		scheduleRepo:    scheduleRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// ReconcileUnit implements portssvc.ReconciliationSvc.
func (s *reconciliationService) ReconcileUnit(ctx context.Context, unit domain.Unit, year int) (domain.Reconciliation, []domain.Transaction, error) {
	soll, err := s.expectedAmount(ctx, unit.UnitID, year)
	if err != nil {
		return domain.Reconciliation{}, nil, err
	}

	payments, err := s.transactionRepo.FindUnitPaymentsForYear(ctx, unit.UnitID, year)
	if err != nil {
		return domain.Reconciliation{}, nil, fmt.Errorf("failed to load unit payments: %w", err)
	}

	ist := decimal.Zero
	received := make([]domain.Transaction, 0, len(payments))
	for _, txn := range payments {
		// Only income-direction transactions of the effective year count
		// toward the Ist side.
		if txn.EffectiveYear() != year || !txn.Amount.IsPositive() {
			continue
		}
		ist = ist.Add(txn.Amount)
		received = append(received, txn)
	}
	sort.Slice(received, func(i, j int) bool { return received[i].Date.Before(received[j].Date) })

	return buildReconciliation(soll, ist), received, nil
}

// ReconcileProperty implements portssvc.ReconciliationSvc.
func (s *reconciliationService) ReconcileProperty(ctx context.Context, property domain.Property, year int) (domain.Reconciliation, error) {
	soll, ist := decimal.Zero, decimal.Zero
	for _, unit := range property.Units {
		recon, _, err := s.ReconcileUnit(ctx, unit, year)
		if err != nil {
			return domain.Reconciliation{}, fmt.Errorf("failed to reconcile unit %s: %w", unit.UnitID, err)
		}
		soll = soll.Add(recon.Soll)
		ist = ist.Add(recon.Ist)
	}
	return buildReconciliation(soll, ist), nil
}

// expectedAmount resolves the unit's yearly Soll. A unit without a schedule
// (e.g. newly added) legitimately owes zero advance payments.
func (s *reconciliationService) expectedAmount(ctx context.Context, unitID string, year int) (decimal.Decimal, error) {
	schedule, err := s.scheduleRepo.FindSchedule(ctx, unitID, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No advance payment schedule configured, Soll is zero",
				slog.String("unit_id", unitID), slog.Int("year", year))
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to load advance payment schedule: %w", err)
	}
	return schedule.YearlyAmount(), nil
}

func buildReconciliation(soll, ist decimal.Decimal) domain.Reconciliation {
	differenz := ist.Sub(soll)
	status := domain.Surplus
	if differenz.IsNegative() {
		status = domain.Shortfall
	}
	return domain.Reconciliation{
		Soll:      soll,
		Ist:       ist,
		Differenz: differenz,
		Status:    status,
	}
}

// Settle computes the final statement balance. The advance-payment Soll
// cancels out of (costs − soll) + (ist − soll); what remains is
// costs − ist. Positive means the owner still owes money.
func Settle(unitTotalCosts, ist decimal.Decimal) domain.Settlement {
	saldo := unitTotalCosts.Sub(ist)
	result := domain.BackPayment
	if saldo.IsNegative() {
		result = domain.CreditOwed
	}
	return domain.Settlement{Saldo: saldo, Result: result}
}
