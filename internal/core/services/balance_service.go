package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// balanceService condenses the property account's monthly balance history.
// Informational only; the cost calculation never depends on it.
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceRepositoryFacade
}

// NewBalanceService creates a new balance tracker.
func NewBalanceService(balanceRepo portsrepo.BalanceRepositoryFacade) portssvc.BalanceSvc {
	return &balanceService{balanceRepo: balanceRepo}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// Summarize implements portssvc.BalanceSvc. Returns nil when no monthly
// records exist so the statement omits the balance-trend section.
func (s *balanceService) Summarize(ctx context.Context, propertyID string, year int) (*domain.BalanceSummary, error) {
	months, err := s.balanceRepo.FindMonthlyBalances(ctx, propertyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly balances: %w", err)
	}
	if len(months) == 0 {
		return nil, nil
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	summary := &domain.BalanceSummary{
		OpeningBalance: months[0].OpeningBalance,
		ClosingBalance: months[len(months)-1].ClosingBalance,
		NetChange:      decimal.Zero,
		Months:         months,
	}
	summary.NetChange = summary.ClosingBalance.Sub(summary.OpeningBalance)
	return summary, nil
}
