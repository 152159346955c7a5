package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/utils/allocation"
)

// aggregationService groups transactions by cost account and distributes
// each group's total onto the unit being calculated.
type aggregationService struct {
	BaseService
	accountRepo portsrepo.CostAccountRepositoryFacade
}

// NewAggregationService creates a new cost aggregator.
func NewAggregationService(accountRepo portsrepo.CostAccountRepositoryFacade) portssvc.CostAggregatorSvc {
	return &aggregationService{accountRepo: accountRepo}
}

var _ portssvc.CostAggregatorSvc = (*aggregationService)(nil)

// groupAccumulator collects one cost account's transactions.
// directShare is only used for 04* accounts and holds the portion of the
// group explicitly assigned to the unit being calculated.
type groupAccumulator struct {
	account     domain.CostAccount
	total       decimal.Decimal
	directShare decimal.Decimal
	count       int
}

// Aggregate implements portssvc.CostAggregatorSvc.
func (s *aggregationService) Aggregate(ctx context.Context, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int, categories []domain.LegalCategory) ([]domain.CostGroup, error) {
	accounts, err := s.loadAccountIndex(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, accounts, txns, unit, property, year, categories)
}

// Summarize implements portssvc.CostAggregatorSvc.
func (s *aggregationService) Summarize(ctx context.Context, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int) (domain.CostSummary, error) {
	accounts, err := s.loadAccountIndex(ctx)
	if err != nil {
		return domain.CostSummary{}, err
	}

	levyable, err := s.aggregate(ctx, accounts, txns, unit, property, year, []domain.LegalCategory{domain.LevyableHeating, domain.LevyableOther})
	if err != nil {
		return domain.CostSummary{}, err
	}
	nonLevyable, err := s.aggregate(ctx, accounts, txns, unit, property, year, []domain.LegalCategory{domain.NonLevyable})
	if err != nil {
		return domain.CostSummary{}, err
	}
	reserve, err := s.aggregate(ctx, accounts, txns, unit, property, year, []domain.LegalCategory{domain.ReserveContribution})
	if err != nil {
		return domain.CostSummary{}, err
	}

	summary := domain.CostSummary{
		LevyableGroups:    levyable,
		NonLevyableGroups: nonLevyable,
		ReserveGroups:     reserve,
		TotalCosts:        decimal.Zero,
		UnitTotalCosts:    decimal.Zero,
		UnitReserveShare:  decimal.Zero,
	}

	// Reserve contributions are shown on the statement but stay out of the
	// total costs used for the balance (BGH V ZR 44/09).
	for _, g := range levyable {
		summary.TotalCosts = summary.TotalCosts.Add(g.Total)
		summary.UnitTotalCosts = summary.UnitTotalCosts.Add(g.UnitShare)
	}
	for _, g := range nonLevyable {
		summary.TotalCosts = summary.TotalCosts.Add(g.Total)
		summary.UnitTotalCosts = summary.UnitTotalCosts.Add(g.UnitShare)
	}
	for _, g := range reserve {
		summary.UnitReserveShare = summary.UnitReserveShare.Add(g.UnitShare)
	}

	return summary, nil
}

// loadAccountIndex fetches all cost accounts keyed by account number.
func (s *aggregationService) loadAccountIndex(ctx context.Context) (map[string]domain.CostAccount, error) {
	accounts, err := s.accountRepo.ListCostAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost accounts: %w", err)
	}
	index := make(map[string]domain.CostAccount, len(accounts))
	for _, a := range accounts {
		index[a.Number] = a
	}
	return index, nil
}

func (s *aggregationService) aggregate(ctx context.Context, accounts map[string]domain.CostAccount, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int, categories []domain.LegalCategory) ([]domain.CostGroup, error) {
	inCategory := make(map[domain.LegalCategory]bool, len(categories))
	for _, c := range categories {
		inCategory[c] = true
	}

	groups := make(map[string]*groupAccumulator)
	for _, txn := range txns {
		if txn.EffectiveYear() != year {
			continue
		}
		account, ok := accounts[txn.AccountNumber]
		if !ok {
			continue
		}
		if !account.IsActive || account.Category == domain.Income || !inCategory[account.Category] {
			continue
		}
		// Heating and water shares come pre-attributed from the external
		// sub-metering records; aggregating them here would count them twice.
		if account.Key.IsExternal() {
			continue
		}

		g, ok := groups[account.Number]
		if !ok {
			g = &groupAccumulator{account: account, total: decimal.Zero, directShare: decimal.Zero}
			groups[account.Number] = g
		}

		// Expenses are negative bookings and accumulate as positive cost;
		// refunds and corrections subtract. A net-negative group is valid.
		g.total = g.total.Sub(txn.Amount)
		g.count++

		if account.Key == domain.KeyDirect && txn.UnitID == unit.UnitID {
			g.directShare = g.directShare.Sub(txn.Amount)
		}
	}

	numbers := make([]string, 0, len(groups))
	for number := range groups {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	result := make([]domain.CostGroup, 0, len(groups))
	for _, number := range numbers {
		g := groups[number]
		costGroup := domain.CostGroup{
			AccountNumber:    g.account.Number,
			Description:      g.account.Description,
			Category:         g.account.Category,
			Key:              g.account.Key,
			Total:            g.total,
			TransactionCount: g.count,
		}

		if g.account.Key == domain.KeyDirect {
			// Pre-filtered to the unit above; no distribution formula applies.
			costGroup.UnitShare = g.directShare
		} else {
			share, err := allocation.ShareFor(g.total, g.account.Key, unit, property)
			switch {
			case err == nil:
				costGroup.UnitShare = share
			case isFatalDistributionErr(err):
				// A property without units cannot produce any statement.
				return nil, err
			default:
				// One malformed cost account must not block the whole
				// statement: emit the group with a zero share and a note.
				s.LogWarn(ctx, "Distribution failed for cost account, emitting zero share",
					slog.String("account_number", g.account.Number),
					slog.String("error", err.Error()))
				costGroup.UnitShare = decimal.Zero
				costGroup.Note = fmt.Sprintf("Verteilung fehlgeschlagen: %v", err)
			}
		}

		result = append(result, costGroup)
	}

	return result, nil
}
