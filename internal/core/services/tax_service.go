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

// taxService derives the §35a EStG deductible labor-cost portion from the
// invoice metadata attached to transactions.
type taxService struct {
	BaseService
	accountRepo portsrepo.CostAccountRepositoryFacade
	// deductibleNumbers is the configured set of account numbers whose
	// costs qualify for §35a. Immutable after construction.
	deductibleNumbers map[string]bool
}

// NewTaxService creates a new tax deduction calculator. deductibleAccounts
// comes from static configuration; when empty, accounts flagged TaxDeductible
// in the master data qualify instead.
func NewTaxService(accountRepo portsrepo.CostAccountRepositoryFacade, deductibleAccounts []string) portssvc.TaxDeductionSvc {
	numbers := make(map[string]bool, len(deductibleAccounts))
	for _, n := range deductibleAccounts {
		numbers[n] = true
	}
	return &taxService{accountRepo: accountRepo, deductibleNumbers: numbers}
}

var _ portssvc.TaxDeductionSvc = (*taxService)(nil)

// taxGroup accumulates one deductible account's transactions.
// The direct* fields are only used for 04* accounts and hold the portion
// of the group explicitly assigned to the unit being calculated.
type taxGroup struct {
	account domain.CostAccount
	// total follows the aggregator's sign convention: expenses positive.
	total decimal.Decimal
	// laborWeighted is Σ(invoice labor ratio × |amount|); transactions
	// without an invoice contribute to absSum only, which conservatively
	// lowers the labor percentage.
	laborWeighted decimal.Decimal
	absSum        decimal.Decimal

	directTotal         decimal.Decimal
	directLaborWeighted decimal.Decimal
	directAbsSum        decimal.Decimal
}

// Calculate implements portssvc.TaxDeductionSvc.
func (s *taxService) Calculate(ctx context.Context, txns []domain.Transaction, unit domain.Unit, property domain.Property, year int) (domain.TaxDeduction, error) {
	accounts, err := s.accountRepo.ListCostAccounts(ctx)
	if err != nil {
		return domain.TaxDeduction{}, fmt.Errorf("failed to load cost accounts: %w", err)
	}

	index := make(map[string]domain.CostAccount, len(accounts))
	for _, a := range accounts {
		index[a.Number] = a
	}

	groups := make(map[string]*taxGroup)
	for _, txn := range txns {
		if txn.EffectiveYear() != year {
			continue
		}
		account, ok := index[txn.AccountNumber]
		if !ok || !account.IsActive || !s.isDeductible(account) {
			continue
		}

		g, ok := groups[account.Number]
		if !ok {
			g = &taxGroup{
				account:             account,
				total:               decimal.Zero,
				laborWeighted:       decimal.Zero,
				absSum:              decimal.Zero,
				directTotal:         decimal.Zero,
				directLaborWeighted: decimal.Zero,
				directAbsSum:        decimal.Zero,
			}
			groups[account.Number] = g
		}

		abs := txn.Amount.Abs()
		g.total = g.total.Sub(txn.Amount)
		g.absSum = g.absSum.Add(abs)
		if txn.Invoice != nil {
			g.laborWeighted = g.laborWeighted.Add(txn.Invoice.LaborRatio().Mul(abs))
		}

		if account.Key == domain.KeyDirect && txn.UnitID == unit.UnitID {
			g.directTotal = g.directTotal.Sub(txn.Amount)
			g.directAbsSum = g.directAbsSum.Add(abs)
			if txn.Invoice != nil {
				g.directLaborWeighted = g.directLaborWeighted.Add(txn.Invoice.LaborRatio().Mul(abs))
			}
		}
	}

	numbers := make([]string, 0, len(groups))
	for number := range groups {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	deduction := domain.TaxDeduction{
		Items:           make([]domain.TaxDeductionItem, 0, len(groups)),
		TotalDeductible: decimal.Zero,
	}

	for _, number := range numbers {
		g := groups[number]

		laborPercent := decimal.Zero
		if !g.absSum.IsZero() {
			laborPercent = g.laborWeighted.Div(g.absSum)
		}

		var costShare, deductibleShare decimal.Decimal
		if g.account.Key == domain.KeyDirect {
			// Pre-attributed to the unit in the loop above; the distribution
			// formula passes the total through and would hand every unit the
			// whole group.
			unitLaborPercent := decimal.Zero
			if !g.directAbsSum.IsZero() {
				unitLaborPercent = g.directLaborWeighted.Div(g.directAbsSum)
			}
			costShare = g.directTotal
			deductibleShare = g.directTotal.Mul(unitLaborPercent)
		} else {
			deductibleAmount := g.total.Mul(laborPercent)

			var err error
			costShare, err = allocation.ShareFor(g.total, g.account.Key, unit, property)
			if err != nil {
				if isFatalDistributionErr(err) {
					return domain.TaxDeduction{}, err
				}
				s.LogWarn(ctx, "Distribution failed for deductible account, skipping",
					slog.String("account_number", number), slog.String("error", err.Error()))
				continue
			}
			deductibleShare, err = allocation.ShareFor(deductibleAmount, g.account.Key, unit, property)
			if err != nil {
				if isFatalDistributionErr(err) {
					return domain.TaxDeduction{}, err
				}
				s.LogWarn(ctx, "Distribution failed for deductible amount, skipping",
					slog.String("account_number", number), slog.String("error", err.Error()))
				continue
			}
		}

		deduction.Items = append(deduction.Items, domain.TaxDeductionItem{
			AccountNumber:  g.account.Number,
			Description:    g.account.Description,
			GroupTotal:     g.total,
			LaborPercent:   laborPercent,
			UnitCostShare:  costShare,
			UnitDeductible: deductibleShare,
		})
		deduction.TotalDeductible = deduction.TotalDeductible.Add(deductibleShare)
	}

	return deduction, nil
}

func (s *taxService) isDeductible(account domain.CostAccount) bool {
	if len(s.deductibleNumbers) > 0 {
		return s.deductibleNumbers[account.Number]
	}
	return account.TaxDeductible
}
