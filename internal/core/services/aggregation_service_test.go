package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/services"
)

// --- Mock CostAccountRepository ---
type MockCostAccountRepository struct {
	mock.Mock
}

func (m *MockCostAccountRepository) ListCostAccounts(ctx context.Context) ([]domain.CostAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostAccount), args.Error(1)
}

func (m *MockCostAccountRepository) FindCostAccountByNumber(ctx context.Context, number string) (*domain.CostAccount, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostAccount), args.Error(1)
}

func (m *MockCostAccountRepository) SaveCostAccount(ctx context.Context, account domain.CostAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Shared fixtures ---

func mustParseFraction(raw string) domain.Fraction {
	f, err := domain.ParseFraction(raw)
	if err != nil {
		panic(err)
	}
	return f
}

func fixtureUnit() domain.Unit {
	return domain.Unit{
		UnitID:     "unit-1",
		PropertyID: "prop-1",
		Number:     "WE 01",
		OwnerName:  "Familie Schmidt",
		Ownership:  mustParseFraction("500/1000"),
	}
}

func fixtureProperty() domain.Property {
	return domain.Property{
		PropertyID: "prop-1",
		Name:       "WEG Musterstraße 1",
		Units: []domain.Unit{
			fixtureUnit(),
			{
				UnitID:     "unit-2",
				PropertyID: "prop-1",
				Number:     "WE 02",
				OwnerName:  "Familie Meyer",
				Ownership:  mustParseFraction("500/1000"),
			},
		},
	}
}

func fixtureAccounts() []domain.CostAccount {
	return []domain.CostAccount{
		{AccountID: "acc-1", Number: "4100", Description: "Hausmeister", Category: domain.LevyableOther, Key: domain.KeyEqual, IsActive: true},
		{AccountID: "acc-2", Number: "4200", Description: "Versicherung", Category: domain.LevyableOther, Key: domain.KeyOwnership, IsActive: true},
		{AccountID: "acc-3", Number: "4300", Description: "Heizkosten", Category: domain.LevyableHeating, Key: domain.KeyExternalHeating, IsActive: true},
		{AccountID: "acc-4", Number: "5100", Description: "Verwaltung", Category: domain.NonLevyable, Key: domain.KeyEqual, IsActive: true},
		{AccountID: "acc-5", Number: "6100", Description: "Zuführung Rücklage", Category: domain.ReserveContribution, Key: domain.KeyOwnership, IsActive: true},
		{AccountID: "acc-6", Number: "7100", Description: "Hausgeld", Category: domain.Income, Key: domain.KeyOwnership, IsActive: true},
		{AccountID: "acc-7", Number: "4400", Description: "Reparatur WE 01", Category: domain.LevyableOther, Key: domain.KeyDirect, IsActive: true},
	}
}

func expenseTxn(account string, amount float64, date time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: account + "-" + date.Format("20060102"),
		PropertyID:    "prop-1",
		Date:          date,
		Description:   "Buchung " + account,
		Amount:        decimal.NewFromFloat(-amount),
		AccountNumber: account,
	}
}

// --- Test Suite ---
type AggregationServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCostAccountRepository
	service  portssvc.CostAggregatorSvc
}

func (suite *AggregationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCostAccountRepository)
	suite.service = services.NewAggregationService(suite.mockRepo)
}

func (suite *AggregationServiceTestSuite) TestAggregate_GroupsAndDistributes() {
	ctx := context.Background()
	jan := time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
	jul := time.Date(2023, time.July, 3, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Once()

	txns := []domain.Transaction{
		expenseTxn("4100", 600, jan),
		expenseTxn("4100", 400, jul),
		expenseTxn("4200", 1000, jan),
	}

	groups, err := suite.service.Aggregate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023,
		[]domain.LegalCategory{domain.LevyableHeating, domain.LevyableOther})

	suite.Require().NoError(err)
	suite.Require().Len(groups, 2)

	// Ordered by account number.
	suite.Equal("4100", groups[0].AccountNumber)
	suite.Equal(2, groups[0].TransactionCount)
	suite.True(decimal.NewFromInt(1000).Equal(groups[0].Total), "got %s", groups[0].Total)
	// Equal split over two units.
	suite.True(decimal.NewFromInt(500).Equal(groups[0].UnitShare), "got %s", groups[0].UnitShare)

	suite.Equal("4200", groups[1].AccountNumber)
	suite.True(decimal.NewFromInt(1000).Equal(groups[1].Total))
	// 500/1000 MEA.
	suite.True(decimal.NewFromInt(500).Equal(groups[1].UnitShare))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AggregationServiceTestSuite) TestAggregate_RefundsReduceGroupTotal() {
	ctx := context.Background()
	date := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Once()

	refund := expenseTxn("4100", 0, date)
	refund.Amount = decimal.NewFromInt(200) // positive booking on an expense account

	txns := []domain.Transaction{
		expenseTxn("4100", 1000, date),
		refund,
	}

	groups, err := suite.service.Aggregate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023,
		[]domain.LegalCategory{domain.LevyableOther})

	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	suite.True(decimal.NewFromInt(800).Equal(groups[0].Total), "got %s", groups[0].Total)
}

func (suite *AggregationServiceTestSuite) TestAggregate_SkipsIrrelevantTransactions() {
	ctx := context.Background()
	date := time.Date(2023, time.May, 5, 0, 0, 0, 0, time.UTC)

	accounts := fixtureAccounts()
	accounts = append(accounts, domain.CostAccount{
		AccountID: "acc-8", Number: "4500", Description: "Stillgelegt",
		Category: domain.LevyableOther, Key: domain.KeyEqual, IsActive: false,
	})
	suite.mockRepo.On("ListCostAccounts", ctx).Return(accounts, nil).Once()

	wrongYear := expenseTxn("4100", 100, time.Date(2022, time.May, 5, 0, 0, 0, 0, time.UTC))
	unknownAccount := expenseTxn("9999", 100, date)
	inactive := expenseTxn("4500", 100, date)
	income := expenseTxn("7100", 100, date)
	externalHeating := expenseTxn("4300", 100, date)

	groups, err := suite.service.Aggregate(ctx,
		[]domain.Transaction{wrongYear, unknownAccount, inactive, income, externalHeating},
		fixtureUnit(), fixtureProperty(), 2023,
		[]domain.LegalCategory{domain.LevyableHeating, domain.LevyableOther})

	suite.Require().NoError(err)
	suite.Empty(groups)
}

func (suite *AggregationServiceTestSuite) TestAggregate_YearOverridePullsTransactionIn() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Once()

	txn := expenseTxn("4100", 300, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC))
	txn.YearOverride = 2023

	groups, err := suite.service.Aggregate(ctx, []domain.Transaction{txn},
		fixtureUnit(), fixtureProperty(), 2023, []domain.LegalCategory{domain.LevyableOther})

	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	suite.True(decimal.NewFromInt(300).Equal(groups[0].Total))
}

func (suite *AggregationServiceTestSuite) TestAggregate_DirectAssignmentOnlyCountsOwnUnit() {
	ctx := context.Background()
	date := time.Date(2023, time.August, 20, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Once()

	mine := expenseTxn("4400", 450, date)
	mine.UnitID = "unit-1"
	other := expenseTxn("4400", 300, date.AddDate(0, 1, 0))
	other.UnitID = "unit-2"

	groups, err := suite.service.Aggregate(ctx, []domain.Transaction{mine, other},
		fixtureUnit(), fixtureProperty(), 2023, []domain.LegalCategory{domain.LevyableOther})

	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	// The group shows the property-wide total but only unit-1's assignment.
	suite.True(decimal.NewFromInt(750).Equal(groups[0].Total), "got %s", groups[0].Total)
	suite.True(decimal.NewFromInt(450).Equal(groups[0].UnitShare), "got %s", groups[0].UnitShare)
}

func (suite *AggregationServiceTestSuite) TestAggregate_BadAccountDegradesToNote() {
	ctx := context.Background()
	date := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)

	accounts := fixtureAccounts()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(accounts, nil).Once()

	unit := fixtureUnit()
	unit.Ownership = mustParseFraction("1500/1000") // malformed MEA share

	groups, err := suite.service.Aggregate(ctx,
		[]domain.Transaction{expenseTxn("4100", 200, date), expenseTxn("4200", 1000, date)},
		unit, fixtureProperty(), 2023, []domain.LegalCategory{domain.LevyableOther})

	suite.Require().NoError(err)
	suite.Require().Len(groups, 2)

	// The equal-split group is unaffected.
	suite.Equal("4100", groups[0].AccountNumber)
	suite.Empty(groups[0].Note)

	// The MEA group degrades to a zero share with a note instead of
	// failing the whole statement.
	suite.Equal("4200", groups[1].AccountNumber)
	suite.True(groups[1].UnitShare.IsZero())
	suite.NotEmpty(groups[1].Note)
}

func (suite *AggregationServiceTestSuite) TestAggregate_NoUnitsIsFatal() {
	ctx := context.Background()
	date := time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Once()

	emptyProperty := domain.Property{PropertyID: "prop-1"}

	_, err := suite.service.Aggregate(ctx,
		[]domain.Transaction{expenseTxn("4100", 200, date)},
		fixtureUnit(), emptyProperty, 2023, []domain.LegalCategory{domain.LevyableOther})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoUnits)
}

func (suite *AggregationServiceTestSuite) TestSummarize_ReserveExcludedFromTotals() {
	ctx := context.Background()
	date := time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC)
	// Summarize loads the account index once for all three category passes.
	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Once()

	txns := []domain.Transaction{
		expenseTxn("4100", 1000, date), // levy-able, equal split
		expenseTxn("5100", 400, date),  // non-levy-able, equal split
		expenseTxn("6100", 2400, date), // reserve contribution
	}

	summary, err := suite.service.Summarize(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().NoError(err)
	suite.Len(summary.LevyableGroups, 1)
	suite.Len(summary.NonLevyableGroups, 1)
	suite.Len(summary.ReserveGroups, 1)

	// 1000 + 400, reserve never enters the totals.
	suite.True(decimal.NewFromInt(1400).Equal(summary.TotalCosts), "got %s", summary.TotalCosts)
	suite.True(decimal.NewFromInt(700).Equal(summary.UnitTotalCosts), "got %s", summary.UnitTotalCosts)
	// The unit's reserve share is still reported separately.
	suite.True(decimal.NewFromInt(1200).Equal(summary.UnitReserveShare), "got %s", summary.UnitReserveShare)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AggregationServiceTestSuite) TestSummarize_Idempotent() {
	ctx := context.Background()
	date := time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("ListCostAccounts", ctx).Return(fixtureAccounts(), nil).Times(2)

	txns := []domain.Transaction{
		expenseTxn("4100", 1000, date),
		expenseTxn("4200", 750.33, date),
	}

	first, err := suite.service.Summarize(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)
	suite.Require().NoError(err)
	second, err := suite.service.Summarize(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)
	suite.Require().NoError(err)

	suite.True(first.TotalCosts.Equal(second.TotalCosts))
	suite.True(first.UnitTotalCosts.Equal(second.UnitTotalCosts))
	suite.Equal(len(first.LevyableGroups), len(second.LevyableGroups))
}

func (suite *AggregationServiceTestSuite) TestAggregate_RepositoryError() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(nil, assert.AnError).Once()

	_, err := suite.service.Aggregate(ctx, nil, fixtureUnit(), fixtureProperty(), 2023,
		[]domain.LegalCategory{domain.LevyableOther})

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

func TestAggregationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AggregationServiceTestSuite))
}
