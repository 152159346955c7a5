package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/services"
)

type TaxServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCostAccountRepository
}

func (suite *TaxServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCostAccountRepository)
}

func (suite *TaxServiceTestSuite) taxAccounts() []domain.CostAccount {
	return []domain.CostAccount{
		{AccountID: "acc-1", Number: "4100", Description: "Hausmeister", Category: domain.LevyableOther, Key: domain.KeyEqual, IsActive: true, TaxDeductible: true},
		{AccountID: "acc-2", Number: "4200", Description: "Versicherung", Category: domain.LevyableOther, Key: domain.KeyOwnership, IsActive: true},
	}
}

func (suite *TaxServiceTestSuite) invoiceTxn(account string, amount, invoiceTotal, labor float64, date time.Time) domain.Transaction {
	txn := expenseTxn(account, amount, date)
	txn.Invoice = &domain.Invoice{
		InvoiceID:    "inv-" + txn.TransactionID,
		TotalAmount:  decimal.NewFromFloat(invoiceTotal),
		LaborPortion: decimal.NewFromFloat(labor),
		ServiceDate:  date,
	}
	return txn
}

func (suite *TaxServiceTestSuite) TestCalculate_WeightedLaborPercent() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(suite.taxAccounts(), nil).Once()
	service := services.NewTaxService(suite.mockRepo, nil)

	jan := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC)

	txns := []domain.Transaction{
		// 100% labor on 600, 50% labor on 400: weighted 800/1000 = 80%.
		suite.invoiceTxn("4100", 600, 600, 600, jan),
		suite.invoiceTxn("4100", 400, 400, 200, feb),
	}

	deduction, err := service.Calculate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().NoError(err)
	suite.Require().Len(deduction.Items, 1)

	item := deduction.Items[0]
	suite.Equal("4100", item.AccountNumber)
	suite.True(decimal.NewFromInt(1000).Equal(item.GroupTotal), "got %s", item.GroupTotal)
	suite.True(decimal.NewFromFloat(0.8).Equal(item.LaborPercent), "got %s", item.LaborPercent)
	// Equal split over two units: 1000×0.8/2 = 400 deductible for the unit.
	suite.True(decimal.NewFromInt(500).Equal(item.UnitCostShare), "got %s", item.UnitCostShare)
	suite.True(decimal.NewFromInt(400).Equal(item.UnitDeductible), "got %s", item.UnitDeductible)
	suite.True(decimal.NewFromInt(400).Equal(deduction.TotalDeductible))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxServiceTestSuite) TestCalculate_InvoicelessTransactionsDiluteLaborShare() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(suite.taxAccounts(), nil).Once()
	service := services.NewTaxService(suite.mockRepo, nil)

	date := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		suite.invoiceTxn("4100", 500, 500, 500, date),
		// No invoice: contributes to the denominator only, conservatively
		// lowering the labor percentage to 50%.
		expenseTxn("4100", 500, date.AddDate(0, 1, 0)),
	}

	deduction, err := service.Calculate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().NoError(err)
	suite.Require().Len(deduction.Items, 1)
	suite.True(decimal.NewFromFloat(0.5).Equal(deduction.Items[0].LaborPercent),
		"got %s", deduction.Items[0].LaborPercent)
}

func (suite *TaxServiceTestSuite) TestCalculate_ConfiguredAccountListOverridesFlag() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(suite.taxAccounts(), nil).Once()
	// 4200 is not flagged deductible in master data, but the configured
	// list takes precedence over the flag.
	service := services.NewTaxService(suite.mockRepo, []string{"4200"})

	date := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		suite.invoiceTxn("4100", 600, 600, 600, date),
		suite.invoiceTxn("4200", 300, 300, 150, date),
	}

	deduction, err := service.Calculate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().NoError(err)
	suite.Require().Len(deduction.Items, 1)
	suite.Equal("4200", deduction.Items[0].AccountNumber)
}

func (suite *TaxServiceTestSuite) TestCalculate_DirectKeyUsesUnitAssignedTransactionsOnly() {
	ctx := context.Background()
	accounts := append(suite.taxAccounts(), domain.CostAccount{
		AccountID: "acc-9", Number: "4900", Description: "Reparatur Balkon",
		Category: domain.LevyableOther, Key: domain.KeyDirect, IsActive: true, TaxDeductible: true,
	})
	suite.mockRepo.On("ListCostAccounts", ctx).Return(accounts, nil).Times(2)
	service := services.NewTaxService(suite.mockRepo, nil)

	date := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	mine := suite.invoiceTxn("4900", 100, 100, 100, date)
	mine.UnitID = "unit-1"
	other := suite.invoiceTxn("4900", 900, 900, 900, date.AddDate(0, 1, 0))
	other.UnitID = "unit-2"
	txns := []domain.Transaction{mine, other}

	deduction, err := service.Calculate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().NoError(err)
	suite.Require().Len(deduction.Items, 1)

	item := deduction.Items[0]
	suite.Equal("4900", item.AccountNumber)
	// The group shows the property-wide total, but cost and deduction carry
	// only unit-1's assignment; the other unit's repair must not leak over.
	suite.True(decimal.NewFromInt(1000).Equal(item.GroupTotal), "got %s", item.GroupTotal)
	suite.True(decimal.NewFromInt(100).Equal(item.UnitCostShare), "got %s", item.UnitCostShare)
	suite.True(decimal.NewFromInt(100).Equal(item.UnitDeductible), "got %s", item.UnitDeductible)
	suite.True(decimal.NewFromInt(100).Equal(deduction.TotalDeductible))

	// Both units together deduct exactly the group total, nothing doubled.
	otherDeduction, err := service.Calculate(ctx, txns, fixtureProperty().Units[1], fixtureProperty(), 2023)
	suite.Require().NoError(err)
	suite.Require().Len(otherDeduction.Items, 1)
	suite.True(decimal.NewFromInt(1000).Equal(
		deduction.TotalDeductible.Add(otherDeduction.TotalDeductible)))
}

func (suite *TaxServiceTestSuite) TestCalculate_NoDeductibleTransactions() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(suite.taxAccounts(), nil).Once()
	service := services.NewTaxService(suite.mockRepo, nil)

	date := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		expenseTxn("4200", 300, date), // not deductible
	}

	deduction, err := service.Calculate(ctx, txns, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().NoError(err)
	suite.Empty(deduction.Items)
	suite.True(deduction.TotalDeductible.IsZero())
}

func (suite *TaxServiceTestSuite) TestCalculate_RepositoryError() {
	ctx := context.Background()
	suite.mockRepo.On("ListCostAccounts", ctx).Return(nil, assert.AnError).Once()
	service := services.NewTaxService(suite.mockRepo, nil)

	_, err := service.Calculate(ctx, nil, fixtureUnit(), fixtureProperty(), 2023)

	suite.Require().Error(err)
}

func TestTaxServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaxServiceTestSuite))
}
