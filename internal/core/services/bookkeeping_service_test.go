package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
)

type BookkeepingServiceTestSuite struct {
	suite.Suite
	mockAccounts  *MockCostAccountRepository
	mockTxns      *MockTransactionRepository
	mockSchedules *MockScheduleRepository
	mockProps     *MockPropertyRepository
	service       portssvc.BookkeepingSvcFacade
}

func (suite *BookkeepingServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockCostAccountRepository)
	suite.mockTxns = new(MockTransactionRepository)
	suite.mockSchedules = new(MockScheduleRepository)
	suite.mockProps = new(MockPropertyRepository)
	suite.service = services.NewBookkeepingService(
		suite.mockAccounts, suite.mockTxns, suite.mockSchedules, suite.mockProps)
}

func (suite *BookkeepingServiceTestSuite) TestCreateCostAccount_NormalizesKeyCode() {
	ctx := context.Background()
	req := dto.CreateCostAccountRequest{
		Number:      "4100",
		Description: "Hausmeister",
		Category:    "LEVYABLE_OTHER",
		KeyCode:     "03 Einheiten",
	}

	suite.mockAccounts.On("FindCostAccountByNumber", ctx, "4100").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccounts.On("SaveCostAccount", ctx, mock.MatchedBy(func(a domain.CostAccount) bool {
		return a.Number == "4100" && a.Key == domain.KeyEqual && a.IsActive
	})).Return(nil).Once()

	account, err := suite.service.CreateCostAccount(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.KeyEqual, account.Key)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *BookkeepingServiceTestSuite) TestCreateCostAccount_Duplicate() {
	ctx := context.Background()
	existing := &domain.CostAccount{AccountID: "acc-1", Number: "4100"}
	suite.mockAccounts.On("FindCostAccountByNumber", ctx, "4100").Return(existing, nil).Once()

	_, err := suite.service.CreateCostAccount(ctx, dto.CreateCostAccountRequest{
		Number: "4100", Description: "X", Category: "LEVYABLE_OTHER", KeyCode: "03",
	}, "admin")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveCostAccount", mock.Anything, mock.Anything)
}

func (suite *BookkeepingServiceTestSuite) TestCreateCostAccount_UnknownKeyCode() {
	ctx := context.Background()

	_, err := suite.service.CreateCostAccount(ctx, dto.CreateCostAccountRequest{
		Number: "4100", Description: "X", Category: "LEVYABLE_OTHER", KeyCode: "99",
	}, "admin")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BookkeepingServiceTestSuite) TestRecordTransaction_WithInvoice() {
	ctx := context.Background()
	property := fixtureProperty()
	suite.mockProps.On("FindPropertyByID", ctx, property.PropertyID).Return(&property, nil).Once()
	suite.mockAccounts.On("FindCostAccountByNumber", ctx, "4100").
		Return(&domain.CostAccount{AccountID: "acc-1", Number: "4100"}, nil).Once()

	req := dto.CreateTransactionRequest{
		Date:          "2023-03-15",
		Description:   "Gartenpflege März",
		Amount:        decimal.NewFromFloat(-240.00),
		AccountNumber: "4100",
		Invoice: &dto.InvoicePayload{
			TotalAmount:  decimal.NewFromFloat(240.00),
			LaborPortion: decimal.NewFromFloat(180.00),
			ServiceDate:  "2023-03-10",
		},
	}

	suite.mockTxns.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.PropertyID == property.PropertyID &&
			t.Invoice != nil &&
			t.Invoice.LaborPortion.Equal(decimal.NewFromFloat(180.00)) &&
			t.Date.Year() == 2023 && t.Date.Month() == 3
	})).Return(nil).Once()

	txn, err := suite.service.RecordTransaction(ctx, property.PropertyID, req, "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(txn.Invoice)
	suite.NotEmpty(txn.Invoice.InvoiceID)
	suite.mockTxns.AssertExpectations(suite.T())
}

func (suite *BookkeepingServiceTestSuite) TestRecordTransaction_LaborExceedsTotal() {
	ctx := context.Background()
	property := fixtureProperty()
	suite.mockProps.On("FindPropertyByID", ctx, property.PropertyID).Return(&property, nil).Once()

	req := dto.CreateTransactionRequest{
		Date:        "2023-03-15",
		Description: "Kaputte Rechnung",
		Amount:      decimal.NewFromFloat(-100),
		Invoice: &dto.InvoicePayload{
			TotalAmount:  decimal.NewFromInt(100),
			LaborPortion: decimal.NewFromInt(150),
			ServiceDate:  "2023-03-10",
		},
	}

	_, err := suite.service.RecordTransaction(ctx, property.PropertyID, req, "admin")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxns.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *BookkeepingServiceTestSuite) TestRecordTransaction_InvalidDate() {
	ctx := context.Background()
	property := fixtureProperty()
	suite.mockProps.On("FindPropertyByID", ctx, property.PropertyID).Return(&property, nil).Once()

	_, err := suite.service.RecordTransaction(ctx, property.PropertyID, dto.CreateTransactionRequest{
		Date:        "15.03.2023",
		Description: "Falsches Datumsformat",
		Amount:      decimal.NewFromInt(-10),
	}, "admin")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *BookkeepingServiceTestSuite) TestSetAdvancePaymentSchedule() {
	ctx := context.Background()
	unit := fixtureUnit()
	suite.mockProps.On("FindUnitByID", ctx, unit.UnitID).Return(&unit, nil).Once()

	override := decimal.NewFromInt(2800)
	req := dto.SetScheduleRequest{
		Year:           2023,
		MonthlyAmount:  decimal.NewFromInt(250),
		YearlyOverride: &override,
	}

	suite.mockSchedules.On("SaveSchedule", ctx, mock.MatchedBy(func(s domain.AdvancePaymentSchedule) bool {
		return s.UnitID == unit.UnitID && s.Year == 2023 &&
			s.YearlyOverride != nil && s.YearlyOverride.Equal(override)
	})).Return(nil).Once()

	err := suite.service.SetAdvancePaymentSchedule(ctx, unit.UnitID, req)

	suite.Require().NoError(err)
	suite.mockSchedules.AssertExpectations(suite.T())
}

func TestBookkeepingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookkeepingServiceTestSuite))
}
