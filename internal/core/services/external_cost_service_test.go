package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/services"
)

// --- Mock MeteringRepository ---
type MockMeteringRepository struct {
	mock.Mock
}

func (m *MockMeteringRepository) FindUnitCostRecord(ctx context.Context, unitID string, year int) (*domain.ExternalCostRecord, error) {
	args := m.Called(ctx, unitID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalCostRecord), args.Error(1)
}

func (m *MockMeteringRepository) FindPropertyCostRecords(ctx context.Context, propertyID string, year int) ([]domain.ExternalCostRecord, error) {
	args := m.Called(ctx, propertyID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalCostRecord), args.Error(1)
}

// --- Test Suite ---
type ExternalCostServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMeteringRepository
	service  portssvc.ExternalCostSvc
}

func (suite *ExternalCostServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMeteringRepository)
	suite.service = services.NewExternalCostService(suite.mockRepo)
}

func (suite *ExternalCostServiceTestSuite) TestResolve_UnitAndPropertyTotals() {
	ctx := context.Background()
	unit := fixtureUnit()
	property := fixtureProperty()

	suite.mockRepo.On("FindUnitCostRecord", ctx, unit.UnitID, 2023).Return(&domain.ExternalCostRecord{
		RecordID:    "rec-1",
		PropertyID:  property.PropertyID,
		UnitID:      unit.UnitID,
		Year:        2023,
		HeatingCost: decimal.NewFromFloat(823.11),
		WaterCost:   decimal.NewFromFloat(312.44),
	}, nil).Once()

	suite.mockRepo.On("FindPropertyCostRecords", ctx, property.PropertyID, 2023).Return([]domain.ExternalCostRecord{
		// Dedicated property-total row wins over summing unit rows.
		{RecordID: "rec-0", PropertyID: property.PropertyID, UnitID: "", Year: 2023,
			HeatingCost: decimal.NewFromInt(2000), WaterCost: decimal.NewFromInt(800)},
		{RecordID: "rec-1", PropertyID: property.PropertyID, UnitID: unit.UnitID, Year: 2023,
			HeatingCost: decimal.NewFromFloat(823.11), WaterCost: decimal.NewFromFloat(312.44)},
	}, nil).Once()

	external, err := suite.service.Resolve(ctx, unit, property, 2023)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromFloat(823.11).Equal(external.HeatingUnitShare))
	suite.True(decimal.NewFromFloat(312.44).Equal(external.WaterUnitShare))
	suite.True(decimal.NewFromInt(2000).Equal(external.HeatingTotal))
	suite.True(decimal.NewFromInt(800).Equal(external.WaterTotal))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ExternalCostServiceTestSuite) TestResolve_TotalsSummedWithoutTotalRow() {
	ctx := context.Background()
	unit := fixtureUnit()
	property := fixtureProperty()

	suite.mockRepo.On("FindUnitCostRecord", ctx, unit.UnitID, 2023).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindPropertyCostRecords", ctx, property.PropertyID, 2023).Return([]domain.ExternalCostRecord{
		{RecordID: "rec-1", UnitID: "unit-1", HeatingCost: decimal.NewFromInt(600), WaterCost: decimal.NewFromInt(200)},
		{RecordID: "rec-2", UnitID: "unit-2", HeatingCost: decimal.NewFromInt(400), WaterCost: decimal.NewFromInt(100)},
	}, nil).Once()

	external, err := suite.service.Resolve(ctx, unit, property, 2023)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(1000).Equal(external.HeatingTotal), "got %s", external.HeatingTotal)
	suite.True(decimal.NewFromInt(300).Equal(external.WaterTotal), "got %s", external.WaterTotal)
}

func (suite *ExternalCostServiceTestSuite) TestResolve_MissingDataDegradesToZero() {
	ctx := context.Background()
	unit := fixtureUnit()
	property := fixtureProperty()

	suite.mockRepo.On("FindUnitCostRecord", ctx, unit.UnitID, 2023).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindPropertyCostRecords", ctx, property.PropertyID, 2023).
		Return(nil, apperrors.ErrNotFound).Once()

	external, err := suite.service.Resolve(ctx, unit, property, 2023)

	suite.Require().NoError(err)
	suite.True(external.IsZero())
}

func (suite *ExternalCostServiceTestSuite) TestResolve_RepositoryErrorPropagates() {
	ctx := context.Background()
	unit := fixtureUnit()

	suite.mockRepo.On("FindUnitCostRecord", ctx, unit.UnitID, 2023).
		Return(nil, assert.AnError).Once()

	_, err := suite.service.Resolve(ctx, unit, fixtureProperty(), 2023)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

func TestExternalCostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExternalCostServiceTestSuite))
}
