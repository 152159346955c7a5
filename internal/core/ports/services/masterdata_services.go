package services

import (
	"context"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
)

// PropertySvcFacade defines operations on properties and their units.
type PropertySvcFacade interface {
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, creatorUserID string) (*domain.Property, error)
	GetPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)
	ListProperties(ctx context.Context, limit int, offset int) ([]domain.Property, error)
	AddUnit(ctx context.Context, propertyID string, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error)
	UpdateUnit(ctx context.Context, unitID string, req dto.UpdateUnitRequest, updaterUserID string) (*domain.Unit, error)
}

// BookkeepingSvcFacade defines operations on the engine's upstream master
// data: cost accounts, transactions and advance-payment schedules.
type BookkeepingSvcFacade interface {
	CreateCostAccount(ctx context.Context, req dto.CreateCostAccountRequest, creatorUserID string) (*domain.CostAccount, error)
	ListCostAccounts(ctx context.Context) ([]domain.CostAccount, error)
	RecordTransaction(ctx context.Context, propertyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
	SetAdvancePaymentSchedule(ctx context.Context, unitID string, req dto.SetScheduleRequest) error
}
