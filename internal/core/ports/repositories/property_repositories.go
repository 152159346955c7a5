package repositories

import (
	"context"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// PropertyRepositoryFacade defines persistence operations for properties and units.
type PropertyRepositoryFacade interface {
	// FindPropertyByID returns the property with its units, ordered by unit number.
	// Returns apperrors.ErrNotFound if no such property exists.
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// FindUnitByID returns a single unit.
	// Returns apperrors.ErrNotFound if no such unit exists.
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	// ListProperties returns properties without their units, paginated.
	ListProperties(ctx context.Context, limit int, offset int) ([]domain.Property, error)

	// SaveProperty persists a new property.
	SaveProperty(ctx context.Context, property domain.Property) error

	// SaveUnit persists a new unit for an existing property.
	SaveUnit(ctx context.Context, unit domain.Unit) error

	// UpdateUnit updates an existing unit's mutable fields.
	UpdateUnit(ctx context.Context, unit domain.Unit) error
}

// CostAccountRepositoryFacade defines persistence operations for cost accounts.
type CostAccountRepositoryFacade interface {
	// ListCostAccounts returns all cost accounts, ordered by account number.
	ListCostAccounts(ctx context.Context) ([]domain.CostAccount, error)

	// FindCostAccountByNumber returns a single cost account.
	// Returns apperrors.ErrNotFound if no such account exists.
	FindCostAccountByNumber(ctx context.Context, number string) (*domain.CostAccount, error)

	// SaveCostAccount persists a new cost account.
	SaveCostAccount(ctx context.Context, account domain.CostAccount) error
}
