package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portsrepo "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/repositories"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
)

const dateLayout = "2006-01-02"

// bookkeepingService manages cost accounts, transactions and schedules.
type bookkeepingService struct {
	BaseService
	accountRepo     portsrepo.CostAccountRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryFacade
	scheduleRepo    portsrepo.ScheduleRepositoryFacade
	propertyRepo    portsrepo.PropertyRepositoryFacade
}

// NewBookkeepingService creates a new bookkeeping service.
func NewBookkeepingService(
	accountRepo portsrepo.CostAccountRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	propertyRepo portsrepo.PropertyRepositoryFacade,
) portssvc.BookkeepingSvcFacade {
	return &bookkeepingService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		scheduleRepo:    scheduleRepo,
		propertyRepo:    propertyRepo,
	}
}

var _ portssvc.BookkeepingSvcFacade = (*bookkeepingService)(nil)

// CreateCostAccount implements portssvc.BookkeepingSvcFacade.
func (s *bookkeepingService) CreateCostAccount(ctx context.Context, req dto.CreateCostAccountRequest, creatorUserID string) (*domain.CostAccount, error) {
	key, err := domain.ParseDistributionKey(req.KeyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if existing, err := s.accountRepo.FindCostAccountByNumber(ctx, req.Number); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: cost account %s", apperrors.ErrDuplicate, req.Number)
	}

	now := time.Now()
	account := domain.CostAccount{
		AccountID:     uuid.NewString(),
		Number:        req.Number,
		Description:   req.Description,
		Category:      domain.LegalCategory(req.Category),
		Key:           key,
		IsActive:      true,
		TaxDeductible: req.TaxDeductible,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveCostAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save cost account", slog.String("number", req.Number))
		return nil, fmt.Errorf("failed to save cost account: %w", err)
	}

	return &account, nil
}

// ListCostAccounts implements portssvc.BookkeepingSvcFacade.
func (s *bookkeepingService) ListCostAccounts(ctx context.Context) ([]domain.CostAccount, error) {
	return s.accountRepo.ListCostAccounts(ctx)
}

// RecordTransaction implements portssvc.BookkeepingSvcFacade.
func (s *bookkeepingService) RecordTransaction(ctx context.Context, propertyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	if req.AccountNumber != "" {
		if _, err := s.accountRepo.FindCostAccountByNumber(ctx, req.AccountNumber); err != nil {
			return nil, fmt.Errorf("failed to resolve cost account %s: %w", req.AccountNumber, err)
		}
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		PropertyID:    propertyID,
		Date:          date,
		Description:   req.Description,
		Amount:        req.Amount,
		AccountNumber: req.AccountNumber,
		UnitID:        req.UnitID,
		YearOverride:  req.YearOverride,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if req.Invoice != nil {
		serviceDate, err := time.Parse(dateLayout, req.Invoice.ServiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid invoice service date %q", apperrors.ErrValidation, req.Invoice.ServiceDate)
		}
		if req.Invoice.LaborPortion.GreaterThan(req.Invoice.TotalAmount) {
			return nil, fmt.Errorf("%w: invoice labor portion exceeds total amount", apperrors.ErrValidation)
		}
		txn.Invoice = &domain.Invoice{
			InvoiceID:    uuid.NewString(),
			TotalAmount:  req.Invoice.TotalAmount,
			LaborPortion: req.Invoice.LaborPortion,
			ServiceDate:  serviceDate,
		}
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("property_id", propertyID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	return &txn, nil
}

// SetAdvancePaymentSchedule implements portssvc.BookkeepingSvcFacade.
func (s *bookkeepingService) SetAdvancePaymentSchedule(ctx context.Context, unitID string, req dto.SetScheduleRequest) error {
	if _, err := s.propertyRepo.FindUnitByID(ctx, unitID); err != nil {
		return fmt.Errorf("failed to load unit %s: %w", unitID, err)
	}

	schedule := domain.AdvancePaymentSchedule{
		UnitID:         unitID,
		Year:           req.Year,
		MonthlyAmount:  req.MonthlyAmount,
		YearlyOverride: req.YearlyOverride,
	}
	if err := s.scheduleRepo.SaveSchedule(ctx, schedule); err != nil {
		s.LogError(ctx, err, "Failed to save schedule", slog.String("unit_id", unitID), slog.Int("year", req.Year))
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}
