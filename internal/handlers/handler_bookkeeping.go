package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
	"github.com/wegsoft/weg_abrechnung_app/internal/middleware"
)

// bookkeepingHandler handles HTTP requests for cost accounts, transactions
// and advance-payment schedules.
type bookkeepingHandler struct {
	bookkeepingService portssvc.BookkeepingSvcFacade
}

func newBookkeepingHandler(bs portssvc.BookkeepingSvcFacade) *bookkeepingHandler {
	return &bookkeepingHandler{
		bookkeepingService: bs,
	}
}

// registerBookkeepingRoutes registers the master-data bookkeeping routes.
func registerBookkeepingRoutes(rg *gin.RouterGroup, bookkeepingService portssvc.BookkeepingSvcFacade) {
	h := newBookkeepingHandler(bookkeepingService)

	accounts := rg.Group("/cost-accounts")
	{
		accounts.POST("", h.createCostAccount)
		accounts.GET("", h.listCostAccounts)
	}

	rg.POST("/properties/:propertyID/transactions", h.recordTransaction)
	rg.PUT("/units/:unitID/schedule", h.setSchedule)
}

func (h *bookkeepingHandler) createCostAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCostAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCostAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.RequestUserID(c)
	logger.Info("Received request to create cost account", slog.String("account_number", req.Number))

	account, err := h.bookkeepingService.CreateCostAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Attempted to create duplicate cost account", slog.String("account_number", req.Number))
			c.JSON(http.StatusConflict, gin.H{"error": "Cost account number already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating cost account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create cost account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cost account"})
		}
		return
	}

	logger.Info("Cost account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToCostAccountResponse(*account))
}

func (h *bookkeepingHandler) listCostAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.bookkeepingService.ListCostAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list cost accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cost accounts"})
		return
	}

	resp := make([]dto.CostAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, dto.ToCostAccountResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"costAccounts": resp})
}

func (h *bookkeepingHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")
	logger = logger.With(slog.String("property_id", propertyID))

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.RequestUserID(c)

	txn, err := h.bookkeepingService.RecordTransaction(c.Request.Context(), propertyID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Referenced entity not found for transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error recording transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to record transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		}
		return
	}

	logger.Info("Transaction recorded successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*txn))
}

func (h *bookkeepingHandler) setSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")
	logger = logger.With(slog.String("unit_id", unitID))

	var req dto.SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.bookkeepingService.SetAdvancePaymentSchedule(c.Request.Context(), unitID, req); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Unit not found for schedule")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error setting schedule", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to set schedule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set schedule"})
		}
		return
	}

	logger.Info("Advance-payment schedule set", slog.Int("year", req.Year))
	c.JSON(http.StatusOK, gin.H{"unitID": unitID, "year": req.Year})
}
