package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	coresvc "github.com/wegsoft/weg_abrechnung_app/internal/core/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
	"github.com/wegsoft/weg_abrechnung_app/internal/middleware"
)

// statementHandler handles HTTP requests for statement validation and generation.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{
		statementService: ss,
	}
}

// registerStatementRoutes registers the statement engine routes.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	rg.GET("/units/:unitID/statements/:year/validation", h.validateStatement)
	rg.GET("/units/:unitID/statements/:year", h.generateStatement)
	rg.POST("/properties/:propertyID/statements/:year", h.generateForProperty)
}

// statementContentType maps an output format to its HTTP content type and
// file extension for the Content-Disposition header.
func statementContentType(format domain.StatementFormat) (contentType, extension string) {
	switch format {
	case domain.FormatPDF:
		return "application/pdf", "pdf"
	case domain.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		return "text/plain; charset=utf-8", "txt"
	}
}

// parseFormatParam resolves the ?format= query parameter, defaulting to TEXT.
func parseFormatParam(c *gin.Context) (domain.StatementFormat, error) {
	raw := strings.ToUpper(c.DefaultQuery("format", string(domain.FormatText)))
	switch format := domain.StatementFormat(raw); format {
	case domain.FormatText, domain.FormatPDF, domain.FormatXLSX:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q", raw)
	}
}

func parseYearParam(c *gin.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", c.Param("year"))
	}
	return year, nil
}

func (h *statementHandler) validateStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")
	logger = logger.With(slog.String("unit_id", unitID))

	year, err := parseYearParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issues, err := h.statementService.Validate(c.Request.Context(), unitID, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unit not found for validation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		} else {
			logger.Error("Statement validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate statement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToValidateStatementResponse(unitID, year, issues))
}

func (h *statementHandler) generateStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")
	logger = logger.With(slog.String("unit_id", unitID))

	year, err := parseYearParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format, err := parseFormatParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Received request to generate statement",
		slog.Int("year", year), slog.String("format", string(format)))

	output, err := h.statementService.GenerateStatement(c.Request.Context(), unitID, year, format)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Unit not found for statement generation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		case errors.Is(err, coresvc.ErrValidationFailed):
			logger.Warn("Statement generation refused by validation", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, coresvc.ErrUnknownFormat), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid statement request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to generate statement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate statement"})
		}
		return
	}

	contentType, extension := statementContentType(format)
	filename := fmt.Sprintf("abrechnung_%s_%d.%s", unitID, year, extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, output)
}

func (h *statementHandler) generateForProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")
	logger = logger.With(slog.String("property_id", propertyID))

	year, err := parseYearParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format, err := parseFormatParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Received request for batch statement generation",
		slog.Int("year", year), slog.String("format", string(format)))

	outcomes, err := h.statementService.GenerateForProperty(c.Request.Context(), propertyID, year, format)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for batch generation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid batch request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Batch statement generation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate statements"})
		}
		return
	}

	resp := dto.ToBatchGenerateResponse(propertyID, year, format, outcomes)
	logger.Info("Batch statement generation finished",
		slog.Int("succeeded", resp.Succeeded), slog.Int("failed", resp.Failed))
	c.JSON(http.StatusOK, resp)
}
