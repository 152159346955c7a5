package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/dto"
	"github.com/wegsoft/weg_abrechnung_app/internal/middleware"
)

// propertyHandler handles HTTP requests related to properties and units.
type propertyHandler struct {
	propertyService portssvc.PropertySvcFacade
}

func newPropertyHandler(ps portssvc.PropertySvcFacade) *propertyHandler {
	return &propertyHandler{
		propertyService: ps,
	}
}

// registerPropertyRoutes registers routes related to properties and their units.
func registerPropertyRoutes(rg *gin.RouterGroup, propertyService portssvc.PropertySvcFacade) {
	h := newPropertyHandler(propertyService)

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("", h.listProperties)
		properties.GET("/:propertyID", h.getPropertyByID)
		properties.POST("/:propertyID/units", h.addUnit)
	}

	units := rg.Group("/units")
	{
		units.PUT("/:unitID", h.updateUnit)
	}
}

func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProperty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.RequestUserID(c)
	logger.Info("Received request to create property", slog.String("name", req.Name))

	created, err := h.propertyService.CreateProperty(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating property", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create property in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		}
		return
	}

	logger.Info("Property created successfully", slog.String("property_id", created.PropertyID))
	c.JSON(http.StatusCreated, dto.ToPropertyResponse(*created))
}

func (h *propertyHandler) getPropertyByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")
	logger = logger.With(slog.String("property_id", propertyID))

	property, err := h.propertyService.GetPropertyByID(c.Request.Context(), propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Property not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			logger.Error("Failed to get property", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPropertyResponse(*property))
}

func (h *propertyHandler) listProperties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	properties, err := h.propertyService.ListProperties(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list properties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list properties"})
		return
	}

	resp := make([]dto.PropertyResponse, 0, len(properties))
	for _, p := range properties {
		resp = append(resp, dto.ToPropertyResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"properties": resp})
}

func (h *propertyHandler) addUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	propertyID := c.Param("propertyID")
	logger = logger.With(slog.String("property_id", propertyID))

	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUnit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.RequestUserID(c)
	logger.Info("Received request to add unit", slog.String("unit_number", req.Number))

	unit, err := h.propertyService.AddUnit(c.Request.Context(), propertyID, req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Property not found for unit creation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate unit number", slog.String("unit_number", req.Number))
			c.JSON(http.StatusConflict, gin.H{"error": "Unit number already exists in this property"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error adding unit", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to add unit in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add unit"})
		}
		return
	}

	logger.Info("Unit added successfully", slog.String("unit_id", unit.UnitID))
	c.JSON(http.StatusCreated, dto.ToUnitResponse(*unit))
}

func (h *propertyHandler) updateUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")
	logger = logger.With(slog.String("unit_id", unitID))

	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUnit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID := middleware.RequestUserID(c)

	unit, err := h.propertyService.UpdateUnit(c.Request.Context(), unitID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Unit not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error updating unit", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update unit in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update unit"})
		}
		return
	}

	logger.Info("Unit updated successfully")
	c.JSON(http.StatusOK, dto.ToUnitResponse(*unit))
}
