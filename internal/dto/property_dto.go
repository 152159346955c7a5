package dto

import (
	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
)

// CreatePropertyRequest is the payload for creating a property.
type CreatePropertyRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// CreateUnitRequest is the payload for adding a unit to a property.
// Ownership is the MEA share as "N/D" or a bare value against 1000;
// LiftStation is optional and uses the same notation.
type CreateUnitRequest struct {
	Number        string  `json:"number" binding:"required"`
	Description   string  `json:"description"`
	OwnerName     string  `json:"ownerName" binding:"required"`
	Ownership     string  `json:"ownership" binding:"required"`
	LiftStation   string  `json:"liftStation"`
	MonthlyAmount *string `json:"monthlyAdvance,omitempty"` // Decimal string, current year's schedule
}

// UpdateUnitRequest is the payload for administrative edits to a unit.
// Nil fields stay unchanged.
type UpdateUnitRequest struct {
	Description *string `json:"description,omitempty"`
	OwnerName   *string `json:"ownerName,omitempty"`
	Ownership   *string `json:"ownership,omitempty"`
	LiftStation *string `json:"liftStation,omitempty"`
}

// PropertyResponse is the transport representation of a property.
type PropertyResponse struct {
	PropertyID string         `json:"propertyID"`
	Name       string         `json:"name"`
	Address    string         `json:"address"`
	Units      []UnitResponse `json:"units,omitempty"`
}

// UnitResponse is the transport representation of a unit.
type UnitResponse struct {
	UnitID      string `json:"unitID"`
	Number      string `json:"number"`
	Description string `json:"description"`
	OwnerName   string `json:"ownerName"`
	Ownership   string `json:"ownership"`
	LiftStation string `json:"liftStation,omitempty"`
}

// ToUnitResponse maps a domain unit to its transport form.
func ToUnitResponse(u domain.Unit) UnitResponse {
	return UnitResponse{
		UnitID:      u.UnitID,
		Number:      u.Number,
		Description: u.Description,
		OwnerName:   u.OwnerName,
		Ownership:   u.Ownership.Raw,
		LiftStation: u.LiftStation.Raw,
	}
}

// ToPropertyResponse maps a domain property to its transport form.
func ToPropertyResponse(p domain.Property) PropertyResponse {
	resp := PropertyResponse{
		PropertyID: p.PropertyID,
		Name:       p.Name,
		Address:    p.Address,
	}
	for _, u := range p.Units {
		resp.Units = append(resp.Units, ToUnitResponse(u))
	}
	return resp
}
