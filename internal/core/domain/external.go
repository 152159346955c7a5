package domain

import "github.com/shopspring/decimal"

// ExternalCostRecord holds the pre-computed heating and water cost shares
// for one unit and year, supplied by the external sub-metering provider.
// A record with empty UnitID is the property-wide total.
type ExternalCostRecord struct {
	RecordID    string          `json:"recordID"`
	PropertyID  string          `json:"propertyID"`
	UnitID      string          `json:"unitID"`
	Year        int             `json:"year"`
	HeatingCost decimal.Decimal `json:"heatingCost"`
	WaterCost   decimal.Decimal `json:"waterCost"`
}

// ExternalCosts is the resolved heating/water view for one unit's statement.
// All-zero when no metering data exists for the year.
type ExternalCosts struct {
	HeatingTotal     decimal.Decimal `json:"heatingTotal"`
	HeatingUnitShare decimal.Decimal `json:"heatingUnitShare"`
	WaterTotal       decimal.Decimal `json:"waterTotal"`
	WaterUnitShare   decimal.Decimal `json:"waterUnitShare"`
}

// IsZero reports whether no metering data contributed to the view.
func (e ExternalCosts) IsZero() bool {
	return e.HeatingTotal.IsZero() && e.HeatingUnitShare.IsZero() &&
		e.WaterTotal.IsZero() && e.WaterUnitShare.IsZero()
}
