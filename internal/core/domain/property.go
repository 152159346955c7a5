package domain

// Property represents a managed condominium property (WEG-Objekt).
// Units carry a back-reference to exactly one property via PropertyID.
type Property struct {
	PropertyID string `json:"propertyID"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	AuditFields
	Units []Unit `json:"units"` // Ordered by unit number
}

// UnitCount returns the number of units belonging to the property.
func (p *Property) UnitCount() int {
	return len(p.Units)
}
