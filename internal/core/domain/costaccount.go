package domain

import (
	"fmt"
	"strings"
)

// LegalCategory classifies a cost account under German operating-cost law.
type LegalCategory string

const (
	// LevyableHeating marks heating/hot-water costs chargeable to occupants.
	LevyableHeating LegalCategory = "LEVYABLE_HEATING"
	// LevyableOther marks other operating costs chargeable to occupants.
	LevyableOther LegalCategory = "LEVYABLE_OTHER"
	// NonLevyable marks costs borne by owners only.
	NonLevyable LegalCategory = "NON_LEVYABLE"
	// ReserveContribution marks deposits into the maintenance reserve.
	// Excluded from total costs per the controlling BGH ruling.
	ReserveContribution LegalCategory = "RESERVE_CONTRIBUTION"
	// Income marks accounts that collect income, never distributed as cost.
	Income LegalCategory = "INCOME"
)

// DistributionKey identifies the formula by which a cost account's total
// is split across units. Stored as the leading "0N" of the legacy key code;
// every switch over it must carry a default branch returning an error so
// that new keys cannot silently fall through.
type DistributionKey string

const (
	// KeyExternalHeating (01*): per-unit heating cost supplied by sub-metering.
	KeyExternalHeating DistributionKey = "01"
	// KeyExternalWater (02*): per-unit water cost supplied by sub-metering.
	KeyExternalWater DistributionKey = "02"
	// KeyEqual (03*): equal split across all units.
	KeyEqual DistributionKey = "03"
	// KeyDirect (04*): amount assigned directly to a single unit (Festumlage).
	KeyDirect DistributionKey = "04"
	// KeyOwnership (05*): split by ownership fraction (MEA).
	KeyOwnership DistributionKey = "05"
	// KeyLiftStation (06*): split by lift-station fraction.
	KeyLiftStation DistributionKey = "06"
)

// ParseDistributionKey maps a stored key code ("03", "03*", "03 Einheiten", ...)
// onto its DistributionKey. Only the two leading digits are significant.
func ParseDistributionKey(code string) (DistributionKey, error) {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) < 2 {
		return "", fmt.Errorf("distribution key code %q too short", code)
	}
	key := DistributionKey(trimmed[:2])
	switch key {
	case KeyExternalHeating, KeyExternalWater, KeyEqual, KeyDirect, KeyOwnership, KeyLiftStation:
		return key, nil
	default:
		return "", fmt.Errorf("unknown distribution key code %q", code)
	}
}

// IsExternal reports whether the key's shares come from the external
// sub-metering process instead of the distribution algorithm.
func (k DistributionKey) IsExternal() bool {
	return k == KeyExternalHeating || k == KeyExternalWater
}

// Label returns the German legend text for the statement's key table.
func (k DistributionKey) Label() string {
	switch k {
	case KeyExternalHeating:
		return "01 Heizkosten lt. Abrechnung"
	case KeyExternalWater:
		return "02 Wasserkosten lt. Abrechnung"
	case KeyEqual:
		return "03 Anzahl Einheiten"
	case KeyDirect:
		return "04 Festumlage"
	case KeyOwnership:
		return "05 Miteigentumsanteile"
	case KeyLiftStation:
		return "06 Anteile Hebeanlage"
	default:
		return string(k)
	}
}

// CostAccount is a bookkeeping account against which transactions are posted.
type CostAccount struct {
	AccountID     string          `json:"accountID"`
	Number        string          `json:"number"`
	Description   string          `json:"description"`
	Category      LegalCategory   `json:"category"`
	Key           DistributionKey `json:"distributionKey"`
	IsActive      bool            `json:"isActive"`
	TaxDeductible bool            `json:"taxDeductible"`
	AuditFields
}
