package domain

import "github.com/shopspring/decimal"

// StatementFormat selects the output rendering of a statement.
type StatementFormat string

const (
	FormatText StatementFormat = "TEXT"
	FormatPDF  StatementFormat = "PDF"
	FormatXLSX StatementFormat = "XLSX"
)

// CostGroup is one aggregated statement line: all of a year's transactions
// on a single cost account, with the property total and the unit's share.
type CostGroup struct {
	AccountNumber    string          `json:"accountNumber"`
	Description      string          `json:"description"`
	Category         LegalCategory   `json:"category"`
	Key              DistributionKey `json:"distributionKey"`
	Total            decimal.Decimal `json:"total"`     // Property-wide net cost (refunds subtracted)
	UnitShare        decimal.Decimal `json:"unitShare"` // This unit's share of Total
	TransactionCount int             `json:"transactionCount"`
	// Note carries a per-group calculation error; the group still appears
	// on the statement with a zero share.
	Note string `json:"note,omitempty"`
}

// CostSummary is the headline cost view of one unit's statement. Reserve
// contributions are carried separately and never folded into the totals,
// per the controlling BGH ruling on total costs.
type CostSummary struct {
	LevyableGroups    []CostGroup     `json:"levyableGroups"`
	NonLevyableGroups []CostGroup     `json:"nonLevyableGroups"`
	ReserveGroups     []CostGroup     `json:"reserveGroups"`
	TotalCosts        decimal.Decimal `json:"totalCosts"`     // Property-wide, reserve excluded
	UnitTotalCosts    decimal.Decimal `json:"unitTotalCosts"` // Unit share, reserve excluded
	UnitReserveShare  decimal.Decimal `json:"unitReserveShare"`
}

// AdvancePaymentSchedule is a unit's configured Hausgeld schedule for a year.
// YearlyOverride, when non-nil, replaces MonthlyAmount×12.
type AdvancePaymentSchedule struct {
	UnitID         string           `json:"unitID"`
	Year           int              `json:"year"`
	MonthlyAmount  decimal.Decimal  `json:"monthlyAmount"`
	YearlyOverride *decimal.Decimal `json:"yearlyOverride,omitempty"`
}

// YearlyAmount resolves the expected payment total for the year.
func (s *AdvancePaymentSchedule) YearlyAmount() decimal.Decimal {
	if s.YearlyOverride != nil {
		return *s.YearlyOverride
	}
	return s.MonthlyAmount.Mul(decimal.NewFromInt(12))
}

// ReconciliationStatus describes the direction of a Soll/Ist difference.
type ReconciliationStatus string

const (
	Surplus   ReconciliationStatus = "Überdeckung"
	Shortfall ReconciliationStatus = "Unterdeckung"
)

// SettlementResult describes the direction of the final statement balance.
type SettlementResult string

const (
	BackPayment SettlementResult = "Nachzahlung"
	CreditOwed  SettlementResult = "Guthaben"
)

// Reconciliation is the advance-payment view of one unit (or, for the
// property-wide variant, of all units summed).
type Reconciliation struct {
	Soll      decimal.Decimal      `json:"soll"`
	Ist       decimal.Decimal      `json:"ist"`
	Differenz decimal.Decimal      `json:"differenz"` // Ist − Soll
	Status    ReconciliationStatus `json:"status"`
}

// Settlement is the final balance of a unit's statement.
// Saldo = unit total costs − advance payments received; the Soll side
// cancels out algebraically and must not reappear here.
type Settlement struct {
	Saldo  decimal.Decimal  `json:"saldo"`
	Result SettlementResult `json:"result"`
}

// TaxDeductionItem is one cost account's §35a-relevant line.
type TaxDeductionItem struct {
	AccountNumber  string          `json:"accountNumber"`
	Description    string          `json:"description"`
	GroupTotal     decimal.Decimal `json:"groupTotal"`
	LaborPercent   decimal.Decimal `json:"laborPercent"` // 0..1, unrounded
	UnitCostShare  decimal.Decimal `json:"unitCostShare"`
	UnitDeductible decimal.Decimal `json:"unitDeductible"`
}

// TaxDeduction is the statement's §35a section for one unit.
type TaxDeduction struct {
	Items           []TaxDeductionItem `json:"items"`
	TotalDeductible decimal.Decimal    `json:"totalDeductible"`
}

// BudgetProjection is the optional next-year plan section, sourced from
// static configuration rather than the transaction data.
type BudgetProjection struct {
	Year           int             `json:"year"`
	PlannedCosts   decimal.Decimal `json:"plannedCosts"`
	MonthlyAdvance decimal.Decimal `json:"monthlyAdvance"`
	Note           string          `json:"note,omitempty"`
}

// ValidationSeverity grades a pre-generation validation finding.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "ERROR"
	SeverityWarning ValidationSeverity = "WARNING"
)

// ValidationIssue is one finding of the validate-before-generate check.
type ValidationIssue struct {
	Severity ValidationSeverity `json:"severity"`
	Field    string             `json:"field"`
	Message  string             `json:"message"`
}

// UnitStatementOutcome is one unit's result within a batch generation run.
// Units succeed or fail independently; Err carries the failure message of
// this unit only.
type UnitStatementOutcome struct {
	UnitID     string `json:"unitID"`
	UnitNumber string `json:"unitNumber"`
	OwnerName  string `json:"ownerName"`
	Output     []byte `json:"-"`
	Err        string `json:"error,omitempty"`
}

// StatementData is the complete computed input of the renderer: one data
// snapshot per (unit, year), shared across all output formats so that every
// section shows the same numbers.
type StatementData struct {
	Property       Property          `json:"property"`
	Unit           Unit              `json:"unit"`
	Year           int               `json:"year"`
	Costs          CostSummary       `json:"costs"`
	External       ExternalCosts     `json:"external"`
	Reconciliation Reconciliation    `json:"reconciliation"`
	PropertyRecon  Reconciliation    `json:"propertyReconciliation"`
	Settlement     Settlement        `json:"settlement"`
	Payments       []Transaction     `json:"payments"` // Unit's incoming payments, date order
	Tax            TaxDeduction      `json:"tax"`
	Balance        *BalanceSummary   `json:"balance,omitempty"`
	Projection     *BudgetProjection `json:"projection,omitempty"`
}
