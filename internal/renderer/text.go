package renderer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

const (
	lineWidth    = 92
	descColWidth = 44
)

// TextRenderer renders the statement as fixed-format plain text.
// Sections are emitted strictly in order; optional sections with no data
// are dropped entirely instead of printing empty placeholders.
type TextRenderer struct {
	// FooterText is the configured closing text, empty to omit the footer.
	FooterText string
}

// NewTextRenderer creates a text renderer with the configured footer.
func NewTextRenderer(footerText string) *TextRenderer {
	return &TextRenderer{FooterText: footerText}
}

var _ portssvc.StatementRenderer = (*TextRenderer)(nil)

// Render implements portssvc.StatementRenderer.
func (r *TextRenderer) Render(data *domain.StatementData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("statement data is nil")
	}

	var b strings.Builder

	r.writeHeader(&b, data)
	r.writeOwner(&b, data)
	r.writeSummary(&b, data)
	r.writeKeyLegend(&b, data)
	r.writeCostTable(&b, "Umlagefähige Kosten", data.Costs.LevyableGroups)
	r.writeExternalCosts(&b, data)
	r.writeCostTable(&b, "Nicht umlagefähige Kosten", data.Costs.NonLevyableGroups)
	r.writeGrandTotal(&b, data)
	r.writePaymentHistory(&b, data)
	r.writeCostTable(&b, "Zuführung Instandhaltungsrücklage", data.Costs.ReserveGroups)
	r.writeBalanceTrend(&b, data)
	r.writeProjection(&b, data)
	r.writeTaxTable(&b, data)
	r.writeFooter(&b)

	return []byte(b.String()), nil
}

func (r *TextRenderer) writeHeader(b *strings.Builder, data *domain.StatementData) {
	rule(b, '=')
	fmt.Fprintf(b, "JAHRESABRECHNUNG %d\n", data.Year)
	fmt.Fprintf(b, "%s\n", data.Property.Name)
	fmt.Fprintf(b, "%s\n", data.Property.Address)
	rule(b, '=')
	b.WriteByte('\n')
}

func (r *TextRenderer) writeOwner(b *strings.Builder, data *domain.StatementData) {
	fmt.Fprintf(b, "Einheit:           %s  %s\n", data.Unit.Number, data.Unit.Description)
	fmt.Fprintf(b, "Eigentümer:        %s\n", data.Unit.OwnerName)
	fmt.Fprintf(b, "Miteigentumsanteil: %s\n", data.Unit.Ownership.Raw)
	if data.Unit.LiftStation.Raw != "" {
		fmt.Fprintf(b, "Anteil Hebeanlage:  %s\n", data.Unit.LiftStation.Raw)
	}
	b.WriteByte('\n')
}

func (r *TextRenderer) writeSummary(b *strings.Builder, data *domain.StatementData) {
	fmt.Fprintf(b, "ABRECHNUNGSERGEBNIS\n")
	rule(b, '-')
	writeAmountRow(b, "Ihr Kostenanteil", data.Costs.UnitTotalCosts)
	writeAmountRow(b, "Geleistete Hausgeldzahlungen", data.Reconciliation.Ist)
	rule(b, '-')
	writeAmountRow(b, fmt.Sprintf("Saldo (%s)", data.Settlement.Result), data.Settlement.Saldo.Abs())
	rule(b, '=')
	b.WriteByte('\n')
}

func (r *TextRenderer) writeKeyLegend(b *strings.Builder, data *domain.StatementData) {
	keys := usedKeys(data)
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "Umlageschlüssel\n")
	rule(b, '-')
	for _, key := range keys {
		fmt.Fprintf(b, "  %s\n", key.Label())
	}
	b.WriteByte('\n')
}

func (r *TextRenderer) writeCostTable(b *strings.Builder, title string, groups []domain.CostGroup) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", title)
	rule(b, '-')
	fmt.Fprintf(b, "%-8s %-*s %4s %14s %14s\n", "Konto", descColWidth, "Bezeichnung", "Schl", "Gesamt", "Ihr Anteil")
	rule(b, '-')
	for _, g := range groups {
		fmt.Fprintf(b, "%-8s %-*s %4s %14s %14s\n",
			g.AccountNumber,
			descColWidth, truncate(g.Description, descColWidth),
			string(g.Key),
			FormatAmount(g.Total),
			FormatAmount(g.UnitShare),
		)
		if g.Note != "" {
			fmt.Fprintf(b, "         ! %s\n", g.Note)
		}
	}
	b.WriteByte('\n')
}

func (r *TextRenderer) writeExternalCosts(b *strings.Builder, data *domain.StatementData) {
	if data.External.IsZero() {
		return
	}
	fmt.Fprintf(b, "Heiz- und Wasserkosten lt. externer Abrechnung\n")
	rule(b, '-')
	fmt.Fprintf(b, "%-8s %-*s %4s %14s %14s\n", "", descColWidth, "Bezeichnung", "Schl", "Gesamt", "Ihr Anteil")
	rule(b, '-')
	fmt.Fprintf(b, "%-8s %-*s %4s %14s %14s\n", "", descColWidth, "Heizkosten", "01",
		FormatAmount(data.External.HeatingTotal), FormatAmount(data.External.HeatingUnitShare))
	fmt.Fprintf(b, "%-8s %-*s %4s %14s %14s\n", "", descColWidth, "Wasserkosten", "02",
		FormatAmount(data.External.WaterTotal), FormatAmount(data.External.WaterUnitShare))
	b.WriteByte('\n')
}

func (r *TextRenderer) writeGrandTotal(b *strings.Builder, data *domain.StatementData) {
	fmt.Fprintf(b, "GESAMTKOSTEN\n")
	rule(b, '-')
	writeAmountRow(b, "Gesamtkosten Objekt (ohne Rücklage)", data.Costs.TotalCosts)
	writeAmountRow(b, "Ihr Anteil an den Gesamtkosten", data.Costs.UnitTotalCosts)
	rule(b, '=')
	b.WriteByte('\n')
}

func (r *TextRenderer) writePaymentHistory(b *strings.Builder, data *domain.StatementData) {
	fmt.Fprintf(b, "HAUSGELD %d\n", data.Year)
	rule(b, '-')
	writeAmountRow(b, "Soll lt. Wirtschaftsplan", data.Reconciliation.Soll)
	writeAmountRow(b, "Ist (eingegangene Zahlungen)", data.Reconciliation.Ist)
	writeAmountRow(b, fmt.Sprintf("Differenz (%s)", data.Reconciliation.Status), data.Reconciliation.Differenz)
	writeAmountRow(b, "Soll alle Einheiten", data.PropertyRecon.Soll)
	writeAmountRow(b, "Ist alle Einheiten", data.PropertyRecon.Ist)
	if len(data.Payments) > 0 {
		b.WriteByte('\n')
		fmt.Fprintf(b, "Zahlungseingänge:\n")
		for _, p := range data.Payments {
			fmt.Fprintf(b, "  %s  %-*s %14s\n",
				p.Date.Format("02.01.2006"),
				descColWidth, truncate(p.Description, descColWidth),
				FormatAmount(p.Amount),
			)
		}
	}
	b.WriteByte('\n')
}

func (r *TextRenderer) writeBalanceTrend(b *strings.Builder, data *domain.StatementData) {
	if data.Balance == nil || len(data.Balance.Months) == 0 {
		return
	}
	fmt.Fprintf(b, "KONTOSTANDSENTWICKLUNG %d\n", data.Year)
	rule(b, '-')
	writeAmountRow(b, "Anfangsbestand", data.Balance.OpeningBalance)
	writeAmountRow(b, "Endbestand", data.Balance.ClosingBalance)
	writeAmountRow(b, "Veränderung", data.Balance.NetChange)
	b.WriteByte('\n')
	fmt.Fprintf(b, "%-8s %14s %14s %14s %8s\n", "Monat", "Anfang", "Ende", "Umsatz", "Anzahl")
	for _, m := range data.Balance.Months {
		fmt.Fprintf(b, "%02d/%d  %14s %14s %14s %8d\n",
			m.Month, m.Year,
			FormatAmount(m.OpeningBalance),
			FormatAmount(m.ClosingBalance),
			FormatAmount(m.TransactionSum),
			m.TransactionCount,
		)
	}
	b.WriteByte('\n')
}

func (r *TextRenderer) writeProjection(b *strings.Builder, data *domain.StatementData) {
	if data.Projection == nil {
		return
	}
	fmt.Fprintf(b, "WIRTSCHAFTSPLAN %d (Vorschau)\n", data.Projection.Year)
	rule(b, '-')
	writeAmountRow(b, "Geplante Gesamtkosten", data.Projection.PlannedCosts)
	writeAmountRow(b, "Monatliches Hausgeld", data.Projection.MonthlyAdvance)
	if data.Projection.Note != "" {
		fmt.Fprintf(b, "%s\n", data.Projection.Note)
	}
	b.WriteByte('\n')
}

func (r *TextRenderer) writeTaxTable(b *strings.Builder, data *domain.StatementData) {
	if len(data.Tax.Items) == 0 {
		return
	}
	fmt.Fprintf(b, "HAUSHALTSNAHE DIENST- UND HANDWERKERLEISTUNGEN (§ 35a EStG)\n")
	rule(b, '-')
	fmt.Fprintf(b, "%-8s %-*s %12s %10s %14s\n", "Konto", descColWidth-10, "Bezeichnung", "Gesamt", "Lohnanteil", "Anrechenbar")
	rule(b, '-')
	for _, item := range data.Tax.Items {
		fmt.Fprintf(b, "%-8s %-*s %12s %10s %14s\n",
			item.AccountNumber,
			descColWidth-10, truncate(item.Description, descColWidth-10),
			FormatAmount(item.GroupTotal),
			FormatPercent(item.LaborPercent),
			FormatAmount(item.UnitDeductible),
		)
	}
	rule(b, '-')
	writeAmountRow(b, "Steuerlich anrechenbar gesamt", data.Tax.TotalDeductible)
	b.WriteByte('\n')
}

func (r *TextRenderer) writeFooter(b *strings.Builder) {
	if r.FooterText == "" {
		return
	}
	rule(b, '=')
	fmt.Fprintf(b, "%s\n", r.FooterText)
}

// usedKeys collects the distribution keys appearing on the statement, in
// key-code order, for the legend section.
func usedKeys(data *domain.StatementData) []domain.DistributionKey {
	seen := make(map[domain.DistributionKey]bool)
	collect := func(groups []domain.CostGroup) {
		for _, g := range groups {
			seen[g.Key] = true
		}
	}
	collect(data.Costs.LevyableGroups)
	collect(data.Costs.NonLevyableGroups)
	collect(data.Costs.ReserveGroups)
	if !data.External.IsZero() {
		seen[domain.KeyExternalHeating] = true
		seen[domain.KeyExternalWater] = true
	}

	ordered := []domain.DistributionKey{
		domain.KeyExternalHeating,
		domain.KeyExternalWater,
		domain.KeyEqual,
		domain.KeyDirect,
		domain.KeyOwnership,
		domain.KeyLiftStation,
	}
	keys := make([]domain.DistributionKey, 0, len(seen))
	for _, key := range ordered {
		if seen[key] {
			keys = append(keys, key)
		}
	}
	return keys
}

func writeAmountRow(b *strings.Builder, label string, value decimal.Decimal) {
	fmt.Fprintf(b, "%-*s %14s\n", lineWidth-16, label, FormatAmount(value))
}

func rule(b *strings.Builder, char byte) {
	b.WriteString(strings.Repeat(string(char), lineWidth))
	b.WriteByte('\n')
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
