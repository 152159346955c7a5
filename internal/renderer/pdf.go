package renderer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// PDFRenderer renders the statement as an A4 PDF document. Section order
// and omission rules match the text renderer exactly.
type PDFRenderer struct {
	FooterText string
}

// NewPDFRenderer creates a PDF renderer with the configured footer.
func NewPDFRenderer(footerText string) *PDFRenderer {
	return &PDFRenderer{FooterText: footerText}
}

var _ portssvc.StatementRenderer = (*PDFRenderer)(nil)

// Render implements portssvc.StatementRenderer.
func (r *PDFRenderer) Render(data *domain.StatementData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("statement data is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Jahresabrechnung %d", data.Year)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(data.Property.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(data.Property.Address))
	pdf.Ln(8)

	pdf.Cell(0, 6, tr(fmt.Sprintf("Einheit: %s  %s", data.Unit.Number, data.Unit.Description)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Eigentümer: %s", data.Unit.OwnerName)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Miteigentumsanteil: %s", data.Unit.Ownership.Raw)))
	pdf.Ln(8)

	r.summary(pdf, tr, data)
	r.keyLegend(pdf, tr, data)
	r.costTable(pdf, tr, "Umlagefähige Kosten", data.Costs.LevyableGroups)
	r.externalCosts(pdf, tr, data)
	r.costTable(pdf, tr, "Nicht umlagefähige Kosten", data.Costs.NonLevyableGroups)
	r.paymentHistory(pdf, tr, data)
	r.costTable(pdf, tr, "Zuführung Instandhaltungsrücklage", data.Costs.ReserveGroups)
	r.balanceTrend(pdf, tr, data)
	r.projection(pdf, tr, data)
	r.taxTable(pdf, tr, data)

	if r.FooterText != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 4, tr(r.FooterText), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) summary(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr("Abrechnungsergebnis"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	r.amountRow(pdf, tr, "Ihr Kostenanteil", FormatEuro(data.Costs.UnitTotalCosts))
	r.amountRow(pdf, tr, "Geleistete Hausgeldzahlungen", FormatEuro(data.Reconciliation.Ist))
	pdf.SetFont("Arial", "B", 10)
	r.amountRow(pdf, tr, fmt.Sprintf("Saldo (%s)", data.Settlement.Result), FormatEuro(data.Settlement.Saldo.Abs()))
	pdf.SetFont("Arial", "", 10)
	pdf.Ln(4)
}

func (r *PDFRenderer) keyLegend(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	keys := usedKeys(data)
	if len(keys) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr("Umlageschlüssel"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 9)
	for _, key := range keys {
		pdf.CellFormat(190, 5, tr(key.Label()), "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "", 10)
	pdf.Ln(4)
}

func (r *PDFRenderer) costTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, groups []domain.CostGroup) {
	if len(groups) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr(title))
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(18, 6, tr("Konto"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(82, 6, tr("Bezeichnung"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(14, 6, tr("Schl."), "1", 0, "C", false, 0, "")
	pdf.CellFormat(38, 6, tr("Gesamt"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(38, 6, tr("Ihr Anteil"), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, g := range groups {
		pdf.CellFormat(18, 6, tr(g.AccountNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(82, 6, tr(truncate(g.Description, 48)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(14, 6, string(g.Key), "1", 0, "C", false, 0, "")
		pdf.CellFormat(38, 6, FormatAmount(g.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, FormatAmount(g.UnitShare), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		if g.Note != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.CellFormat(190, 5, tr("! "+g.Note), "", 0, "L", false, 0, "")
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 9)
		}
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) externalCosts(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	if data.External.IsZero() {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr("Heiz- und Wasserkosten lt. externer Abrechnung"))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	r.amountRow(pdf, tr, "Heizkosten gesamt", FormatEuro(data.External.HeatingTotal))
	r.amountRow(pdf, tr, "Heizkosten Ihr Anteil", FormatEuro(data.External.HeatingUnitShare))
	r.amountRow(pdf, tr, "Wasserkosten gesamt", FormatEuro(data.External.WaterTotal))
	r.amountRow(pdf, tr, "Wasserkosten Ihr Anteil", FormatEuro(data.External.WaterUnitShare))
	pdf.Ln(4)
}

func (r *PDFRenderer) paymentHistory(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Hausgeld %d", data.Year)))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	r.amountRow(pdf, tr, "Soll lt. Wirtschaftsplan", FormatEuro(data.Reconciliation.Soll))
	r.amountRow(pdf, tr, "Ist (eingegangene Zahlungen)", FormatEuro(data.Reconciliation.Ist))
	r.amountRow(pdf, tr, fmt.Sprintf("Differenz (%s)", data.Reconciliation.Status), FormatEuro(data.Reconciliation.Differenz))

	if len(data.Payments) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 9)
		for _, p := range data.Payments {
			pdf.CellFormat(28, 5, p.Date.Format("02.01.2006"), "", 0, "L", false, 0, "")
			pdf.CellFormat(118, 5, tr(truncate(p.Description, 64)), "", 0, "L", false, 0, "")
			pdf.CellFormat(38, 5, FormatAmount(p.Amount), "", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.SetFont("Arial", "", 10)
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) balanceTrend(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	if data.Balance == nil || len(data.Balance.Months) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Kontostandsentwicklung %d", data.Year)))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	r.amountRow(pdf, tr, "Anfangsbestand", FormatEuro(data.Balance.OpeningBalance))
	r.amountRow(pdf, tr, "Endbestand", FormatEuro(data.Balance.ClosingBalance))
	r.amountRow(pdf, tr, "Veränderung", FormatEuro(data.Balance.NetChange))
	pdf.Ln(4)
}

func (r *PDFRenderer) projection(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	if data.Projection == nil {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Wirtschaftsplan %d (Vorschau)", data.Projection.Year)))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	r.amountRow(pdf, tr, "Geplante Gesamtkosten", FormatEuro(data.Projection.PlannedCosts))
	r.amountRow(pdf, tr, "Monatliches Hausgeld", FormatEuro(data.Projection.MonthlyAdvance))
	pdf.Ln(4)
}

func (r *PDFRenderer) taxTable(pdf *gofpdf.Fpdf, tr func(string) string, data *domain.StatementData) {
	if len(data.Tax.Items) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, tr("Haushaltsnahe Dienst- und Handwerkerleistungen (§ 35a EStG)"))
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(18, 6, tr("Konto"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(72, 6, tr("Bezeichnung"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, tr("Gesamt"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, tr("Lohnanteil"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(38, 6, tr("Anrechenbar"), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, item := range data.Tax.Items {
		pdf.CellFormat(18, 6, tr(item.AccountNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(72, 6, tr(truncate(item.Description, 42)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 6, FormatAmount(item.GroupTotal), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, FormatPercent(item.LaborPercent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(38, 6, FormatAmount(item.UnitDeductible), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	r.amountRow(pdf, tr, "Steuerlich anrechenbar gesamt", FormatEuro(data.Tax.TotalDeductible))
	pdf.SetFont("Arial", "", 10)
	pdf.Ln(4)
}

func (r *PDFRenderer) amountRow(pdf *gofpdf.Fpdf, tr func(string) string, label, amount string) {
	pdf.CellFormat(120, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(64, 6, tr(amount), "", 0, "R", false, 0, "")
	pdf.Ln(-1)
}
