package renderer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
)

// XLSXRenderer renders the statement as an XLSX workbook with a summary
// sheet and a cost-lines sheet. Amounts are written as raw numbers so the
// spreadsheet stays calculable.
type XLSXRenderer struct{}

// NewXLSXRenderer creates an XLSX renderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

var _ portssvc.StatementRenderer = (*XLSXRenderer)(nil)

// Render implements portssvc.StatementRenderer.
func (r *XLSXRenderer) Render(data *domain.StatementData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("statement data is nil")
	}

	f := excelize.NewFile()
	summarySheet := "Abrechnung"
	linesSheet := "Kostenpositionen"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(linesSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	r.writeSummary(f, summarySheet, data)
	r.writeLines(f, linesSheet, data)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *XLSXRenderer) writeSummary(f *excelize.File, sheet string, data *domain.StatementData) {
	row := 1
	set := func(label string, value any) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	set("Jahresabrechnung", data.Year)
	set("Objekt", data.Property.Name)
	set("Adresse", data.Property.Address)
	set("Einheit", data.Unit.Number)
	set("Eigentümer", data.Unit.OwnerName)
	set("Miteigentumsanteil", data.Unit.Ownership.Raw)
	row++
	set("Gesamtkosten Objekt (ohne Rücklage)", data.Costs.TotalCosts.InexactFloat64())
	set("Ihr Kostenanteil", data.Costs.UnitTotalCosts.InexactFloat64())
	set("Hausgeld Soll", data.Reconciliation.Soll.InexactFloat64())
	set("Hausgeld Ist", data.Reconciliation.Ist.InexactFloat64())
	set(fmt.Sprintf("Saldo (%s)", data.Settlement.Result), data.Settlement.Saldo.InexactFloat64())
	if !data.External.IsZero() {
		row++
		set("Heizkosten Ihr Anteil", data.External.HeatingUnitShare.InexactFloat64())
		set("Wasserkosten Ihr Anteil", data.External.WaterUnitShare.InexactFloat64())
	}
	if len(data.Tax.Items) > 0 {
		row++
		set("Steuerlich anrechenbar (§ 35a EStG)", data.Tax.TotalDeductible.InexactFloat64())
	}
	if data.Projection != nil {
		row++
		set(fmt.Sprintf("Wirtschaftsplan %d geplante Kosten", data.Projection.Year), data.Projection.PlannedCosts.InexactFloat64())
		set("Monatliches Hausgeld (Plan)", data.Projection.MonthlyAdvance.InexactFloat64())
	}
}

func (r *XLSXRenderer) writeLines(f *excelize.File, sheet string, data *domain.StatementData) {
	headers := []string{"Konto", "Bezeichnung", "Kategorie", "Schlüssel", "Gesamt", "Ihr Anteil", "Buchungen", "Hinweis"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	writeGroups := func(groups []domain.CostGroup) {
		for _, g := range groups {
			values := []any{
				g.AccountNumber,
				g.Description,
				string(g.Category),
				string(g.Key),
				g.Total.InexactFloat64(),
				g.UnitShare.InexactFloat64(),
				g.TransactionCount,
				g.Note,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}
	writeGroups(data.Costs.LevyableGroups)
	writeGroups(data.Costs.NonLevyableGroups)
	writeGroups(data.Costs.ReserveGroups)
}
