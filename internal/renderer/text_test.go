package renderer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	"github.com/wegsoft/weg_abrechnung_app/internal/renderer"
)

func statementFixture() *domain.StatementData {
	ownership, _ := domain.ParseFraction("500/1000")
	return &domain.StatementData{
		Property: domain.Property{
			PropertyID: "prop-1",
			Name:       "WEG Musterstraße 1",
			Address:    "Musterstraße 1, 50667 Köln",
		},
		Unit: domain.Unit{
			UnitID:    "unit-1",
			Number:    "WE 01",
			OwnerName: "Familie Schmidt",
			Ownership: ownership,
		},
		Year: 2023,
		Costs: domain.CostSummary{
			LevyableGroups: []domain.CostGroup{
				{
					AccountNumber:    "4100",
					Description:      "Hausmeister",
					Category:         domain.LevyableOther,
					Key:              domain.KeyEqual,
					Total:            decimal.NewFromInt(1000),
					UnitShare:        decimal.NewFromInt(500),
					TransactionCount: 4,
				},
			},
			NonLevyableGroups: []domain.CostGroup{
				{
					AccountNumber: "5100",
					Description:   "Verwaltung",
					Category:      domain.NonLevyable,
					Key:           domain.KeyOwnership,
					Total:         decimal.NewFromInt(400),
					UnitShare:     decimal.NewFromInt(200),
				},
			},
			TotalCosts:     decimal.NewFromInt(1400),
			UnitTotalCosts: decimal.NewFromInt(700),
		},
		Reconciliation: domain.Reconciliation{
			Soll:      decimal.NewFromInt(600),
			Ist:       decimal.NewFromInt(600),
			Differenz: decimal.Zero,
			Status:    domain.Surplus,
		},
		PropertyRecon: domain.Reconciliation{
			Soll:   decimal.NewFromInt(1200),
			Ist:    decimal.NewFromInt(1150),
			Status: domain.Shortfall,
		},
		Settlement: domain.Settlement{
			Saldo:  decimal.NewFromInt(100),
			Result: domain.BackPayment,
		},
		Payments: []domain.Transaction{
			{
				Date:        time.Date(2023, time.January, 3, 0, 0, 0, 0, time.UTC),
				Description: "Hausgeld Januar",
				Amount:      decimal.NewFromInt(300),
			},
		},
	}
}

func TestTextRenderer_CoreSections(t *testing.T) {
	output, err := renderer.NewTextRenderer("").Render(statementFixture())

	require.NoError(t, err)
	text := string(output)

	assert.Contains(t, text, "JAHRESABRECHNUNG 2023")
	assert.Contains(t, text, "WEG Musterstraße 1")
	assert.Contains(t, text, "Familie Schmidt")
	assert.Contains(t, text, "ABRECHNUNGSERGEBNIS")
	assert.Contains(t, text, "Saldo (Nachzahlung)")
	assert.Contains(t, text, "Umlagefähige Kosten")
	assert.Contains(t, text, "Nicht umlagefähige Kosten")
	assert.Contains(t, text, "GESAMTKOSTEN")
	assert.Contains(t, text, "HAUSGELD 2023")
	assert.Contains(t, text, "Hausgeld Januar")

	// German number formatting throughout.
	assert.Contains(t, text, "1.400,00")
	assert.Contains(t, text, "700,00")

	// Key legend lists only the keys in use.
	assert.Contains(t, text, "03 Anzahl Einheiten")
	assert.Contains(t, text, "05 Miteigentumsanteile")
	assert.NotContains(t, text, "06 Anteile Hebeanlage")
}

func TestTextRenderer_OptionalSectionsOmitted(t *testing.T) {
	data := statementFixture()
	// No external costs, no reserve, no balance, no projection, no tax.
	output, err := renderer.NewTextRenderer("").Render(data)

	require.NoError(t, err)
	text := string(output)

	assert.NotContains(t, text, "externer Abrechnung")
	assert.NotContains(t, text, "Instandhaltungsrücklage")
	assert.NotContains(t, text, "KONTOSTANDSENTWICKLUNG")
	assert.NotContains(t, text, "WIRTSCHAFTSPLAN")
	assert.NotContains(t, text, "35a")
}

func TestTextRenderer_OptionalSectionsPresent(t *testing.T) {
	data := statementFixture()
	data.External = domain.ExternalCosts{
		HeatingTotal:     decimal.NewFromInt(2000),
		HeatingUnitShare: decimal.NewFromFloat(823.11),
		WaterTotal:       decimal.NewFromInt(800),
		WaterUnitShare:   decimal.NewFromFloat(312.44),
	}
	data.Costs.ReserveGroups = []domain.CostGroup{
		{AccountNumber: "6100", Description: "Zuführung Rücklage", Key: domain.KeyOwnership,
			Total: decimal.NewFromInt(2400), UnitShare: decimal.NewFromInt(1200)},
	}
	data.Balance = &domain.BalanceSummary{
		OpeningBalance: decimal.NewFromInt(5000),
		ClosingBalance: decimal.NewFromInt(5100),
		NetChange:      decimal.NewFromInt(100),
		Months: []domain.MonthlyBalanceRecord{
			{Year: 2023, Month: 1, OpeningBalance: decimal.NewFromInt(5000), ClosingBalance: decimal.NewFromInt(5100)},
		},
	}
	data.Projection = &domain.BudgetProjection{
		Year:           2024,
		PlannedCosts:   decimal.NewFromInt(12000),
		MonthlyAdvance: decimal.NewFromInt(260),
	}
	data.Tax = domain.TaxDeduction{
		Items: []domain.TaxDeductionItem{
			{AccountNumber: "4100", Description: "Hausmeister",
				GroupTotal: decimal.NewFromInt(1000), LaborPercent: decimal.NewFromFloat(0.8),
				UnitCostShare: decimal.NewFromInt(500), UnitDeductible: decimal.NewFromInt(400)},
		},
		TotalDeductible: decimal.NewFromInt(400),
	}

	output, err := renderer.NewTextRenderer("Erstellt mit WEGSoft").Render(data)

	require.NoError(t, err)
	text := string(output)

	assert.Contains(t, text, "Heiz- und Wasserkosten lt. externer Abrechnung")
	assert.Contains(t, text, "823,11")
	assert.Contains(t, text, "Instandhaltungsrücklage")
	assert.Contains(t, text, "KONTOSTANDSENTWICKLUNG 2023")
	assert.Contains(t, text, "WIRTSCHAFTSPLAN 2024 (Vorschau)")
	assert.Contains(t, text, "§ 35a EStG")
	assert.Contains(t, text, "80,00 %")
	assert.Contains(t, text, "Erstellt mit WEGSoft")

	// External metering pulls the 01/02 legend entries in.
	assert.Contains(t, text, "01 Heizkosten lt. Abrechnung")
	assert.Contains(t, text, "02 Wasserkosten lt. Abrechnung")
}

func TestTextRenderer_GroupNoteShown(t *testing.T) {
	data := statementFixture()
	data.Costs.LevyableGroups[0].Note = "Verteilung fehlgeschlagen: unbekannter Schlüssel"

	output, err := renderer.NewTextRenderer("").Render(data)

	require.NoError(t, err)
	assert.Contains(t, string(output), "! Verteilung fehlgeschlagen")
}

func TestTextRenderer_NilData(t *testing.T) {
	_, err := renderer.NewTextRenderer("").Render(nil)
	assert.Error(t, err)
}

func TestTextRenderer_SaldoShownAsAbsoluteValue(t *testing.T) {
	data := statementFixture()
	data.Settlement = domain.Settlement{
		Saldo:  decimal.NewFromFloat(-87.60),
		Result: domain.CreditOwed,
	}

	output, err := renderer.NewTextRenderer("").Render(data)

	require.NoError(t, err)
	text := string(output)
	assert.Contains(t, text, "Saldo (Guthaben)")
	assert.Contains(t, text, "87,60")
	assert.False(t, strings.Contains(text, "-87,60"), "credit is labeled, not sign-prefixed")
}

func TestPDFAndXLSXRenderersProduceOutput(t *testing.T) {
	data := statementFixture()

	pdfOut, err := renderer.NewPDFRenderer("Erstellt mit WEGSoft").Render(data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfOut), "%PDF"), "PDF magic header expected")

	xlsxOut, err := renderer.NewXLSXRenderer().Render(data)
	require.NoError(t, err)
	// XLSX is a ZIP container.
	require.True(t, len(xlsxOut) > 4)
	assert.Equal(t, []byte{'P', 'K'}, xlsxOut[:2])
}
