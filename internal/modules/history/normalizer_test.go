package history

import (
	"errors"
	"math"
	"testing"

	"github.com/intrinsiq/valuation-engine/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeFallbackOrder(t *testing.T) {
	set := StatementSet{
		Income: []IncomeStatement{
			{
				FiscalYear:      2023,
				Revenue:         1000,
				OperatingIncome: 150, // no explicit EBIT
				// no EBITDA, no income-statement D&A
			},
		},
		Balance: []BalanceSheet{
			{
				FiscalYear:         2023,
				CurrentAssets:      300,
				CurrentLiabilities: 120,
				CashAndEquivalents: 100,
				TotalDebt:          200,
				TotalEquity:        500, // no explicit book value
				// no explicit invested capital
			},
		},
		CashFlow: []CashFlowStatement{
			{
				FiscalYear:               2023,
				Capex:                    -80, // reported as outflow
				DepreciationAmortization: 50,
				DividendsPaid:            -20,
			},
		},
	}

	records := Normalize(set)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	rec := records[0]

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{name: "EBIT falls back to operating income", got: rec.EBIT, expected: 150},
		{name: "Depreciation falls back to cash-flow D&A", got: rec.Depreciation, expected: 50},
		{name: "EBITDA derives from EBIT plus depreciation", got: rec.EBITDA, expected: 200},
		{name: "Book value falls back to total equity", got: rec.BookValue, expected: 500},
		{name: "Invested capital derives from debt plus book value", got: rec.InvestedCapital, expected: 700},
		{name: "NWC excludes cash", got: rec.NetWorkingCapital, expected: 80},
		{name: "Capex normalized to positive", got: rec.Capex, expected: 80},
		{name: "Dividends normalized to positive", got: rec.Dividends, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !almostEqual(tt.got, tt.expected) {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestNormalizeExplicitFieldsWin(t *testing.T) {
	set := StatementSet{
		Income: []IncomeStatement{
			{
				FiscalYear:               2023,
				Revenue:                  1000,
				EBITDA:                   220,
				EBIT:                     180,
				OperatingIncome:          150,
				DepreciationAmortization: 40,
			},
		},
		Balance: []BalanceSheet{
			{
				FiscalYear:      2023,
				TotalDebt:       200,
				TotalEquity:     500,
				BookValue:       480,
				InvestedCapital: 650,
			},
		},
	}

	rec := Normalize(set)[0]
	if rec.EBIT != 180 {
		t.Errorf("Explicit EBIT = %v, want 180", rec.EBIT)
	}
	if rec.EBITDA != 220 {
		t.Errorf("Explicit EBITDA = %v, want 220", rec.EBITDA)
	}
	if rec.Depreciation != 40 {
		t.Errorf("Income-statement D&A = %v, want 40", rec.Depreciation)
	}
	if rec.BookValue != 480 {
		t.Errorf("Explicit book value = %v, want 480", rec.BookValue)
	}
	if rec.InvestedCapital != 650 {
		t.Errorf("Explicit invested capital = %v, want 650", rec.InvestedCapital)
	}
}

func TestNormalizeAlignsYears(t *testing.T) {
	set := StatementSet{
		Income: []IncomeStatement{
			{FiscalYear: 2023, Revenue: 1100},
			{FiscalYear: 2021, Revenue: 900},
		},
		Balance: []BalanceSheet{
			{FiscalYear: 2022, TotalEquity: 400},
		},
	}

	records := Normalize(set)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// Oldest first, one record per distinct fiscal year
	years := []int{records[0].FiscalYear, records[1].FiscalYear, records[2].FiscalYear}
	if years[0] != 2021 || years[1] != 2022 || years[2] != 2023 {
		t.Errorf("Years = %v, want [2021 2022 2023]", years)
	}

	// 2022 has no income statement: revenue is zero, equity carried from balance
	if records[1].Revenue != 0 {
		t.Errorf("2022 revenue = %v, want 0", records[1].Revenue)
	}
	if records[1].BookValue != 400 {
		t.Errorf("2022 book value = %v, want 400", records[1].BookValue)
	}
}

func TestDeriveRatios(t *testing.T) {
	records := []domain.FiscalPeriodRecord{
		{Revenue: 1000, EBITDA: 200, Capex: 50, NetWorkingCapital: 100, Depreciation: 30, NetIncome: 100, Dividends: 40},
		{Revenue: 0, EBITDA: 999, Capex: 999, NetWorkingCapital: 999, Depreciation: 999, NetIncome: -10, Dividends: 5},
		{Revenue: 2000, EBITDA: 500, Capex: 100, NetWorkingCapital: 300, Depreciation: 80, NetIncome: 200, Dividends: 100},
	}
	set := StatementSet{
		Income: []IncomeStatement{
			{FiscalYear: 2021, PretaxIncome: 100, TaxExpense: 25},
			{FiscalYear: 2022, PretaxIncome: 0, TaxExpense: 5}, // excluded: zero pretax
			{FiscalYear: 2023, PretaxIncome: 200, TaxExpense: 70},
		},
	}

	ratios := DeriveRatios(records, set)

	// Zero-revenue period must not contribute to revenue-denominated ratios
	if !almostEqual(ratios.EBITDAMargin, (0.20+0.25)/2) {
		t.Errorf("EBITDAMargin = %v, want 0.225", ratios.EBITDAMargin)
	}
	if !almostEqual(ratios.CapexPct, 0.05) {
		t.Errorf("CapexPct = %v, want 0.05", ratios.CapexPct)
	}
	if !almostEqual(ratios.NWCPct, (0.10+0.15)/2) {
		t.Errorf("NWCPct = %v, want 0.125", ratios.NWCPct)
	}
	if !almostEqual(ratios.DepreciationRate, (0.03+0.04)/2) {
		t.Errorf("DepreciationRate = %v, want 0.035", ratios.DepreciationRate)
	}
	// Payout averages only profitable periods
	if !almostEqual(ratios.PayoutRatio, (0.40+0.50)/2) {
		t.Errorf("PayoutRatio = %v, want 0.45", ratios.PayoutRatio)
	}
	// Tax rate averages only periods with non-zero pretax income
	if !almostEqual(ratios.TaxRate, (0.25+0.35)/2) {
		t.Errorf("TaxRate = %v, want 0.30", ratios.TaxRate)
	}
}

func TestAverageGrowth(t *testing.T) {
	records := []domain.FiscalPeriodRecord{
		{FiscalYear: 2021, Revenue: 800},
		{FiscalYear: 2022, Revenue: 900},
		{FiscalYear: 2023, Revenue: 1000},
	}

	growth, err := AverageGrowth(records)
	if err != nil {
		t.Fatalf("AverageGrowth failed: %v", err)
	}
	expected := (900.0/800.0 - 1 + (1000.0/900.0 - 1)) / 2
	if !almostEqual(growth, expected) {
		t.Errorf("AverageGrowth = %v, want %v", growth, expected)
	}
}

func TestAverageGrowthInsufficientHistory(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.FiscalPeriodRecord
	}{
		{name: "No records", records: nil},
		{name: "Single record", records: []domain.FiscalPeriodRecord{{Revenue: 1000}}},
		{
			name: "Zero prior revenue leaves no usable pairs",
			records: []domain.FiscalPeriodRecord{
				{Revenue: 0},
				{Revenue: 1000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AverageGrowth(tt.records)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var insufficient *domain.InsufficientHistoryError
			if !errors.As(err, &insufficient) {
				t.Errorf("Expected InsufficientHistoryError, got %T", err)
			}
		})
	}
}
