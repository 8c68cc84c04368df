package history

import (
	"encoding/json"
	"testing"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "Plain number", raw: "1234.5", expected: 1234.5},
		{name: "Negative number", raw: "-5.5", expected: -5.5},
		{name: "Thousands separators", raw: "1,234,567.8", expected: 1234567.8},
		{name: "Accounting negative", raw: "(1,234.5)", expected: -1234.5},
		{name: "Percent suffix", raw: "12%", expected: 0.12},
		{name: "Surrounding whitespace", raw: "  42  ", expected: 42},
		{name: "Empty string", raw: "", expected: 0},
		{name: "None placeholder", raw: "None", expected: 0},
		{name: "N/A placeholder", raw: "n/a", expected: 0},
		{name: "Dash placeholder", raw: "-", expected: 0},
		{name: "Double dash placeholder", raw: "--", expected: 0},
		{name: "JSON null token", raw: "null", expected: 0},
		{name: "Garbage coerces to zero", raw: "abc", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.raw); got != tt.expected {
				t.Errorf("Coerce(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestFlexFloatUnmarshal(t *testing.T) {
	payload := `{
		"fiscal_year": 2023,
		"revenue": "1,000.5",
		"ebitda": null,
		"ebit": 150,
		"operating_income": "None",
		"depreciation_amortization": "(25)"
	}`

	var is IncomeStatement
	if err := json.Unmarshal([]byte(payload), &is); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if is.FiscalYear != 2023 {
		t.Errorf("FiscalYear = %d, want 2023", is.FiscalYear)
	}
	if got := is.Revenue.Float64(); got != 1000.5 {
		t.Errorf("Revenue = %v, want 1000.5", got)
	}
	if got := is.EBITDA.Float64(); got != 0 {
		t.Errorf("EBITDA from null = %v, want 0", got)
	}
	if got := is.EBIT.Float64(); got != 150 {
		t.Errorf("EBIT = %v, want 150", got)
	}
	if got := is.OperatingIncome.Float64(); got != 0 {
		t.Errorf("OperatingIncome from None = %v, want 0", got)
	}
	if got := is.DepreciationAmortization.Float64(); got != -25 {
		t.Errorf("D&A from accounting negative = %v, want -25", got)
	}
}
