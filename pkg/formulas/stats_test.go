package formulas

import (
	"math"
	"testing"
)

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		y        float64
		def      float64
		expected float64
	}{
		{name: "Normal division", x: 10, y: 4, def: 0, expected: 2.5},
		{name: "Zero denominator returns default", x: 10, y: 0, def: -1, expected: -1},
		{name: "Zero numerator", x: 0, y: 5, def: 99, expected: 0},
		{name: "Negative values", x: -9, y: 3, def: 0, expected: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeDivide(tt.x, tt.y, tt.def); got != tt.expected {
				t.Errorf("SafeDivide(%v, %v, %v) = %v, want %v", tt.x, tt.y, tt.def, got, tt.expected)
			}
		})
	}
}

func TestMeanAndStdDev(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{2, 4, 6}); got != 4 {
		t.Errorf("Mean = %v, want 4", got)
	}
	if got := StdDev([]float64{5}); got != 0 {
		t.Errorf("StdDev of single value = %v, want 0", got)
	}
	// Sample std dev of {2, 4, 6} is 2
	if got := StdDev([]float64{2, 4, 6}); math.Abs(got-2) > 1e-9 {
		t.Errorf("StdDev = %v, want 2", got)
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{3, 1, 2} // unsorted on purpose

	if got := Median(data); got != 2 {
		t.Errorf("Median = %v, want 2", got)
	}
	if got := Percentile(data, 1.0); got != 3 {
		t.Errorf("Percentile(1.0) = %v, want 3", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile of empty = %v, want 0", got)
	}

	// Input must not be mutated by the internal sort
	if data[0] != 3 || data[1] != 1 || data[2] != 2 {
		t.Errorf("Percentile mutated its input: %v", data)
	}
}

func TestReturns(t *testing.T) {
	got := Returns([]float64{100, 110, 99})
	want := []float64{0.10, -0.10}
	if len(got) != len(want) {
		t.Fatalf("Returns length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Returns[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := Returns([]float64{100}); len(got) != 0 {
		t.Errorf("Returns of single value = %v, want empty", got)
	}
	// Zero prior value contributes a zero return rather than Inf
	if got := Returns([]float64{0, 50}); got[0] != 0 {
		t.Errorf("Return after zero value = %v, want 0", got[0])
	}
}

func TestCalculateSharpeRatio(t *testing.T) {
	if got := CalculateSharpeRatio([]float64{0.01}, 0.02, 52); got != nil {
		t.Errorf("Sharpe with one return = %v, want nil", *got)
	}
	if got := CalculateSharpeRatio([]float64{0.01, 0.01, 0.01}, 0.02, 52); got != nil {
		t.Errorf("Sharpe with zero variance = %v, want nil", *got)
	}

	got := CalculateSharpeRatio([]float64{0.02, -0.01, 0.03, 0.0}, 0.0, 52)
	if got == nil {
		t.Fatal("Expected Sharpe ratio, got nil")
	}
	if *got <= 0 {
		t.Errorf("Positive mean return at zero risk-free should give positive Sharpe, got %v", *got)
	}
}

func TestAnnualizedReturn(t *testing.T) {
	// One full year of weekly periods annualizes to itself
	if got := AnnualizedReturn(0.10, 52, 52); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("AnnualizedReturn over one year = %v, want 0.10", got)
	}
	// Two years: (1.21)^(1/2) - 1 = 0.10
	if got := AnnualizedReturn(0.21, 104, 52); math.Abs(got-0.10) > 1e-9 {
		t.Errorf("AnnualizedReturn over two years = %v, want 0.10", got)
	}
	if got := AnnualizedReturn(0.10, 0, 52); got != 0 {
		t.Errorf("AnnualizedReturn with zero periods = %v, want 0", got)
	}
	if got := AnnualizedReturn(-1.0, 52, 52); got != 0 {
		t.Errorf("AnnualizedReturn of total loss = %v, want 0", got)
	}
}

func TestCalculateMaxDrawdown(t *testing.T) {
	if got := CalculateMaxDrawdown([]float64{100}); got != nil {
		t.Errorf("Max drawdown of single point = %v, want nil", *got)
	}

	got := CalculateMaxDrawdown([]float64{100, 120, 90, 110})
	if got == nil {
		t.Fatal("Expected drawdown, got nil")
	}
	// Peak 120 down to 90 is a 25% drawdown
	if math.Abs(*got-0.25) > 1e-9 {
		t.Errorf("Max drawdown = %v, want 0.25", *got)
	}

	flat := CalculateMaxDrawdown([]float64{100, 100, 100})
	if flat == nil || *flat != 0 {
		t.Errorf("Flat curve drawdown = %v, want 0", flat)
	}
}
