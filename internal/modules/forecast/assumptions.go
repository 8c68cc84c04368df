package forecast

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/history"
	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// Defaults applied when history cannot supply an assumption.
const (
	DefaultGrowth         = 0.10
	DefaultTerminalGrowth = 0.025
	DefaultCostOfDebt     = 0.05
)

// Assumptions is a validated forecast assumption vector. Growth holds one
// rate per projection period (the last entry extends if the horizon is
// longer); the remaining operating ratios are flat across the horizon.
type Assumptions struct {
	Growth           []float64 `json:"growth"`
	EBITDAMargin     float64   `json:"ebitda_margin"`
	CapexPct         float64   `json:"capex_pct"`
	NWCPct           float64   `json:"nwc_pct"`
	TaxRate          float64   `json:"tax_rate"`
	DepreciationRate float64   `json:"depreciation_rate"`
	PayoutRatio      float64   `json:"payout_ratio"`
	TerminalGrowth   float64   `json:"terminal_growth"`

	// Discount-rate components
	RiskFreeRate  float64 `json:"risk_free_rate"`
	Beta          float64 `json:"beta"`
	MarketPremium float64 `json:"market_premium"`
	CostOfDebt    float64 `json:"cost_of_debt"`
	DebtWeight    float64 `json:"debt_weight"` // debt / (debt + equity), market values
}

// GrowthFor returns the growth rate for projection period i (1-based).
func (a Assumptions) GrowthFor(i int) float64 {
	if len(a.Growth) == 0 {
		return 0
	}
	if i-1 < len(a.Growth) {
		return a.Growth[i-1]
	}
	return a.Growth[len(a.Growth)-1]
}

// CostOfEquity returns the CAPM cost of equity: rf + beta * market premium.
func (a Assumptions) CostOfEquity() float64 {
	return a.RiskFreeRate + a.Beta*a.MarketPremium
}

// WACC returns the weighted average cost of capital.
func (a Assumptions) WACC() float64 {
	equityWeight := 1 - a.DebtWeight
	return equityWeight*a.CostOfEquity() + a.DebtWeight*a.CostOfDebt*(1-a.TaxRate)
}

// UnleveredCostOfEquity de-levers beta at the assumed capital structure and
// reprices equity via CAPM. Used by the APV model.
func (a Assumptions) UnleveredCostOfEquity() float64 {
	debtToEquity := formulas.SafeDivide(a.DebtWeight, 1-a.DebtWeight, 0)
	unleveredBeta := a.Beta / (1 + (1-a.TaxRate)*debtToEquity)
	return a.RiskFreeRate + unleveredBeta*a.MarketPremium
}

// Build blends historical averages with the market snapshot and optional
// analyst growth estimates into a full assumption vector.
//
// Growth defaults to the historical average; fewer than two periods of
// history is recovered with DefaultGrowth. Analyst estimates override the
// corresponding projection years when present. The terminal growth rate is
// always kept strictly below the discount rate.
func Build(
	records []domain.FiscalPeriodRecord,
	ratios history.Ratios,
	snapshot domain.MarketSnapshot,
	estimates []domain.GrowthEstimate,
	horizon int,
	log zerolog.Logger,
) Assumptions {
	baseGrowth, err := history.AverageGrowth(records)
	if err != nil {
		log.Debug().Err(err).Float64("default", DefaultGrowth).Msg("Using default growth assumption")
		baseGrowth = DefaultGrowth
	}

	growth := make([]float64, horizon)
	for i := range growth {
		growth[i] = baseGrowth
	}

	// Analyst estimates override historical growth for the years they cover.
	if len(records) > 0 && len(estimates) > 0 {
		baseYear := records[len(records)-1].FiscalYear
		for _, est := range estimates {
			idx := est.FiscalYear - baseYear - 1
			if idx >= 0 && idx < horizon {
				growth[idx] = est.Growth
			}
		}
	}

	costOfDebt := snapshot.CostOfDebt
	if costOfDebt == 0 {
		costOfDebt = DefaultCostOfDebt
	}

	var debtWeight float64
	if len(records) > 0 {
		debt := records[len(records)-1].TotalDebt
		equity := snapshot.SharePrice * snapshot.SharesOutstanding
		debtWeight = formulas.SafeDivide(debt, debt+equity, 0)
	}

	a := Assumptions{
		Growth:           growth,
		EBITDAMargin:     ratios.EBITDAMargin,
		CapexPct:         ratios.CapexPct,
		NWCPct:           ratios.NWCPct,
		TaxRate:          ratios.TaxRate,
		DepreciationRate: ratios.DepreciationRate,
		PayoutRatio:      ratios.PayoutRatio,
		TerminalGrowth:   DefaultTerminalGrowth,
		RiskFreeRate:     snapshot.RiskFreeRate,
		Beta:             snapshot.Beta,
		MarketPremium:    snapshot.MarketPremium,
		CostOfDebt:       costOfDebt,
		DebtWeight:       debtWeight,
	}

	// Invariant: terminal growth stays strictly below the discount rate.
	if wacc := a.WACC(); a.TerminalGrowth >= wacc {
		clamped := wacc * 0.8
		log.Warn().
			Float64("terminal_growth", a.TerminalGrowth).
			Float64("wacc", wacc).
			Float64("clamped", clamped).
			Msg("Terminal growth at or above discount rate, clamping")
		a.TerminalGrowth = clamped
	}

	return a
}
