package valuation

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// Terminal-growth clamp bounds. A growth rate at or above the discount
// rate would make the perpetuity formula blow up, so g is pulled down to
// min(g, 0.8*r, 5%). Recovery is logged, never surfaced as a failure.
const (
	maxTerminalGrowth      = 0.05
	terminalGrowthRateFrac = 0.8
)

// presentValue discounts a single cash flow received at the end of period i.
func presentValue(cf, r float64, i int) float64 {
	return cf / math.Pow(1+r, float64(i))
}

// discountStream returns the sum of present values of the stream, where
// cashFlows[0] is received at the end of period 1.
func discountStream(cashFlows []float64, r float64) float64 {
	var pv float64
	for i, cf := range cashFlows {
		pv += presentValue(cf, r, i+1)
	}
	return pv
}

// clampTerminalGrowth applies the clamp rule whenever g is not strictly
// below the discount rate or exceeds the 5% long-run ceiling.
func clampTerminalGrowth(g, r float64, log zerolog.Logger) float64 {
	if g < r && g <= maxTerminalGrowth {
		return g
	}

	clamped := math.Min(g, math.Min(terminalGrowthRateFrac*r, maxTerminalGrowth))
	log.Warn().
		Float64("growth", g).
		Float64("rate", r).
		Float64("clamped", clamped).
		Msg("Terminal growth clamped")
	return clamped
}

// terminalValue computes the perpetuity-growth terminal value of the last
// cash flow: TV = CF * (1+g) / (r - g), with g clamped as needed.
func terminalValue(lastCF, r, g float64, log zerolog.Logger) float64 {
	g = clampTerminalGrowth(g, r, log)
	return formulas.SafeDivide(lastCF*(1+g), r-g, 0)
}

// equityFromEnterprise converts an enterprise value to an equity value by
// stripping net debt: EV - debt + cash.
func equityFromEnterprise(ev float64, base domain.FiscalPeriodRecord, snapshot domain.MarketSnapshot) float64 {
	return ev - base.TotalDebt + snapshot.CashAndEquivalents
}

// perShare divides an equity value by shares outstanding, tolerating a
// missing share count.
func perShare(equityValue float64, snapshot domain.MarketSnapshot) float64 {
	return formulas.SafeDivide(equityValue, snapshot.SharesOutstanding, 0)
}

// terminalShare returns the fraction of the total discounted value that
// comes from the terminal value.
func terminalShare(pvTerminal, total float64) float64 {
	return formulas.SafeDivide(pvTerminal, total, 0)
}
