package valuation

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
)

// FCFEModel discounts free cash flow to equity at the CAPM cost of
// equity, yielding an equity value directly.
type FCFEModel struct{}

// Kind returns the model identifier.
func (m *FCFEModel) Kind() Kind { return KindFCFE }

// Valuate runs the free-cash-flow-to-equity valuation.
func (m *FCFEModel) Valuate(in Inputs, log zerolog.Logger) (*Result, error) {
	base, ok := in.Base()
	if !ok {
		return nil, &domain.MissingDataError{Model: string(KindFCFE), Field: "historical periods"}
	}
	if base.Revenue == 0 {
		return nil, &domain.MissingDataError{Model: string(KindFCFE), Field: "revenue"}
	}

	projection := forecast.Project(base, in.Assumptions, in.Horizon)
	costOfEquity := in.rate(in.Assumptions.CostOfEquity())

	cashFlows := make([]float64, 0, projection.Horizon())
	for _, p := range projection.Periods {
		cashFlows = append(cashFlows, p.FCFE)
	}

	pvStream := discountStream(cashFlows, costOfEquity)

	var tv, pvTerminal float64
	if n := len(cashFlows); n > 0 {
		tv = terminalValue(cashFlows[n-1], costOfEquity, in.Assumptions.TerminalGrowth, log)
		pvTerminal = presentValue(tv, costOfEquity, n)
	}

	equityValue := pvStream + pvTerminal

	return &Result{
		Kind:               KindFCFE,
		EquityValue:        equityValue,
		ValuePerShare:      perShare(equityValue, in.Snapshot),
		DiscountRate:       costOfEquity,
		TerminalValue:      tv,
		TerminalValueShare: terminalShare(pvTerminal, equityValue),
		Projection:         projection,
	}, nil
}
