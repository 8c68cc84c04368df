package valuation

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
)

// DCFModel discounts free cash flow to the firm at WACC. The discounted
// stream plus terminal value is an enterprise value, converted to equity
// by stripping net debt.
type DCFModel struct{}

// Kind returns the model identifier.
func (m *DCFModel) Kind() Kind { return KindDCF }

// Valuate runs the FCFF discounted-cash-flow valuation.
func (m *DCFModel) Valuate(in Inputs, log zerolog.Logger) (*Result, error) {
	base, ok := in.Base()
	if !ok {
		return nil, &domain.MissingDataError{Model: string(KindDCF), Field: "historical periods"}
	}
	if base.Revenue == 0 {
		return nil, &domain.MissingDataError{Model: string(KindDCF), Field: "revenue"}
	}

	projection := forecast.Project(base, in.Assumptions, in.Horizon)
	wacc := in.rate(in.Assumptions.WACC())

	cashFlows := make([]float64, 0, projection.Horizon())
	for _, p := range projection.Periods {
		cashFlows = append(cashFlows, p.FCFF)
	}

	pvStream := discountStream(cashFlows, wacc)

	var tv, pvTerminal float64
	if n := len(cashFlows); n > 0 {
		tv = terminalValue(cashFlows[n-1], wacc, in.Assumptions.TerminalGrowth, log)
		pvTerminal = presentValue(tv, wacc, n)
	}

	enterpriseValue := pvStream + pvTerminal
	equityValue := equityFromEnterprise(enterpriseValue, base, in.Snapshot)

	return &Result{
		Kind:               KindDCF,
		EnterpriseValue:    enterpriseValue,
		EquityValue:        equityValue,
		ValuePerShare:      perShare(equityValue, in.Snapshot),
		DiscountRate:       wacc,
		TerminalValue:      tv,
		TerminalValueShare: terminalShare(pvTerminal, enterpriseValue),
		Projection:         projection,
	}, nil
}
