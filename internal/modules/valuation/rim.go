package valuation

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
)

// RIMModel values equity as beginning book value plus the discounted
// stream of residual income (net income in excess of the equity charge
// on the prior period's book value). At horizon 0 this degenerates to
// exactly the beginning book value.
type RIMModel struct{}

// Kind returns the model identifier.
func (m *RIMModel) Kind() Kind { return KindRIM }

// Valuate runs the residual-income valuation.
func (m *RIMModel) Valuate(in Inputs, log zerolog.Logger) (*Result, error) {
	base, ok := in.Base()
	if !ok {
		return nil, &domain.MissingDataError{Model: string(KindRIM), Field: "historical periods"}
	}
	if base.BookValue == 0 {
		return nil, &domain.MissingDataError{Model: string(KindRIM), Field: "book_value"}
	}

	projection := forecast.Project(base, in.Assumptions, in.Horizon)
	costOfEquity := in.rate(in.Assumptions.CostOfEquity())

	// Residual income per period charges the cost of equity on the
	// beginning (prior-period) book value.
	residuals := make([]float64, 0, projection.Horizon())
	beginBV := base.BookValue
	for _, p := range projection.Periods {
		residuals = append(residuals, p.NetIncome-costOfEquity*beginBV)
		beginBV = p.BookValue
	}

	pvStream := discountStream(residuals, costOfEquity)

	var tv, pvTerminal float64
	if n := len(residuals); n > 0 {
		tv = terminalValue(residuals[n-1], costOfEquity, in.Assumptions.TerminalGrowth, log)
		pvTerminal = presentValue(tv, costOfEquity, n)
	}

	equityValue := base.BookValue + pvStream + pvTerminal

	return &Result{
		Kind:               KindRIM,
		EquityValue:        equityValue,
		ValuePerShare:      perShare(equityValue, in.Snapshot),
		DiscountRate:       costOfEquity,
		TerminalValue:      tv,
		TerminalValueShare: terminalShare(pvTerminal, equityValue),
		Projection:         projection,
	}, nil
}
