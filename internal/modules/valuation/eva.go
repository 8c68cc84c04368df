package valuation

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
)

// EVAModel values the enterprise as beginning invested capital plus the
// discounted stream of economic value added (NOPAT in excess of the
// capital charge on the prior period's invested capital).
type EVAModel struct{}

// Kind returns the model identifier.
func (m *EVAModel) Kind() Kind { return KindEVA }

// Valuate runs the economic-value-added valuation.
func (m *EVAModel) Valuate(in Inputs, log zerolog.Logger) (*Result, error) {
	base, ok := in.Base()
	if !ok {
		return nil, &domain.MissingDataError{Model: string(KindEVA), Field: "historical periods"}
	}
	if base.InvestedCapital == 0 {
		return nil, &domain.MissingDataError{Model: string(KindEVA), Field: "invested_capital"}
	}

	projection := forecast.Project(base, in.Assumptions, in.Horizon)
	wacc := in.rate(in.Assumptions.WACC())

	evas := make([]float64, 0, projection.Horizon())
	beginIC := base.InvestedCapital
	for _, p := range projection.Periods {
		evas = append(evas, p.NOPAT-wacc*beginIC)
		beginIC = p.InvestedCapital
	}

	pvStream := discountStream(evas, wacc)

	var tv, pvTerminal float64
	if n := len(evas); n > 0 {
		tv = terminalValue(evas[n-1], wacc, in.Assumptions.TerminalGrowth, log)
		pvTerminal = presentValue(tv, wacc, n)
	}

	enterpriseValue := base.InvestedCapital + pvStream + pvTerminal
	equityValue := equityFromEnterprise(enterpriseValue, base, in.Snapshot)

	return &Result{
		Kind:               KindEVA,
		EnterpriseValue:    enterpriseValue,
		EquityValue:        equityValue,
		ValuePerShare:      perShare(equityValue, in.Snapshot),
		DiscountRate:       wacc,
		TerminalValue:      tv,
		TerminalValueShare: terminalShare(pvTerminal, enterpriseValue),
		Projection:         projection,
	}, nil
}
