package valuation

import (
	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
)

// APVModel values the firm in two parts: the unlevered FCFF stream
// discounted at the unlevered (de-levered beta) cost of equity, plus the
// interest tax shields discounted at the cost of debt.
type APVModel struct{}

// Kind returns the model identifier.
func (m *APVModel) Kind() Kind { return KindAPV }

// Valuate runs the adjusted-present-value valuation.
func (m *APVModel) Valuate(in Inputs, log zerolog.Logger) (*Result, error) {
	base, ok := in.Base()
	if !ok {
		return nil, &domain.MissingDataError{Model: string(KindAPV), Field: "historical periods"}
	}
	if base.Revenue == 0 {
		return nil, &domain.MissingDataError{Model: string(KindAPV), Field: "revenue"}
	}
	if !hasDebtHistory(in.Records) {
		return nil, &domain.MissingDataError{Model: string(KindAPV), Field: "total_debt"}
	}

	projection := forecast.Project(base, in.Assumptions, in.Horizon)
	unleveredRate := in.rate(in.Assumptions.UnleveredCostOfEquity())
	costOfDebt := in.Assumptions.CostOfDebt

	cashFlows := make([]float64, 0, projection.Horizon())
	shields := make([]float64, 0, projection.Horizon())
	for _, p := range projection.Periods {
		cashFlows = append(cashFlows, p.FCFF)
		shields = append(shields, p.TaxShield)
	}

	pvUnlevered := discountStream(cashFlows, unleveredRate)
	pvShields := discountStream(shields, costOfDebt)

	var tv, pvTerminal float64
	if n := len(cashFlows); n > 0 {
		tv = terminalValue(cashFlows[n-1], unleveredRate, in.Assumptions.TerminalGrowth, log)
		pvTerminal = presentValue(tv, unleveredRate, n)

		// Shields get their own perpetuity at the cost of debt, clamped
		// against that rate independently.
		shieldTV := terminalValue(shields[n-1], costOfDebt, in.Assumptions.TerminalGrowth, log)
		pvShields += presentValue(shieldTV, costOfDebt, n)
	}

	enterpriseValue := pvUnlevered + pvTerminal + pvShields
	equityValue := equityFromEnterprise(enterpriseValue, base, in.Snapshot)

	return &Result{
		Kind:               KindAPV,
		EnterpriseValue:    enterpriseValue,
		EquityValue:        equityValue,
		ValuePerShare:      perShare(equityValue, in.Snapshot),
		DiscountRate:       unleveredRate,
		TerminalValue:      tv,
		TerminalValueShare: terminalShare(pvTerminal, enterpriseValue),
		Projection:         projection,
	}, nil
}

func hasDebtHistory(records []domain.FiscalPeriodRecord) bool {
	for _, rec := range records {
		if rec.TotalDebt != 0 {
			return true
		}
	}
	return false
}
