package valuation

import (
	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
)

// Kind identifies one of the five valuation methodologies.
type Kind string

const (
	KindDCF  Kind = "dcf"
	KindFCFE Kind = "fcfe"
	KindRIM  Kind = "rim"
	KindEVA  Kind = "eva"
	KindAPV  Kind = "apv"
)

// Kinds lists the model kinds in their canonical run order.
var Kinds = []Kind{KindDCF, KindFCFE, KindRIM, KindEVA, KindAPV}

// Inputs bundles everything a model run consumes. Each run derives its own
// private Projection from these, so concurrent runs share nothing mutable.
type Inputs struct {
	Records     []domain.FiscalPeriodRecord `json:"records"`
	Snapshot    domain.MarketSnapshot       `json:"snapshot"`
	Assumptions forecast.Assumptions        `json:"assumptions"`
	Horizon     int                         `json:"horizon"`

	// DiscountRate, when set, replaces the model's derived rate. Used by
	// the sensitivity sweep to pin a grid cell's rate.
	DiscountRate *float64 `json:"discount_rate,omitempty"`
}

// rate returns the effective discount rate: the override when present,
// otherwise the model's derived rate.
func (in Inputs) rate(derived float64) float64 {
	if in.DiscountRate != nil {
		return *in.DiscountRate
	}
	return derived
}

// Base returns the most recent historical period.
func (in Inputs) Base() (domain.FiscalPeriodRecord, bool) {
	if len(in.Records) == 0 {
		return domain.FiscalPeriodRecord{}, false
	}
	return in.Records[len(in.Records)-1], true
}

// Result is the immutable output of one successful model run.
type Result struct {
	Kind               Kind                `json:"kind"`
	EnterpriseValue    float64             `json:"enterprise_value,omitempty"`
	EquityValue        float64             `json:"equity_value"`
	ValuePerShare      float64             `json:"value_per_share"`
	DiscountRate       float64             `json:"discount_rate"`
	TerminalValue      float64             `json:"terminal_value"`
	TerminalValueShare float64             `json:"terminal_value_share"`
	Projection         forecast.Projection `json:"projection"`
	Sensitivity        *Grid               `json:"sensitivity,omitempty"`
}

// Outcome is the per-model envelope returned by batch runs. A failed model
// never aborts its siblings; the failure is carried here as data.
type Outcome struct {
	Kind       Kind    `json:"kind"`
	Success    bool    `json:"success"`
	Result     *Result `json:"result,omitempty"`
	Error      string  `json:"error,omitempty"`
	Suggestion string  `json:"suggestion,omitempty"`
}
