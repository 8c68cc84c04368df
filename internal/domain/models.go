package domain

import "time"

// FiscalPeriodRecord holds the normalized facts for one fiscal period.
// Records are created once by the history normalizer and never mutated.
type FiscalPeriodRecord struct {
	FiscalYear        int     `json:"fiscal_year"`
	Revenue           float64 `json:"revenue"`
	EBITDA            float64 `json:"ebitda"`
	EBIT              float64 `json:"ebit"`
	Depreciation      float64 `json:"depreciation"`
	Capex             float64 `json:"capex"`
	NetWorkingCapital float64 `json:"net_working_capital"`
	NetIncome         float64 `json:"net_income"`
	Dividends         float64 `json:"dividends"`
	TotalDebt         float64 `json:"total_debt"`
	BookValue         float64 `json:"book_value"`
	InvestedCapital   float64 `json:"invested_capital"`
}

// MarketSnapshot holds the market-side inputs supplied by collaborators.
type MarketSnapshot struct {
	SharePrice         float64 `json:"share_price"`
	SharesOutstanding  float64 `json:"shares_outstanding"`
	Beta               float64 `json:"beta"`
	RiskFreeRate       float64 `json:"risk_free_rate"`
	MarketPremium      float64 `json:"market_premium"`
	CostOfDebt         float64 `json:"cost_of_debt"`
	CashAndEquivalents float64 `json:"cash_and_equivalents"`
}

// GrowthEstimate is an optional externally supplied growth figure
// (analyst consensus) that overrides the historical average when present.
type GrowthEstimate struct {
	FiscalYear int     `json:"fiscal_year"`
	Growth     float64 `json:"growth"`
}

// PricePoint is one observation of a weekly price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ValuationPoint is a point-in-time intrinsic value: it applies from its
// publish date until the next point's publish date.
type ValuationPoint struct {
	FiscalYear  int       `json:"fiscal_year"`
	PublishDate time.Time `json:"publish_date"`
	Value       float64   `json:"value"`
}
