package forecast

import (
	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// Period holds the forecast line items for one future fiscal period.
type Period struct {
	Year         int     `json:"year"` // 1-based offset from the base period
	Revenue      float64 `json:"revenue"`
	EBITDA       float64 `json:"ebitda"`
	Depreciation float64 `json:"depreciation"`
	EBIT         float64 `json:"ebit"`
	Tax          float64 `json:"tax"`
	NOPAT        float64 `json:"nopat"`
	Capex        float64 `json:"capex"`
	NWC          float64 `json:"nwc"`
	DeltaNWC     float64 `json:"delta_nwc"`
	FCFF         float64 `json:"fcff"`

	// Equity-side lines
	InterestExpense float64 `json:"interest_expense"`
	NetIncome       float64 `json:"net_income"`
	Debt            float64 `json:"debt"`
	NetBorrowing    float64 `json:"net_borrowing"`
	Dividends       float64 `json:"dividends"`
	FCFE            float64 `json:"fcfe"`

	// Capital-base lines
	BookValue       float64 `json:"book_value"`
	InvestedCapital float64 `json:"invested_capital"`
	TaxShield       float64 `json:"tax_shield"`
}

// Projection is the ordered forecast derived from one base period and one
// assumption vector. It is owned by the valuation run that created it.
type Projection struct {
	Base    domain.FiscalPeriodRecord `json:"base"`
	Periods []Period                  `json:"periods"`
}

// Horizon returns the number of projected periods.
func (p Projection) Horizon() int {
	return len(p.Periods)
}

// Project deterministically rolls the base period forward for the given
// horizon. All formulas are total: zero denominators resolve through
// SafeDivide to explicit defaults instead of propagating errors.
//
// Per period i:
//
//	revenue_i = revenue_{i-1} * (1 + g_i)
//	EBITDA_i  = revenue_i * margin
//	dep_i     = revenue_i * depRate
//	EBIT_i    = EBITDA_i - dep_i
//	NOPAT_i   = EBIT_i * (1 - tax)
//	capex_i   = revenue_i * capexPct
//	NWC_i     = revenue_i * nwcPct; dNWC_i = NWC_i - NWC_{i-1}
//	FCFF_i    = NOPAT_i + dep_i - capex_i - dNWC_i
//
// Debt is carried at the base period's debt-to-revenue ratio, which makes
// net borrowing grow with revenue; net income nets interest out of EBIT;
// dividends follow the assumed payout ratio; book value and invested
// capital accrete by the standard clean-surplus identities.
func Project(base domain.FiscalPeriodRecord, a Assumptions, horizon int) Projection {
	periods := make([]Period, 0, horizon)

	debtToRevenue := formulas.SafeDivide(base.TotalDebt, base.Revenue, 0)

	prevRevenue := base.Revenue
	prevNWC := base.NetWorkingCapital
	prevDebt := base.TotalDebt
	prevBookValue := base.BookValue
	prevInvestedCapital := base.InvestedCapital

	for i := 1; i <= horizon; i++ {
		revenue := prevRevenue * (1 + a.GrowthFor(i))
		ebitda := revenue * a.EBITDAMargin
		depreciation := revenue * a.DepreciationRate
		ebit := ebitda - depreciation
		tax := ebit * a.TaxRate
		nopat := ebit - tax
		capex := revenue * a.CapexPct
		nwc := revenue * a.NWCPct
		deltaNWC := nwc - prevNWC
		fcff := nopat + depreciation - capex - deltaNWC

		interest := prevDebt * a.CostOfDebt
		netIncome := (ebit - interest) * (1 - a.TaxRate)
		debt := revenue * debtToRevenue
		netBorrowing := debt - prevDebt
		dividends := a.PayoutRatio * netIncome
		if dividends < 0 {
			dividends = 0
		}
		fcfe := netIncome + depreciation - capex - deltaNWC + netBorrowing

		bookValue := prevBookValue + netIncome - dividends
		investedCapital := prevInvestedCapital + capex - depreciation + deltaNWC
		taxShield := interest * a.TaxRate

		periods = append(periods, Period{
			Year:            i,
			Revenue:         revenue,
			EBITDA:          ebitda,
			Depreciation:    depreciation,
			EBIT:            ebit,
			Tax:             tax,
			NOPAT:           nopat,
			Capex:           capex,
			NWC:             nwc,
			DeltaNWC:        deltaNWC,
			FCFF:            fcff,
			InterestExpense: interest,
			NetIncome:       netIncome,
			Debt:            debt,
			NetBorrowing:    netBorrowing,
			Dividends:       dividends,
			FCFE:            fcfe,
			BookValue:       bookValue,
			InvestedCapital: investedCapital,
			TaxShield:       taxShield,
		})

		prevRevenue = revenue
		prevNWC = nwc
		prevDebt = debt
		prevBookValue = bookValue
		prevInvestedCapital = investedCapital
	}

	return Projection{Base: base, Periods: periods}
}
