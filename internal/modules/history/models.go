package history

// Raw per-statement schemas. Fields are FlexFloat so the decoder absorbs
// the formatting noise of upstream feeds; the normalizer then applies the
// declared fallback order (see Normalize) to produce FiscalPeriodRecords.

// IncomeStatement is one fiscal period of the raw income statement.
type IncomeStatement struct {
	FiscalYear               int       `json:"fiscal_year"`
	Revenue                  FlexFloat `json:"revenue"`
	EBITDA                   FlexFloat `json:"ebitda"`
	EBIT                     FlexFloat `json:"ebit"`
	OperatingIncome          FlexFloat `json:"operating_income"`
	DepreciationAmortization FlexFloat `json:"depreciation_amortization"`
	InterestExpense          FlexFloat `json:"interest_expense"`
	PretaxIncome             FlexFloat `json:"pretax_income"`
	TaxExpense               FlexFloat `json:"tax_expense"`
	NetIncome                FlexFloat `json:"net_income"`
}

// BalanceSheet is one fiscal period of the raw balance sheet.
type BalanceSheet struct {
	FiscalYear         int       `json:"fiscal_year"`
	CurrentAssets      FlexFloat `json:"current_assets"`
	CurrentLiabilities FlexFloat `json:"current_liabilities"`
	CashAndEquivalents FlexFloat `json:"cash_and_equivalents"`
	TotalDebt          FlexFloat `json:"total_debt"`
	TotalEquity        FlexFloat `json:"total_equity"`
	BookValue          FlexFloat `json:"book_value"`
	InvestedCapital    FlexFloat `json:"invested_capital"`
}

// CashFlowStatement is one fiscal period of the raw cash-flow statement.
type CashFlowStatement struct {
	FiscalYear               int       `json:"fiscal_year"`
	Capex                    FlexFloat `json:"capex"`
	DepreciationAmortization FlexFloat `json:"depreciation_amortization"`
	DividendsPaid            FlexFloat `json:"dividends_paid"`
}

// StatementSet bundles the raw statements for one company.
type StatementSet struct {
	Income   []IncomeStatement   `json:"income_statements"`
	Balance  []BalanceSheet      `json:"balance_sheets"`
	CashFlow []CashFlowStatement `json:"cash_flow_statements"`
}

// Ratios are the historical averages used as default forecast assumptions.
// Each ratio is averaged only over periods where its denominator is non-zero.
type Ratios struct {
	EBITDAMargin     float64 `json:"ebitda_margin"`
	CapexPct         float64 `json:"capex_pct"`
	NWCPct           float64 `json:"nwc_pct"`
	TaxRate          float64 `json:"tax_rate"`
	DepreciationRate float64 `json:"depreciation_rate"`
	PayoutRatio      float64 `json:"payout_ratio"`
}
