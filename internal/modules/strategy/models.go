package strategy

import "time"

// BiasObservation pairs one weekly price with the intrinsic value in
// force at that date. Bias = (price - value) / value. ForwardReturn is
// nil when the price series does not extend a full horizon past the
// observation; such observations are excluded from bin statistics.
type BiasObservation struct {
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	IntrinsicValue float64   `json:"intrinsic_value"`
	Bias           float64   `json:"bias"`
	ForwardReturn  *float64  `json:"forward_return,omitempty"`
}

// Interval is a half-open bias interval [Lo, Hi). The outermost intervals
// are unbounded so the full set always partitions the real line.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Contains reports whether bias falls in the interval.
func (iv Interval) Contains(bias float64) bool {
	return bias >= iv.Lo && bias < iv.Hi
}

// BinStatistic is the conditional statistics of one bias interval.
type BinStatistic struct {
	Interval        Interval `json:"interval"`
	Count           int      `json:"count"`
	WinRate         float64  `json:"win_rate"`
	MeanReturn      float64  `json:"mean_return"`
	ProfitLossRatio float64  `json:"profit_loss_ratio"`
	KellyFraction   float64  `json:"kelly_fraction"`
}

// Trade is one closed round trip of the backtester.
type Trade struct {
	EntryDate   time.Time `json:"entry_date"`
	ExitDate    time.Time `json:"exit_date"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	BiasAtEntry float64   `json:"bias_at_entry"`
	Fraction    float64   `json:"fraction"` // half-Kelly fraction of cash committed
	Return      float64   `json:"return"`
	PnL         float64   `json:"pnl"`
}

// EquityPoint is one point of the backtest equity curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// BacktestResult is the terminal output of one backtest run.
type BacktestResult struct {
	Trades           []Trade       `json:"trades"`
	EquityCurve      []EquityPoint `json:"equity_curve"`
	InitialCapital   float64       `json:"initial_capital"`
	FinalCapital     float64       `json:"final_capital"`
	TotalReturn      float64       `json:"total_return"`
	AnnualizedReturn float64       `json:"annualized_return"`
	SharpeRatio      *float64      `json:"sharpe_ratio,omitempty"`
	MaxDrawdown      *float64      `json:"max_drawdown,omitempty"`
	WinRate          float64       `json:"win_rate"`
	AvgWin           float64       `json:"avg_win"`
	AvgLoss          float64       `json:"avg_loss"`
	ProfitLossRatio  float64       `json:"profit_loss_ratio"`
}
