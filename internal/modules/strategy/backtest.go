package strategy

import (
	"math"
	"time"

	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// BacktestConfig controls the Kelly backtester.
type BacktestConfig struct {
	InitialCapital float64
	HorizonWeeks   int
	MinWinRate     float64
	MinSamples     int
	RiskFreeRate   float64
}

// DefaultBacktestConfig returns the standard configuration: enter when a
// bin's win rate reaches 60% over at least 5 samples, hold for the bias
// horizon, size at half-Kelly.
func DefaultBacktestConfig() BacktestConfig {
	return BacktestConfig{
		InitialCapital: 100_000,
		HorizonWeeks:   26,
		MinWinRate:     0.60,
		MinSamples:     5,
		RiskFreeRate:   0.02,
	}
}

// backtestState is the mutable state advanced strictly in chronological
// order over the observation sequence. Two states: Flat (no shares) and
// Holding.
type backtestState struct {
	cash        float64
	shares      float64
	entryPrice  float64
	entryDate   time.Time
	entryBias   float64
	entryAmount float64
	fraction    float64
}

func (s *backtestState) holding() bool { return s.shares > 0 }

// RunBacktest simulates sequential entries and exits over the bias
// series. From Flat it opens a position sized at the half-Kelly fraction
// of current cash whenever the current bias falls into a qualifying bin;
// from Holding it closes after the horizon has elapsed. Any position
// still open at the end of the series is closed at the last price. The
// loop carries state across time and must not be parallelized.
func RunBacktest(observations []BiasObservation, bins []BinStatistic, cfg BacktestConfig) BacktestResult {
	intervals := make([]Interval, len(bins))
	for i, b := range bins {
		intervals[i] = b.Interval
	}

	state := backtestState{cash: cfg.InitialCapital}
	holdDuration := time.Duration(cfg.HorizonWeeks) * 7 * 24 * time.Hour

	var trades []Trade
	equity := make([]EquityPoint, 0, len(observations))

	closePosition := func(date time.Time, price float64) {
		proceeds := state.shares * price
		state.cash += proceeds
		trades = append(trades, Trade{
			EntryDate:   state.entryDate,
			ExitDate:    date,
			EntryPrice:  state.entryPrice,
			ExitPrice:   price,
			BiasAtEntry: state.entryBias,
			Fraction:    state.fraction,
			Return:      formulas.SafeDivide(price, state.entryPrice, 1) - 1,
			PnL:         proceeds - state.entryAmount,
		})
		state.shares = 0
	}

	for _, obs := range observations {
		if state.holding() {
			if !obs.Date.Before(state.entryDate.Add(holdDuration)) {
				closePosition(obs.Date, obs.Price)
			}
		}

		if !state.holding() && obs.Price > 0 && len(bins) > 0 {
			bin := bins[locate(intervals, obs.Bias)]
			if bin.Count >= cfg.MinSamples && bin.WinRate >= cfg.MinWinRate {
				fraction := bin.KellyFraction / 2
				amount := fraction * state.cash
				if amount > 0 {
					state.shares = amount / obs.Price
					state.cash -= amount
					state.entryPrice = obs.Price
					state.entryDate = obs.Date
					state.entryBias = obs.Bias
					state.entryAmount = amount
					state.fraction = fraction
				}
			}
		}

		equity = append(equity, EquityPoint{
			Date:   obs.Date,
			Equity: state.cash + state.shares*obs.Price,
		})
	}

	// Force-close whatever is still open at the last available price.
	if state.holding() && len(observations) > 0 {
		last := observations[len(observations)-1]
		closePosition(last.Date, last.Price)
		equity[len(equity)-1].Equity = state.cash
	}

	return summarize(trades, equity, cfg)
}

func summarize(trades []Trade, equity []EquityPoint, cfg BacktestConfig) BacktestResult {
	result := BacktestResult{
		Trades:         trades,
		EquityCurve:    equity,
		InitialCapital: cfg.InitialCapital,
		FinalCapital:   cfg.InitialCapital,
	}
	if len(equity) > 0 {
		result.FinalCapital = equity[len(equity)-1].Equity
	}
	result.TotalReturn = formulas.SafeDivide(result.FinalCapital, cfg.InitialCapital, 1) - 1
	result.AnnualizedReturn = formulas.AnnualizedReturn(result.TotalReturn, len(equity)-1, 52)

	values := make([]float64, len(equity))
	for i, p := range equity {
		values[i] = p.Equity
	}
	result.SharpeRatio = formulas.CalculateSharpeRatio(formulas.Returns(values), cfg.RiskFreeRate, 52)
	result.MaxDrawdown = formulas.CalculateMaxDrawdown(values)

	if len(trades) == 0 {
		return result
	}

	var wins, losses []float64
	for _, t := range trades {
		if t.Return > 0 {
			wins = append(wins, t.Return)
		} else if t.Return < 0 {
			losses = append(losses, t.Return)
		}
	}

	result.WinRate = float64(len(wins)) / float64(len(trades))
	result.AvgWin = formulas.Mean(wins)
	result.AvgLoss = formulas.Mean(losses)
	if len(losses) > 0 {
		result.ProfitLossRatio = formulas.SafeDivide(result.AvgWin, math.Abs(result.AvgLoss), 1)
	} else if len(wins) > 0 {
		result.ProfitLossRatio = maxProfitLossRatio
	} else {
		result.ProfitLossRatio = 1.0
	}

	return result
}
