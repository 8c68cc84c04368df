package strategy

import (
	"math"

	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// maxProfitLossRatio caps the P/L ratio when no losing observations
// exist, keeping the Kelly fraction finite.
const maxProfitLossRatio = 10.0

// DefaultBinEdges returns the default bias bin edges: -50% to +50% in
// 10% steps. The intervals built from them additionally include the two
// unbounded tails, so the set always partitions the real line.
func DefaultBinEdges() []float64 {
	edges := make([]float64, 0, 11)
	for e := -0.5; e <= 0.5+1e-9; e += 0.1 {
		edges = append(edges, math.Round(e*10) / 10)
	}
	return edges
}

// MakeIntervals converts sorted edges into half-open intervals covering
// the whole real line: (-inf, e0), [e0, e1), ..., [eN, +inf).
func MakeIntervals(edges []float64) []Interval {
	intervals := make([]Interval, 0, len(edges)+1)
	lo := math.Inf(-1)
	for _, e := range edges {
		intervals = append(intervals, Interval{Lo: lo, Hi: e})
		lo = e
	}
	intervals = append(intervals, Interval{Lo: lo, Hi: math.Inf(1)})
	return intervals
}

// ComputeBinStatistics partitions the observations by bias interval and
// computes per-interval sample count, win rate, mean forward return, P/L
// ratio and Kelly fraction. Observations without a forward return are
// excluded. Every remaining observation maps to exactly one interval.
func ComputeBinStatistics(observations []BiasObservation, edges []float64) []BinStatistic {
	intervals := MakeIntervals(edges)

	grouped := make([][]float64, len(intervals))
	for _, obs := range observations {
		if obs.ForwardReturn == nil {
			continue
		}
		idx := locate(intervals, obs.Bias)
		grouped[idx] = append(grouped[idx], *obs.ForwardReturn)
	}

	stats := make([]BinStatistic, len(intervals))
	for i, returns := range grouped {
		stats[i] = binStatistic(intervals[i], returns)
	}
	return stats
}

// locate returns the index of the interval containing bias. The
// intervals partition the real line, so there is always exactly one.
func locate(intervals []Interval, bias float64) int {
	for i, iv := range intervals {
		if iv.Contains(bias) {
			return i
		}
	}
	// Unreachable with partitioning intervals; the final tail is
	// right-unbounded.
	return len(intervals) - 1
}

func binStatistic(iv Interval, returns []float64) BinStatistic {
	stat := BinStatistic{Interval: iv, Count: len(returns)}
	if len(returns) == 0 {
		return stat
	}

	var wins, losses []float64
	for _, r := range returns {
		if r > 0 {
			wins = append(wins, r)
		} else if r < 0 {
			losses = append(losses, r)
		}
	}

	stat.WinRate = float64(len(wins)) / float64(len(returns))
	stat.MeanReturn = formulas.Mean(returns)

	switch {
	case len(losses) > 0:
		stat.ProfitLossRatio = formulas.SafeDivide(
			formulas.Mean(wins),
			math.Abs(formulas.Mean(losses)),
			1.0,
		)
	case len(wins) > 0:
		// No losses observed: cap rather than report infinity.
		stat.ProfitLossRatio = maxProfitLossRatio
	default:
		// Only ties.
		stat.ProfitLossRatio = 1.0
	}

	stat.KellyFraction = formulas.KellyFraction(stat.WinRate, stat.ProfitLossRatio)
	return stat
}
