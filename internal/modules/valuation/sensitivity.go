package valuation

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// Grid size and ranges for the sensitivity sweep: discount rate varies
// ±20% around the base rate, terminal growth spans 1%-5%, five points each.
const (
	gridPoints    = 5
	rateSpread    = 0.20
	growthSweepLo = 0.01
	growthSweepHi = 0.05
)

// Grid is the 5x5 sensitivity matrix of per-share values over
// (discount rate, terminal growth) pairs, plus the percentage impact of
// moving each dimension from its lowest to highest value while the other
// sits at its midpoint.
type Grid struct {
	Rates        []float64   `json:"rates"`
	Growths      []float64   `json:"growths"`
	Values       [][]float64 `json:"values"` // Values[i][j] = per-share at (Rates[i], Growths[j])
	RateImpact   float64     `json:"rate_impact"`
	GrowthImpact float64     `json:"growth_impact"`
}

// Sweep recomputes the model over the full grid. Every cell re-applies
// the terminal-growth clamp independently, and cells share no mutable
// state, so they run in parallel.
func Sweep(m Model, in Inputs, baseRate float64, log zerolog.Logger) (*Grid, error) {
	rates := linspace(baseRate*(1-rateSpread), baseRate*(1+rateSpread), gridPoints)
	growths := linspace(growthSweepLo, growthSweepHi, gridPoints)

	type cell struct {
		i, j  int
		value float64
		err   error
	}
	results := make(chan cell, gridPoints*gridPoints)

	for i, r := range rates {
		for j, g := range growths {
			go func(i, j int, r, g float64) {
				cellIn := in
				cellIn.DiscountRate = &r
				a := in.Assumptions
				a.TerminalGrowth = g
				cellIn.Assumptions = a

				res, err := m.Valuate(cellIn, log)
				if err != nil {
					results <- cell{i: i, j: j, err: err}
					return
				}
				results <- cell{i: i, j: j, value: res.ValuePerShare}
			}(i, j, r, g)
		}
	}

	values := make([][]float64, gridPoints)
	for i := range values {
		values[i] = make([]float64, gridPoints)
	}

	var firstErr error
	for n := 0; n < gridPoints*gridPoints; n++ {
		c := <-results
		if c.err != nil {
			if firstErr == nil {
				firstErr = c.err
			}
			continue
		}
		values[c.i][c.j] = c.value
	}
	close(results)

	if firstErr != nil {
		return nil, firstErr
	}

	mid := gridPoints / 2
	return &Grid{
		Rates:        rates,
		Growths:      growths,
		Values:       values,
		RateImpact:   relativeChange(values[0][mid], values[gridPoints-1][mid]),
		GrowthImpact: relativeChange(values[mid][0], values[mid][gridPoints-1]),
	}, nil
}

// linspace returns n evenly spaced points from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	points := make([]float64, n)
	if n == 1 {
		points[0] = lo
		return points
	}
	step := (hi - lo) / float64(n-1)
	for i := range points {
		points[i] = lo + float64(i)*step
	}
	return points
}

// relativeChange returns the percentage move from to, relative to from.
func relativeChange(from, to float64) float64 {
	return formulas.SafeDivide(to-from, math.Abs(from), 0)
}
