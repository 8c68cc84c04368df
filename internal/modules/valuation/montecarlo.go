package valuation

import (
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/intrinsiq/valuation-engine/internal/modules/forecast"
	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// MonteCarloSummary describes the per-share value distribution produced
// by randomized resampling of the DCF assumptions.
type MonteCarloSummary struct {
	Trials    int     `json:"trials"`
	Succeeded int     `json:"succeeded"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"std_dev"`
	P5        float64 `json:"p5"`
	P95       float64 `json:"p95"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Simulate reruns the DCF model over randomized assumption vectors and
// summarizes the resulting per-share values.
//
// Distributions per trial (all independent):
//
//	first-year growth  trunc-normal(base, 20%·|base|, [0, 0.30])
//	EBITDA margin      trunc-normal(base, 10%·|base|, [0.05, 0.80])
//	capex %            trunc-normal(base, 20%·|base|, [0, 0.20])
//	NWC %              trunc-normal(base, 20%·|base|, [-0.30, 0.30])
//	tax rate           uniform(0.15, 0.35)
//	terminal growth    uniform(0.01, 0.05)
//
// All randomness comes from a single PCG source built from seed, and the
// assumption vectors are drawn sequentially before the (parallel) model
// evaluations, so a fixed seed always yields identical output. A trial
// whose model run fails is dropped silently.
func Simulate(in Inputs, trials int, seed uint64, log zerolog.Logger) MonteCarloSummary {
	if trials <= 0 {
		trials = 1000
	}

	src := rand.NewPCG(seed, seed)
	sampler := newAssumptionSampler(src)

	drawn := make([]forecast.Assumptions, trials)
	for i := range drawn {
		drawn[i] = sampler.draw(in.Assumptions)
	}

	// Evaluation is embarrassingly parallel once the draws are fixed.
	model := &DCFModel{}
	quiet := log.Level(zerolog.ErrorLevel) // per-trial clamps would flood the log
	type trialResult struct {
		idx   int
		value float64
		ok    bool
	}
	results := make(chan trialResult, trials)

	for i := range drawn {
		go func(idx int) {
			trialIn := in
			trialIn.Assumptions = drawn[idx]

			res, err := model.Valuate(trialIn, quiet)
			if err != nil || math.IsNaN(res.ValuePerShare) || math.IsInf(res.ValuePerShare, 0) {
				results <- trialResult{idx: idx, ok: false}
				return
			}
			results <- trialResult{idx: idx, value: res.ValuePerShare, ok: true}
		}(i)
	}

	// Compact in trial order so summary statistics do not depend on
	// goroutine completion order.
	succeeded := make([]bool, trials)
	byTrial := make([]float64, trials)
	for n := 0; n < trials; n++ {
		res := <-results
		succeeded[res.idx] = res.ok
		byTrial[res.idx] = res.value
	}
	close(results)

	values := make([]float64, 0, trials)
	for i, ok := range succeeded {
		if ok {
			values = append(values, byTrial[i])
		}
	}

	summary := MonteCarloSummary{
		Trials:    trials,
		Succeeded: len(values),
	}
	if len(values) == 0 {
		log.Warn().Int("trials", trials).Msg("All Monte Carlo trials failed")
		return summary
	}

	summary.Mean = formulas.Mean(values)
	summary.Median = formulas.Median(values)
	summary.StdDev = formulas.StdDev(values)
	summary.P5 = formulas.Percentile(values, 0.05)
	summary.P95 = formulas.Percentile(values, 0.95)
	summary.Min = floats.Min(values)
	summary.Max = floats.Max(values)

	log.Debug().
		Int("succeeded", summary.Succeeded).
		Float64("mean", summary.Mean).
		Float64("p5", summary.P5).
		Float64("p95", summary.P95).
		Msg("Monte Carlo simulation complete")

	return summary
}

// assumptionSampler draws randomized assumption vectors from an explicit
// seeded source. Global random state is never touched.
type assumptionSampler struct {
	src rand.Source
}

func newAssumptionSampler(src rand.Source) *assumptionSampler {
	return &assumptionSampler{src: src}
}

func (s *assumptionSampler) draw(base forecast.Assumptions) forecast.Assumptions {
	a := base
	a.Growth = append([]float64(nil), base.Growth...)
	if len(a.Growth) == 0 {
		a.Growth = []float64{0}
	}

	a.Growth[0] = s.truncNormal(a.Growth[0], 0.20, 0, 0.30)
	a.EBITDAMargin = s.truncNormal(base.EBITDAMargin, 0.10, 0.05, 0.80)
	a.CapexPct = s.truncNormal(base.CapexPct, 0.20, 0, 0.20)
	a.NWCPct = s.truncNormal(base.NWCPct, 0.20, -0.30, 0.30)
	a.TaxRate = s.uniform(0.15, 0.35)
	a.TerminalGrowth = s.uniform(0.01, 0.05)

	return a
}

// truncNormal samples normal(mean, relStd·|mean|) truncated to [lo, hi]
// by rejection, falling back to clamping after a bounded number of
// attempts (degenerate sigma or bounds far from the mean).
func (s *assumptionSampler) truncNormal(mean, relStd, lo, hi float64) float64 {
	sigma := relStd * math.Abs(mean)
	if sigma == 0 {
		return clamp(mean, lo, hi)
	}

	normal := distuv.Normal{Mu: mean, Sigma: sigma, Src: s.src}
	for attempt := 0; attempt < 100; attempt++ {
		v := normal.Rand()
		if v >= lo && v <= hi {
			return v
		}
	}
	return clamp(normal.Rand(), lo, hi)
}

func (s *assumptionSampler) uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: s.src}.Rand()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
