package strategy

import (
	"sort"
	"time"

	"github.com/intrinsiq/valuation-engine/internal/domain"
)

// BuildBiasSeries maps point-in-time valuations onto a weekly price
// series. Each valuation applies from its publish date until the next
// one's publish date; the final valuation extends to the end of the price
// series. Price points before the first publish date have no applicable
// value and produce no observation.
//
// The forward return of an observation looks at the first price point at
// or after date + horizonWeeks; when none exists the forward return is
// nil.
func BuildBiasSeries(
	valuations []domain.ValuationPoint,
	prices []domain.PricePoint,
	horizonWeeks int,
) []BiasObservation {
	if len(valuations) == 0 || len(prices) == 0 {
		return nil
	}

	vals := append([]domain.ValuationPoint(nil), valuations...)
	sort.Slice(vals, func(i, j int) bool { return vals[i].PublishDate.Before(vals[j].PublishDate) })

	series := append([]domain.PricePoint(nil), prices...)
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	horizon := time.Duration(horizonWeeks) * 7 * 24 * time.Hour

	observations := make([]BiasObservation, 0, len(series))
	valIdx := -1
	for i, p := range series {
		// Step function: advance to the latest valuation published at or
		// before this observation date.
		for valIdx+1 < len(vals) && !vals[valIdx+1].PublishDate.After(p.Date) {
			valIdx++
		}
		if valIdx < 0 {
			continue
		}

		value := vals[valIdx].Value
		if value <= 0 {
			continue
		}

		obs := BiasObservation{
			Date:           p.Date,
			Price:          p.Price,
			IntrinsicValue: value,
			Bias:           (p.Price - value) / value,
		}

		cutoff := p.Date.Add(horizon)
		for j := i + 1; j < len(series); j++ {
			if !series[j].Date.Before(cutoff) {
				if p.Price != 0 {
					fr := series[j].Price/p.Price - 1
					obs.ForwardReturn = &fr
				}
				break
			}
		}

		observations = append(observations, obs)
	}

	return observations
}
