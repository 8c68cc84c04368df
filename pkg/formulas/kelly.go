package formulas

// KellyFraction calculates the Kelly criterion position fraction.
//
// Kelly Formula:
//
//	f* = (p·(b+1) − 1) / b
//
// Args:
//
//	p: Win probability (0-1)
//	b: Payoff ratio (mean win / mean loss)
//
// Returns:
//
//	Fraction clamped to [0,1]; 0 when b is not positive.
func KellyFraction(p, b float64) float64 {
	if b <= 0 {
		return 0
	}

	f := (p*(b+1) - 1) / b

	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// HalfKelly returns half the Kelly fraction, the sizing actually used by
// the backtester to dampen estimation error in p and b.
func HalfKelly(p, b float64) float64 {
	return KellyFraction(p, b) / 2
}
