package formulas

// SafeDivide divides x by y, returning def when the denominator is zero.
// Every ratio in the engine goes through this so the projection and
// valuation formulas stay total.
func SafeDivide(x, y, def float64) float64 {
	if y == 0 {
		return def
	}
	return x / y
}
