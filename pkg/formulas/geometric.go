package formulas

import "math"

// GeometricQuantile returns the number of independent trials n needed so that
// P(first success by trial n) >= q when each trial succeeds with probability p.
//
// Closed form: n = ceil(ln(1-q) / ln(1-p)), evaluated with Log1p so that tiny p does
// not round ln(1-p) to zero. The count is a float64: for very rare events it exceeds
// every integer type worth using.
// Returns 0 when p <= 0 (the event never happens), 1 when p >= 1 and +Inf when q >= 1.
func GeometricQuantile(p, q float64) float64 {
	if math.IsNaN(p) || math.IsNaN(q) || p <= 0 {
		return 0
	}
	if p >= 1 || q <= 0 {
		return 1
	}
	if q >= 1 {
		// Every finite n leaves some probability of failure
		return math.Inf(1)
	}

	n := math.Ceil(math.Log1p(-q) / math.Log1p(-p))
	if n < 1 {
		return 1
	}
	return n
}

// GeometricMean returns the expected number of trials until the first success (1/p).
// Returns 0 when p <= 0.
func GeometricMean(p float64) float64 {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 1 / p
}
