package formulas

import "math"

// Abramowitz & Stegun 26.2.17 coefficients
const (
	asP  = 0.2316419
	asB1 = 0.319381530
	asB2 = -0.356563782
	asB3 = 1.781477937
	asB4 = -1.821255978
	asB5 = 1.330274429

	// NormalCDFSaturation is the |z| beyond which the CDF is reported as exactly 0 or 1
	NormalCDFSaturation = 6.0
)

// NormalCDF approximates the standard normal cumulative distribution function
// using the Abramowitz & Stegun rational polynomial (absolute error < 7.5e-8).
//
// Inputs beyond ±6 saturate to 0/1; NaN yields 0.5.
func NormalCDF(z float64) float64 {
	if math.IsNaN(z) {
		return 0.5
	}
	if z > NormalCDFSaturation {
		return 1
	}
	if z < -NormalCDFSaturation {
		return 0
	}

	x := math.Abs(z)
	t := 1 / (1 + asP*x)
	poly := t * (asB1 + t*(asB2+t*(asB3+t*(asB4+t*asB5))))
	pdf := math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
	upper := pdf * poly

	if z >= 0 {
		return 1 - upper
	}
	return upper
}

// NormalSurvival returns 1 - NormalCDF(z), the upper-tail probability
func NormalSurvival(z float64) float64 {
	return 1 - NormalCDF(z)
}
