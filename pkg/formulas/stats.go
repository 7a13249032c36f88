package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sum adds a slice of float64 values
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Sum(data)
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// WeightedMeanStdDev returns the population mean and standard deviation of values
// under the given (not necessarily normalized) weights.
// Returns zeros when there is no positive weight mass.
func WeightedMeanStdDev(values, weights []float64) (mean, stdDev float64) {
	if len(values) == 0 || len(values) != len(weights) {
		return 0, 0
	}
	if Sum(weights) <= 0 {
		return 0, 0
	}
	mean, stdDev = stat.PopMeanStdDev(values, weights)
	if math.IsNaN(stdDev) {
		stdDev = 0
	}
	return mean, stdDev
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds to the given number of decimal places
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
