package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedMeanStdDev(t *testing.T) {
	tests := []struct {
		name         string
		values       []float64
		weights      []float64
		expectedMean float64
		expectedStd  float64
	}{
		{"empty", nil, nil, 0, 0},
		{"length mismatch", []float64{1, 2}, []float64{1}, 0, 0},
		{"zero mass", []float64{1, 2}, []float64{0, 0}, 0, 0},
		{"two equal weights", []float64{0, 10}, []float64{1, 1}, 5, 5},
		{"skewed weights", []float64{100, 1}, []float64{1, 99}, 1.99, 9.8504},
		{"single point", []float64{7}, []float64{3}, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := WeightedMeanStdDev(tt.values, tt.weights)
			assert.InDelta(t, tt.expectedMean, mean, 1e-3)
			assert.InDelta(t, tt.expectedStd, std, 1e-3)
		})
	}
}

func TestSumAndMean(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 6.0, Sum([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestClampAndRound(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(-3, 1, 95))
	assert.Equal(t, 95.0, Clamp(120, 1, 95))
	assert.Equal(t, 42.0, Clamp(42, 1, 95))
	assert.Equal(t, 3.14, Round(3.14159, 2))
}
