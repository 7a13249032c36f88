package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestNormalCDF_MatchesReferenceDistribution(t *testing.T) {
	for z := -5.5; z <= 5.5; z += 0.25 {
		expected := distuv.UnitNormal.CDF(z)
		assert.InDelta(t, expected, NormalCDF(z), 1e-7, "z=%v", z)
	}
}

func TestNormalCDF_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		z        float64
		expected float64
	}{
		{"center", 0, 0.5},
		{"75th percentile z-score", 0.674, 0.75},
		{"one sigma", 1, 0.8413447},
		{"minus two sigma", -2, 0.0227501},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalCDF(tt.z), 1e-3)
		})
	}
}

func TestNormalCDF_Saturates(t *testing.T) {
	assert.Equal(t, 1.0, NormalCDF(6.01))
	assert.Equal(t, 0.0, NormalCDF(-6.01))
	assert.Equal(t, 1.0, NormalCDF(math.Inf(1)))
	assert.Equal(t, 0.0, NormalCDF(math.Inf(-1)))
	assert.Equal(t, 0.5, NormalCDF(math.NaN()))
}

func TestNormalCDF_Symmetric(t *testing.T) {
	for _, z := range []float64{0.1, 0.5, 1.3, 2.7, 4.2} {
		assert.InDelta(t, 1.0, NormalCDF(z)+NormalCDF(-z), 1e-12)
	}
}

func TestNormalSurvival(t *testing.T) {
	assert.InDelta(t, 0.1586553, NormalSurvival(1), 1e-6)
}
