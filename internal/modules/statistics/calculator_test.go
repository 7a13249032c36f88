package statistics

import (
	"math"
	"testing"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoItemBox() []domain.BoxItem {
	return []domain.BoxItem{
		{Name: "Console", Value: 100, DropChance: 1},
		{Name: "Keychain", Value: 1, DropChance: 99},
	}
}

func TestConcreteScenario_TenDollarBox(t *testing.T) {
	items := twoItemBox()

	assert.InDelta(t, 10.0, CalculateFloorRate(items, 10), 1e-9)
	assert.InDelta(t, 1.0, CalculateBreakEvenOdds(items, 10), 1e-9)
	assert.InDelta(t, 99.0, LossChance(items, 10), 1e-9)
}

func TestCalculateBreakEvenOdds(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.BoxItem
		price    float64
		expected float64
	}{
		{"empty items", nil, 10, 0},
		{"zero price", twoItemBox(), 0, 0},
		{"negative price", twoItemBox(), -5, 0},
		{"value equal to price counts", []domain.BoxItem{{Value: 10, DropChance: 30}, {Value: 9.99, DropChance: 70}}, 10, 30},
		{"invalid drop chance ignored", []domain.BoxItem{{Value: 50, DropChance: math.NaN()}, {Value: 50, DropChance: 5}}, 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateBreakEvenOdds(tt.items, tt.price), 1e-9)
		})
	}
}

func TestCalculateBreakEvenOdds_MonotonicWhenAddingProfitableItems(t *testing.T) {
	items := twoItemBox()
	previous := CalculateBreakEvenOdds(items, 10)

	for i := 0; i < 5; i++ {
		items = append(items, domain.BoxItem{Name: "Bonus", Value: 10 + float64(i), DropChance: 0.5})
		current := CalculateBreakEvenOdds(items, 10)
		assert.GreaterOrEqual(t, current, previous)
		previous = current
	}
}

func TestCalculateFloorRate(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.BoxItem
		price    float64
		expected float64
	}{
		{"no items", nil, 10, 0},
		{"zero price", twoItemBox(), 0, 0},
		{"zero-value items skipped", []domain.BoxItem{{Value: 0, DropChance: 50}, {Value: 4, DropChance: 50}}, 8, 50},
		{"capped at 100", []domain.BoxItem{{Value: 40, DropChance: 100}}, 20, 100},
		{"only invalid values", []domain.BoxItem{{Value: -3, DropChance: 100}, {Value: math.NaN(), DropChance: 1}}, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateFloorRate(tt.items, tt.price), 1e-9)
		})
	}
}

func TestCalculateFloorRate_Bounds(t *testing.T) {
	itemSets := [][]domain.BoxItem{
		twoItemBox(),
		{{Value: 0.01, DropChance: 100}},
		{{Value: 1e9, DropChance: 1}},
		{{Value: 5, DropChance: 20}, {Value: 500, DropChance: 80}},
	}
	for _, items := range itemSets {
		for _, price := range []float64{0.5, 10, 250, 99999} {
			rate := CalculateFloorRate(items, price)
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 100.0)
		}
	}
}

func TestCalculateCategoryStats(t *testing.T) {
	items := []domain.BoxItem{
		{Name: "Watch", Value: 200, DropChance: 5},
		{Name: "Socks", Value: 4, DropChance: 95},
	}

	stats := CalculateCategoryStats(items, 20)

	assert.Equal(t, 2, stats.ItemCount)
	assert.InDelta(t, 100.0, stats.TotalDropRate, 1e-9)
	// 200*0.05 + 4*0.95 = 13.8
	assert.InDelta(t, 13.8, stats.EVDollars, 1e-9)
	assert.InDelta(t, 69.0, stats.EVContribution, 1e-9)
	assert.InDelta(t, 100.0*100/69.0, stats.OddsToEVRatio, 1e-9)
	assert.Equal(t, 4.0, stats.MinValue)
	assert.Equal(t, 200.0, stats.MaxValue)
	assert.InDelta(t, 102.0, stats.AvgValue, 1e-9)
	assert.InDelta(t, 5.0, stats.BreakEvenOdds, 1e-9)
}

func TestCalculateCategoryStats_Degenerate(t *testing.T) {
	empty := CalculateCategoryStats(nil, 10)
	assert.Equal(t, domain.CategoryStats{}, empty)

	zeroValue := CalculateCategoryStats([]domain.BoxItem{{Value: 0, DropChance: 100}}, 10)
	assert.Equal(t, 1, zeroValue.ItemCount)
	assert.Equal(t, 0.0, zeroValue.EVContribution)
	assert.Equal(t, 0.0, zeroValue.OddsToEVRatio, "ratio must not divide by zero EV")

	noPrice := CalculateCategoryStats(twoItemBox(), 0)
	assert.Equal(t, 0.0, noPrice.EVContribution)
	assert.Equal(t, 0.0, noPrice.OddsToEVRatio)
	assert.Greater(t, noPrice.EVDollars, 0.0)
}

func TestCalculateLossChance_AllProfitableIsExactlyZero(t *testing.T) {
	items := []domain.BoxItem{
		{Value: 10, DropChance: 33.3333333},
		{Value: 11, DropChance: 33.3333333},
		{Value: 1000, DropChance: 13.0},
	}

	result := CalculateLossChance(items, 10)

	assert.Equal(t, 0.0, result.Percent)
	assert.False(t, result.Normalized)
}

func TestCalculateLossChance_AllLosingIsHundred(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.BoxItem
	}{
		{"exact mass", []domain.BoxItem{{Value: 1, DropChance: 60}, {Value: 2, DropChance: 40}}},
		{"mass slightly high", []domain.BoxItem{{Value: 1, DropChance: 60}, {Value: 2, DropChance: 44}}},
		{"mass far too low", []domain.BoxItem{{Value: 1, DropChance: 30}, {Value: 2, DropChance: 20}}},
		{"mass far too high", []domain.BoxItem{{Value: 1, DropChance: 130}, {Value: 2, DropChance: 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, 100.0, LossChance(tt.items, 10), 5.0)
		})
	}
}

func TestCalculateLossChance_InvalidInput(t *testing.T) {
	assert.Equal(t, 100.0, LossChance(twoItemBox(), 0))
	assert.Equal(t, 100.0, LossChance(twoItemBox(), math.NaN()))
	assert.Equal(t, 100.0, LossChance(nil, 10))

	result := CalculateLossChance([]domain.BoxItem{{Value: -1, DropChance: -1}}, 10)
	assert.Equal(t, 100.0, result.Percent)
	assert.True(t, result.Warnings.Has(domain.WarningInvalidItems))
}

func TestCalculateLossChance_NormalizesOutOfRangeMass(t *testing.T) {
	// Mass 80: loss 60, profit 20 -> 60/80 = 75%
	items := []domain.BoxItem{
		{Value: 1, DropChance: 60},
		{Value: 50, DropChance: 20},
	}

	result := CalculateLossChance(items, 10)

	require.True(t, result.Normalized)
	assert.InDelta(t, 75.0, result.Percent, 1e-9)
	assert.InDelta(t, 80.0, result.TotalDropRate, 1e-9)
	assert.True(t, result.Warnings.Has(domain.WarningDropMassOutOfRange))
}

func TestCalculateLossChance_PrefersComplementOnDiscrepancy(t *testing.T) {
	// 15 points of mass sit on an item with an unreadable value: the direct sum
	// misses them, the complement (total - profit) does not.
	items := []domain.BoxItem{
		{Value: 1, DropChance: 70},
		{Value: math.NaN(), DropChance: 15},
		{Value: 40, DropChance: 15},
	}

	result := CalculateLossChance(items, 10)

	assert.True(t, result.UsedComplement)
	assert.InDelta(t, 70.0, result.DirectEstimate, 1e-9)
	assert.InDelta(t, 85.0, result.ComplementEstimate, 1e-9)
	assert.InDelta(t, 85.0, result.Percent, 1e-9)
	assert.True(t, result.Warnings.Has(domain.WarningComplementEstimate))
}

func TestCalculateLossChance_UnreadableValueKeepsItsMass(t *testing.T) {
	items := []domain.BoxItem{
		{Name: "Pen", Value: 1, DropChance: 60},
		{Name: "Unpriced", Value: math.NaN(), DropChance: 30},
		{Name: "Unreadable", Value: 5, DropChance: math.NaN()},
		{Name: "Watch", Value: 40, DropChance: 10},
	}

	result := CalculateLossChance(items, 10)

	assert.Equal(t, 2, result.DiscardedItems)
	assert.Equal(t, 2, result.ValidItems)
	assert.InDelta(t, 100.0, result.TotalDropRate, 1e-9)
	assert.False(t, result.Normalized)
	assert.InDelta(t, 60.0, result.DirectEstimate, 1e-9)
	assert.InDelta(t, 90.0, result.ComplementEstimate, 1e-9)
	assert.True(t, result.UsedComplement)
	assert.InDelta(t, 90.0, result.Percent, 1e-9)
}

func TestCalculateLossChance_SmallDiscrepancyKeepsDirect(t *testing.T) {
	items := []domain.BoxItem{
		{Value: 1, DropChance: 90},
		{Value: math.Inf(1), DropChance: 5},
		{Value: 40, DropChance: 5},
	}

	result := CalculateLossChance(items, 10)

	assert.False(t, result.UsedComplement)
	assert.InDelta(t, 90.0, result.Percent, 1e-9)
}

func TestCalculator_CustomDiscrepancyThreshold(t *testing.T) {
	model := riskmodel.Default()
	model.DiscrepancyThreshold = 2
	calc := NewCalculator(model)

	items := []domain.BoxItem{
		{Value: 1, DropChance: 90},
		{Value: math.NaN(), DropChance: 5},
		{Value: 40, DropChance: 5},
	}

	result := calc.LossChance(items, 10)
	assert.True(t, result.UsedComplement)
	assert.InDelta(t, 95.0, result.Percent, 1e-9)
}
