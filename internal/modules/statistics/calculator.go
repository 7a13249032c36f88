// Package statistics computes per-box risk and value statistics from a box's item pool.
//
// Every function here is total: invalid or missing input produces a neutral value
// (0 for rates, 100 for loss chance) plus structured warnings, never an error.
package statistics

import (
	"math"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/aristath/boxengine/pkg/formulas"
)

// Calculator evaluates item pools under a risk model
type Calculator struct {
	model riskmodel.Model
}

// NewCalculator creates a statistics calculator
func NewCalculator(model riskmodel.Model) *Calculator {
	return &Calculator{model: model}
}

var defaultCalculator = NewCalculator(riskmodel.Default())

// CalculateBreakEvenOdds returns the summed drop chance (percent) of items worth at
// least the box price. Returns 0 for empty input or a non-positive price.
func CalculateBreakEvenOdds(items []domain.BoxItem, boxPrice float64) float64 {
	if len(items) == 0 || !validPrice(boxPrice) {
		return 0
	}

	odds := 0.0
	for _, item := range items {
		if !item.IsValid() {
			continue
		}
		if item.Value >= boxPrice {
			odds += item.DropChance
		}
	}
	return odds
}

// CalculateFloorRate returns the cheapest non-zero item as a percentage of the box
// price, capped at 100. Returns 0 when no item qualifies.
func CalculateFloorRate(items []domain.BoxItem, boxPrice float64) float64 {
	if !validPrice(boxPrice) {
		return 0
	}

	minValue := math.Inf(1)
	for _, item := range items {
		if !item.HasValidValue() || item.Value <= 0 {
			continue
		}
		minValue = math.Min(minValue, item.Value)
	}
	if math.IsInf(minValue, 1) {
		return 0
	}

	return math.Min(minValue/boxPrice*100, 100)
}

// CalculateCategoryStats aggregates a subset of items. The result is freshly allocated
// and owned by the caller.
func CalculateCategoryStats(items []domain.BoxItem, boxPrice float64) domain.CategoryStats {
	var stats domain.CategoryStats
	values := make([]float64, 0, len(items))

	for _, item := range items {
		if !item.IsValid() {
			continue
		}
		stats.TotalDropRate += item.DropChance
		stats.EVDollars += item.Value * item.Probability()
		values = append(values, item.Value)
	}

	stats.ItemCount = len(values)
	if stats.ItemCount == 0 {
		return stats
	}

	if validPrice(boxPrice) {
		stats.EVContribution = stats.EVDollars / boxPrice * 100
	}
	if stats.EVContribution > 0 {
		stats.OddsToEVRatio = (stats.TotalDropRate * 100) / stats.EVContribution
	}

	stats.MinValue = values[0]
	stats.MaxValue = values[0]
	for _, v := range values[1:] {
		stats.MinValue = math.Min(stats.MinValue, v)
		stats.MaxValue = math.Max(stats.MaxValue, v)
	}
	stats.AvgValue = formulas.Mean(values)
	stats.BreakEvenOdds = CalculateBreakEvenOdds(items, boxPrice)

	return stats
}

// LossChanceResult carries the loss probability together with how it was obtained
type LossChanceResult struct {
	Percent            float64         `json:"percent"`
	TotalDropRate      float64         `json:"total_drop_rate"`
	DirectEstimate     float64         `json:"direct_estimate"`
	ComplementEstimate float64         `json:"complement_estimate"`
	UsedComplement     bool            `json:"used_complement"`
	Normalized         bool            `json:"normalized"`
	ValidItems         int             `json:"valid_items"`
	DiscardedItems     int             `json:"discarded_items"`
	Warnings           domain.Warnings `json:"warnings,omitempty"`
}

// CalculateLossChance returns the probability (0-100) of receiving an item worth less
// than the box price, using the default risk model
func CalculateLossChance(allItems []domain.BoxItem, boxPrice float64) LossChanceResult {
	return defaultCalculator.LossChance(allItems, boxPrice)
}

// LossChance is CalculateLossChance reduced to the percentage
func LossChance(allItems []domain.BoxItem, boxPrice float64) float64 {
	return CalculateLossChance(allItems, boxPrice).Percent
}

// LossChance applies the robustness policy:
//  1. items with a non-numeric or negative drop chance or value are discarded; an item
//     whose drop chance is usable but whose value is not still counts toward TotalDropRate
//  2. if every remaining item is profitable the result is exactly 0
//  3. the direct sum is cross-checked against total mass minus profit mass and the
//     complement wins when they disagree by more than DiscrepancyThreshold points
//  4. when total mass falls outside [MassLowerBound, MassUpperBound] the result is
//     rescaled by the observed mass before clamping to [0,100]
//
// Totally invalid input reports 100.
func (c *Calculator) LossChance(allItems []domain.BoxItem, boxPrice float64) LossChanceResult {
	var result LossChanceResult

	if !validPrice(boxPrice) {
		result.Percent = 100
		result.Warnings.Add(domain.WarningInvalidPrice, boxPrice, "box price %v is not a positive number", boxPrice)
		return result
	}

	profitMass := 0.0
	allProfitable := true
	for _, item := range allItems {
		if !item.HasValidDropChance() {
			result.DiscardedItems++
			continue
		}
		// Mass counts every item with a usable drop chance, even if its value is unreadable
		result.TotalDropRate += item.DropChance
		if !item.HasValidValue() {
			result.DiscardedItems++
			continue
		}

		result.ValidItems++
		if item.Value >= boxPrice {
			profitMass += item.DropChance
		} else {
			result.DirectEstimate += item.DropChance
			allProfitable = false
		}
	}

	if result.DiscardedItems > 0 {
		result.Warnings.Add(domain.WarningInvalidItems, float64(result.DiscardedItems),
			"%d item(s) with unusable value or drop chance were ignored", result.DiscardedItems)
	}

	if result.ValidItems == 0 {
		result.Percent = 100
		return result
	}

	if allProfitable {
		result.Percent = 0
		return result
	}

	result.ComplementEstimate = result.TotalDropRate - profitMass
	estimate := result.DirectEstimate
	if math.Abs(result.DirectEstimate-result.ComplementEstimate) > c.model.DiscrepancyThreshold {
		estimate = result.ComplementEstimate
		result.UsedComplement = true
		result.Warnings.Add(domain.WarningComplementEstimate, result.ComplementEstimate,
			"direct loss estimate %.2f%% disagrees with complement %.2f%%", result.DirectEstimate, result.ComplementEstimate)
	}

	if result.TotalDropRate > 0 &&
		(result.TotalDropRate < c.model.MassLowerBound || result.TotalDropRate > c.model.MassUpperBound) {
		estimate = estimate / result.TotalDropRate * 100
		result.Normalized = true
		result.Warnings.Add(domain.WarningDropMassOutOfRange, result.TotalDropRate,
			"drop chances sum to %.2f%%, loss chance normalized", result.TotalDropRate)
	}

	result.Percent = formulas.Clamp(estimate, 0, 100)
	return result
}

func validPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price > 0
}
