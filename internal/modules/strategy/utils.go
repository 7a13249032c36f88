package strategy

import (
	"math"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
)

// Reasoner explains why a box received its allocation
type Reasoner func(box domain.Box, quantity int) string

// CalculateFloorValuePerDollar returns the guaranteed floor value per unit spent
func CalculateFloorValuePerDollar(box domain.Box) float64 {
	if !box.HasValidPrice() {
		return 0
	}
	floorValue := box.BoxPrice * nonNegative(box.FloorRatePercent) / 100
	return floorValue / box.BoxPrice
}

// CalculateEVPerDollar returns the expected value returned per unit spent
func CalculateEVPerDollar(box domain.Box) float64 {
	if !box.HasValidPrice() {
		return 0
	}
	expectedValue := box.BoxPrice * nonNegative(box.ExpectedValuePercentOfPrice) / 100
	return expectedValue / box.BoxPrice
}

// CalculateJackpotProbabilityPerDollar sums the drop chance of jackpot items (worth at
// least 5x the box price) and divides it by the price
func CalculateJackpotProbabilityPerDollar(box domain.Box) float64 {
	return jackpotProbabilityPerDollar(riskmodel.Default(), box)
}

// GetTopJackpotItem returns the most valuable jackpot item of a box, if any
func GetTopJackpotItem(box domain.Box) (domain.BoxItem, bool) {
	return topJackpotItem(riskmodel.Default(), box)
}

func jackpotProbabilityPerDollar(m riskmodel.Model, box domain.Box) float64 {
	if !box.HasValidPrice() {
		return 0
	}
	probability := 0.0
	for _, item := range box.AllItems {
		if item.IsValid() && m.IsJackpot(item.Value, box.BoxPrice) {
			probability += item.DropChance
		}
	}
	return probability / box.BoxPrice
}

func topJackpotItem(m riskmodel.Model, box domain.Box) (domain.BoxItem, bool) {
	var top domain.BoxItem
	found := false
	if !box.HasValidPrice() {
		return top, false
	}
	for _, item := range box.AllItems {
		if !item.IsValid() || !m.IsJackpot(item.Value, box.BoxPrice) {
			continue
		}
		if !found || item.Value > top.Value {
			top = item
			found = true
		}
	}
	return top, found
}

// BuildPortfolioFromSortedBoxes greedily spends the budget over boxes in the given order.
//
// Each box is visited once and receives min(floor(remaining/price), maxQuantityPerBox)
// units when that is positive. This is a greedy approximation, not an optimal knapsack:
// a cheaper box later in the order can go unfunded even when a different mix would
// spend the budget more completely.
func BuildPortfolioFromSortedBoxes(
	sortedBoxes []domain.Box,
	budget float64,
	maxQuantityPerBox int,
	reason Reasoner,
) ([]domain.BoxAllocation, float64) {
	if math.IsNaN(budget) || budget <= 0 || maxQuantityPerBox < 1 {
		return nil, 0
	}

	var allocations []domain.BoxAllocation
	remaining := budget
	totalCost := 0.0

	for _, box := range sortedBoxes {
		if remaining <= 0 {
			break
		}
		if !box.HasValidPrice() || box.BoxPrice > remaining {
			continue
		}

		quantity := int(math.Min(math.Floor(remaining/box.BoxPrice), float64(maxQuantityPerBox)))
		// floor() of a rounded quotient can overshoot by one unit
		for quantity > 0 && float64(quantity)*box.BoxPrice > remaining {
			quantity--
		}
		if quantity <= 0 {
			continue
		}

		cost := float64(quantity) * box.BoxPrice
		remaining -= cost
		totalCost += cost

		allocation := domain.BoxAllocation{
			Box:      box.Clone(),
			Quantity: quantity,
			Cost:     cost,
		}
		if reason != nil {
			allocation.Reasoning = reason(box, quantity)
		}
		allocations = append(allocations, allocation)
	}

	return allocations, totalCost
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
