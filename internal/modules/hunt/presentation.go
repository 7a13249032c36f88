package hunt

import (
	"fmt"
	"math"

	"github.com/aristath/boxengine/internal/modules/riskmodel"
)

// RangeOutlook classifies a money-left range for display
type RangeOutlook string

const (
	OutlookProfitLikely RangeOutlook = "profit-likely"
	OutlookMixed        RangeOutlook = "mixed"
	OutlookLossLikely   RangeOutlook = "loss-likely"
)

// Color returns the display color of the outlook
func (o RangeOutlook) Color() string {
	switch o {
	case OutlookProfitLikely:
		return "green"
	case OutlookLossLikely:
		return "red"
	default:
		return "yellow"
	}
}

// GetRangeColor classifies a [low, high] money-left range
func GetRangeColor(low, high float64) RangeOutlook {
	switch {
	case low > 0:
		return OutlookProfitLikely
	case high < 0:
		return OutlookLossLikely
	default:
		return OutlookMixed
	}
}

// dropChancePrecision lists the decimal places used at or above each threshold (percent)
var dropChancePrecision = []struct {
	atLeast  float64
	decimals int
}{
	{1, 2},
	{0.1, 3},
	{0.01, 4},
	{0.001, 5},
	{0.0001, 6},
}

// FormatDropChance renders a percentage with precision scaled to its magnitude, so that
// rare items never display as 0.00%
func FormatDropChance(percent float64) string {
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent <= 0 {
		return "0%"
	}
	for _, band := range dropChancePrecision {
		if percent >= band.atLeast {
			return fmt.Sprintf("%.*f%%", band.decimals, percent)
		}
	}
	return fmt.Sprintf("%.7f%%", percent)
}

// CostTier is one of four spend bands
type CostTier string

const (
	CostLow      CostTier = "low"
	CostModerate CostTier = "moderate"
	CostHigh     CostTier = "high"
	CostExtreme  CostTier = "extreme"
)

// CostIndicator is the banded view of a hunt cost
type CostIndicator struct {
	Tier  CostTier `json:"tier" msgpack:"tier"`
	Label string   `json:"label" msgpack:"label"`
}

// GetCostIndicator bands a cost at the default $500 / $2,000 / $10,000 thresholds
func GetCostIndicator(cost float64) CostIndicator {
	return defaultCalculator.CostIndicator(cost)
}

// CostIndicator bands a cost using the risk model thresholds
func (c *Calculator) CostIndicator(cost float64) CostIndicator {
	return costIndicator(c.model, cost)
}

func costIndicator(m riskmodel.Model, cost float64) CostIndicator {
	switch {
	case math.IsNaN(cost) || cost < m.CostBandModerate:
		return CostIndicator{Tier: CostLow, Label: "Affordable"}
	case cost < m.CostBandHigh:
		return CostIndicator{Tier: CostModerate, Label: "Moderate"}
	case cost < m.CostBandExtreme:
		return CostIndicator{Tier: CostHigh, Label: "Expensive"}
	default:
		return CostIndicator{Tier: CostExtreme, Label: "Extreme"}
	}
}
