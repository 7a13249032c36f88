package statistics

import (
	"math"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/pkg/formulas"
)

// BoxMetrics are the headline economics of a box computed from its item pool
type BoxMetrics struct {
	ExpectedValuePercent     float64                 `json:"expected_value_percent"`
	StandardDeviationPercent float64                 `json:"standard_deviation_percent"`
	FloorRatePercent         float64                 `json:"floor_rate_percent"`
	VolatilityBucket         domain.VolatilityBucket `json:"volatility_bucket"`
}

// DeriveBoxMetrics computes EV, probability-weighted standard deviation and floor rate
// (all as % of price) from the items, using the default risk model for bucketing
func DeriveBoxMetrics(items []domain.BoxItem, boxPrice float64) BoxMetrics {
	return defaultCalculator.DeriveBoxMetrics(items, boxPrice)
}

// DeriveBoxMetrics computes box metrics from items
func (c *Calculator) DeriveBoxMetrics(items []domain.BoxItem, boxPrice float64) BoxMetrics {
	metrics := BoxMetrics{VolatilityBucket: domain.VolatilityLow}
	if !validPrice(boxPrice) {
		return metrics
	}

	values := make([]float64, 0, len(items))
	weights := make([]float64, 0, len(items))
	ev := 0.0
	for _, item := range items {
		if !item.IsValid() {
			continue
		}
		values = append(values, item.Value)
		weights = append(weights, item.Probability())
		ev += item.Value * item.Probability()
	}

	_, stdDev := formulas.WeightedMeanStdDev(values, weights)

	metrics.ExpectedValuePercent = ev / boxPrice * 100
	metrics.StandardDeviationPercent = stdDev / boxPrice * 100
	metrics.FloorRatePercent = CalculateFloorRate(items, boxPrice)
	metrics.VolatilityBucket = c.ClassifyVolatility(metrics.StandardDeviationPercent)

	return metrics
}

// ClassifyVolatility maps a standard deviation (% of price) to a volatility bucket
func (c *Calculator) ClassifyVolatility(stdDevPercent float64) domain.VolatilityBucket {
	switch {
	case stdDevPercent >= c.model.VolatilityHighAt:
		return domain.VolatilityHigh
	case stdDevPercent >= c.model.VolatilityMediumAt:
		return domain.VolatilityMedium
	default:
		return domain.VolatilityLow
	}
}

// BoxReport is the full statistics view of one box
type BoxReport struct {
	BoxName       string               `json:"box_name"`
	BoxPrice      float64              `json:"box_price"`
	Editorial     BoxMetrics           `json:"editorial"`
	Derived       BoxMetrics           `json:"derived"`
	AllItems      domain.CategoryStats `json:"all_items"`
	JackpotItems  domain.CategoryStats `json:"jackpot_items"`
	UnwantedItems domain.CategoryStats `json:"unwanted_items"`
	BreakEvenOdds float64              `json:"break_even_odds"`
	FloorRate     float64              `json:"floor_rate"`
	LossChance    LossChanceResult     `json:"loss_chance"`
	JackpotCount  int                  `json:"jackpot_count"`
	Warnings      domain.Warnings      `json:"warnings,omitempty"`
}

// AnalyzeBox builds a BoxReport using the default risk model
func AnalyzeBox(box domain.Box) BoxReport {
	return defaultCalculator.AnalyzeBox(box)
}

// AnalyzeBox builds a BoxReport. The box is read, never modified.
func (c *Calculator) AnalyzeBox(box domain.Box) BoxReport {
	report := BoxReport{
		BoxName:  box.BoxName,
		BoxPrice: box.BoxPrice,
		Editorial: BoxMetrics{
			ExpectedValuePercent:     box.ExpectedValuePercentOfPrice,
			StandardDeviationPercent: box.StandardDeviationPercent,
			FloorRatePercent:         box.FloorRatePercent,
			VolatilityBucket:         box.VolatilityBucket,
		},
		Derived:       c.DeriveBoxMetrics(box.AllItems, box.BoxPrice),
		AllItems:      CalculateCategoryStats(box.AllItems, box.BoxPrice),
		JackpotItems:  CalculateCategoryStats(box.JackpotItems, box.BoxPrice),
		UnwantedItems: CalculateCategoryStats(box.UnwantedItems, box.BoxPrice),
		BreakEvenOdds: CalculateBreakEvenOdds(box.AllItems, box.BoxPrice),
		FloorRate:     CalculateFloorRate(box.AllItems, box.BoxPrice),
		LossChance:    c.LossChance(box.AllItems, box.BoxPrice),
	}

	for _, item := range box.AllItems {
		if item.IsValid() && c.model.IsJackpot(item.Value, box.BoxPrice) {
			report.JackpotCount++
		}
	}

	report.Warnings = append(report.Warnings, report.LossChance.Warnings...)

	mass := report.LossChance.TotalDropRate
	if len(box.AllItems) > 0 && !report.LossChance.Normalized && math.Abs(mass-100) > c.model.MassTolerance {
		report.Warnings.Add(domain.WarningDropMassOutOfRange, mass,
			"drop chances sum to %.2f%%, expected 100%% ±%.0f", mass, c.model.MassTolerance)
	}
	if len(box.AllItems) > 0 && len(box.JackpotItems) == 0 && len(box.UnwantedItems) == 0 {
		report.Warnings.Add(domain.WarningEditorialSubsets, 0,
			"jackpot and unwanted item lists are empty; using all_items only")
	}

	return report
}
