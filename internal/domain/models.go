// Package domain provides core domain models and types.
package domain

import (
	"encoding/json"
	"math"
)

// VolatilityBucket is the coarse outcome-variance class of a box
type VolatilityBucket string

const (
	VolatilityLow    VolatilityBucket = "Low"
	VolatilityMedium VolatilityBucket = "Medium"
	VolatilityHigh   VolatilityBucket = "High"
)

// RiskLevel classifies a portfolio recommendation
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// BoxItem is a single prize inside a box.
// DropChance is stored on a 0-100 percentage scale.
// Non-numeric source values are carried as NaN and skipped by the engine.
type BoxItem struct {
	Name       string  `json:"name" msgpack:"name"`
	Value      float64 `json:"value" msgpack:"value"`
	DropChance float64 `json:"drop_chance" msgpack:"drop_chance"`
	Image      string  `json:"image,omitempty" msgpack:"image,omitempty"`
	Type       string  `json:"type,omitempty" msgpack:"type,omitempty"`
}

// HasValidValue reports whether Value is a finite, non-negative number
func (i BoxItem) HasValidValue() bool {
	return isUsable(i.Value)
}

// HasValidDropChance reports whether DropChance is a finite, non-negative number
func (i BoxItem) HasValidDropChance() bool {
	return isUsable(i.DropChance)
}

// IsValid reports whether both numeric fields are usable
func (i BoxItem) IsValid() bool {
	return i.HasValidValue() && i.HasValidDropChance()
}

// MarshalJSON writes non-finite Value and DropChance as null
func (i BoxItem) MarshalJSON() ([]byte, error) {
	type plain BoxItem
	return json.Marshal(struct {
		plain
		Value      *float64 `json:"value"`
		DropChance *float64 `json:"drop_chance"`
	}{
		plain:      plain(i),
		Value:      finiteOrNil(i.Value),
		DropChance: finiteOrNil(i.DropChance),
	})
}

// Probability returns the drop chance as probability mass (0-1)
func (i BoxItem) Probability() float64 {
	if !i.HasValidDropChance() {
		return 0
	}
	return i.DropChance / 100
}

// Box is a purchasable mystery box.
// AllItems is the authoritative pool; JackpotItems and UnwantedItems are editorial subsets
// and may be empty even when AllItems is populated.
type Box struct {
	BoxName                     string           `json:"box_name" msgpack:"box_name"`
	BoxPrice                    float64          `json:"box_price" msgpack:"box_price"`
	ExpectedValuePercentOfPrice float64          `json:"expected_value_percent_of_price" msgpack:"expected_value_percent_of_price"`
	StandardDeviationPercent    float64          `json:"standard_deviation_percent" msgpack:"standard_deviation_percent"`
	FloorRatePercent            float64          `json:"floor_rate_percent" msgpack:"floor_rate_percent"`
	VolatilityBucket            VolatilityBucket `json:"volatility_bucket" msgpack:"volatility_bucket"`
	AllItems                    []BoxItem        `json:"all_items" msgpack:"all_items"`
	JackpotItems                []BoxItem        `json:"jackpot_items" msgpack:"jackpot_items"`
	UnwantedItems               []BoxItem        `json:"unwanted_items" msgpack:"unwanted_items"`
}

// HasValidPrice reports whether the box can be priced at all
func (b Box) HasValidPrice() bool {
	return isUsable(b.BoxPrice) && b.BoxPrice > 0
}

// Clone returns a deep copy so callers can hand boxes to the engine without sharing slices
func (b Box) Clone() Box {
	c := b
	c.AllItems = cloneItems(b.AllItems)
	c.JackpotItems = cloneItems(b.JackpotItems)
	c.UnwantedItems = cloneItems(b.UnwantedItems)
	return c
}

// CategoryStats aggregates a subset of a box's items
type CategoryStats struct {
	TotalDropRate  float64 `json:"total_drop_rate" msgpack:"total_drop_rate"`   // percent
	EVDollars      float64 `json:"ev_dollars" msgpack:"ev_dollars"`             // currency units
	EVContribution float64 `json:"ev_contribution" msgpack:"ev_contribution"`   // percent of box price
	OddsToEVRatio  float64 `json:"odds_to_ev_ratio" msgpack:"odds_to_ev_ratio"` // 0 when EVContribution is 0
	MinValue       float64 `json:"min_value" msgpack:"min_value"`
	AvgValue       float64 `json:"avg_value" msgpack:"avg_value"`
	MaxValue       float64 `json:"max_value" msgpack:"max_value"`
	BreakEvenOdds  float64 `json:"break_even_odds" msgpack:"break_even_odds"`
	ItemCount      int     `json:"item_count" msgpack:"item_count"`
}

// TargetHunt describes an attempt to obtain one specific item.
// TargetingCost is what the user has already spent and is supplied by the caller.
type TargetHunt struct {
	Box           Box     `json:"box" msgpack:"box"`
	TargetItem    BoxItem `json:"target_item" msgpack:"target_item"`
	TargetingCost float64 `json:"targeting_cost" msgpack:"targeting_cost"`
}

// BoxAllocation is one line of a portfolio: a box and how many to open
type BoxAllocation struct {
	Box       Box     `json:"box" msgpack:"box"`
	Quantity  int     `json:"quantity" msgpack:"quantity"`
	Cost      float64 `json:"cost" msgpack:"cost"`
	Reasoning string  `json:"reasoning" msgpack:"reasoning"`
}

// KeyMetric is the headline number a strategy is judged by
type KeyMetric struct {
	Label   string  `json:"label" msgpack:"label"`
	Value   float64 `json:"value" msgpack:"value"`
	Tooltip string  `json:"tooltip" msgpack:"tooltip"`
}

// PortfolioStrategy is a budget-constrained recommendation.
// Built once per generator call and never mutated afterwards.
type PortfolioStrategy struct {
	Name              string          `json:"name" msgpack:"name"`
	Description       string          `json:"description" msgpack:"description"`
	Boxes             []BoxAllocation `json:"boxes" msgpack:"boxes"`
	TotalCost         float64         `json:"total_cost" msgpack:"total_cost"`
	RiskLevel         RiskLevel       `json:"risk_level" msgpack:"risk_level"`
	Pros              []string        `json:"pros" msgpack:"pros"`
	Cons              []string        `json:"cons" msgpack:"cons"`
	WorstCaseScenario string          `json:"worst_case_scenario" msgpack:"worst_case_scenario"`
	KeyMetric         KeyMetric       `json:"key_metric" msgpack:"key_metric"`
}

// TotalBoxes returns the number of boxes opened across all allocations
func (p *PortfolioStrategy) TotalBoxes() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, a := range p.Boxes {
		total += a.Quantity
	}
	return total
}

// RankedItem is an item surfaced as a representative contributor to a scenario
type RankedItem struct {
	Name       string  `json:"name" msgpack:"name"`
	Value      float64 `json:"value" msgpack:"value"`
	DropChance float64 `json:"drop_chance" msgpack:"drop_chance"` // weighted by allocation quantity
	BoxName    string  `json:"box_name" msgpack:"box_name"`
	Image      string  `json:"image,omitempty" msgpack:"image,omitempty"`
}

// ScenarioCalculation explains how a scenario probability was produced
type ScenarioCalculation struct {
	Title       string       `json:"title" msgpack:"title"`
	Items       []RankedItem `json:"items" msgpack:"items"`
	TotalItems  int          `json:"total_items" msgpack:"total_items"`
	AvgReturn   float64      `json:"avg_return" msgpack:"avg_return"`
	Methodology string       `json:"methodology" msgpack:"methodology"`
}

// OutcomeScenario is one of the three buckets a portfolio's results fall into
type OutcomeScenario struct {
	Label       string              `json:"label" msgpack:"label"`
	Probability float64             `json:"probability" msgpack:"probability"` // 0-100
	Amount      string              `json:"amount" msgpack:"amount"`
	Description string              `json:"description" msgpack:"description"`
	Calculation ScenarioCalculation `json:"calculation" msgpack:"calculation"`
}

func cloneItems(items []BoxItem) []BoxItem {
	if items == nil {
		return nil
	}
	out := make([]BoxItem, len(items))
	copy(out, items)
	return out
}

func isUsable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
