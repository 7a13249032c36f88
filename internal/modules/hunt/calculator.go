// Package hunt estimates the economics of repeatedly opening one box to obtain a
// specific item.
//
// Purchases until the first copy are modelled as Geometric(p) with p = drop chance / 100.
// Return estimates combine the box's own EV, standard deviation and floor rate with the
// geometric cost quartiles, dampened by the heuristic scale penalties of the risk model.
package hunt

import (
	"math"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/aristath/boxengine/pkg/formulas"
)

// CostRange is the interquartile spend needed to obtain one copy of an item
type CostRange struct {
	Low        float64 `json:"low" msgpack:"low"`
	High       float64 `json:"high" msgpack:"high"`
	LowTrials  float64 `json:"low_trials" msgpack:"low_trials"`
	HighTrials float64 `json:"high_trials" msgpack:"high_trials"`
}

// Estimate is the volatility-adjusted outcome of hunting one item
type Estimate struct {
	Low                    float64         `json:"low" msgpack:"low"`
	High                   float64         `json:"high" msgpack:"high"`
	ProfitProbability      float64         `json:"profit_probability" msgpack:"profit_probability"`
	CostRange              CostRange       `json:"cost_range" msgpack:"cost_range"`
	ExpectedTrials         float64         `json:"expected_trials" msgpack:"expected_trials"`
	EffectiveEV            float64         `json:"effective_ev" msgpack:"effective_ev"`
	ScalingPenalty         float64         `json:"scaling_penalty" msgpack:"scaling_penalty"`
	ConservativeMultiplier float64         `json:"conservative_multiplier" msgpack:"conservative_multiplier"`
	OptimisticMultiplier   float64         `json:"optimistic_multiplier" msgpack:"optimistic_multiplier"`
	BreakEvenMultiplier    float64         `json:"break_even_multiplier" msgpack:"break_even_multiplier"`
	Warnings               domain.Warnings `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// Calculator evaluates hunts under a risk model
type Calculator struct {
	model riskmodel.Model
}

// NewCalculator creates a hunt calculator
func NewCalculator(model riskmodel.Model) *Calculator {
	return &Calculator{model: model}
}

var defaultCalculator = NewCalculator(riskmodel.Default())

// CalculateCostRange returns the first and third quartile of the spend needed to
// obtain one copy of an item, using the default risk model
func CalculateCostRange(boxPrice, dropChancePercent float64) CostRange {
	return defaultCalculator.CostRange(boxPrice, dropChancePercent)
}

// CalculateExpectedMoneyLeftRange is ExpectedMoneyLeftRange on the default risk model
func CalculateExpectedMoneyLeftRange(box domain.Box, targetItem domain.BoxItem, targetingCost float64) Estimate {
	return defaultCalculator.ExpectedMoneyLeftRange(box, targetItem, targetingCost)
}

// CostRange returns (0,0) when the drop chance is not positive
func (c *Calculator) CostRange(boxPrice, dropChancePercent float64) CostRange {
	p := dropChancePercent / 100
	if math.IsNaN(p) || p <= 0 || !usable(boxPrice) {
		return CostRange{}
	}

	lowTrials := formulas.GeometricQuantile(p, c.model.LowerQuantile)
	highTrials := formulas.GeometricQuantile(p, c.model.UpperQuantile)

	return CostRange{
		Low:        lowTrials * boxPrice,
		High:       highTrials * boxPrice,
		LowTrials:  lowTrials,
		HighTrials: highTrials,
	}
}

// Estimate evaluates a TargetHunt
func (c *Calculator) Estimate(h domain.TargetHunt) Estimate {
	return c.ExpectedMoneyLeftRange(h.Box, h.TargetItem, h.TargetingCost)
}

// ExpectedMoneyLeftRange estimates what is left after buying boxes until the target
// drops: the return of the purchased boxes minus their cost, at both cost quartiles,
// plus the probability that the hunt ends in profit given what was already spent.
func (c *Calculator) ExpectedMoneyLeftRange(box domain.Box, targetItem domain.BoxItem, targetingCost float64) Estimate {
	if !targetItem.HasValidDropChance() || targetItem.DropChance <= 0 {
		return Estimate{}
	}

	m := c.model
	est := Estimate{CostRange: c.CostRange(box.BoxPrice, targetItem.DropChance)}

	baseEV := nonNegative(box.ExpectedValuePercentOfPrice) / 100
	stdDev := nonNegative(box.StandardDeviationPercent) / 100
	floorRate := nonNegative(box.FloorRatePercent) / 100
	spent := nonNegative(targetingCost)

	trials := math.Ceil(100 / targetItem.DropChance)
	est.ExpectedTrials = trials

	ultraRare := targetItem.DropChance < m.UltraRareDropChance
	highSpend := spent > m.HighSpendThreshold
	manyTrials := trials > m.ManyTrialsThreshold

	if ultraRare {
		est.ScalingPenalty += m.UltraRarePenalty
		est.Warnings.Add(domain.WarningUltraRareTarget, targetItem.DropChance,
			"%s drops at %s, estimates are heavily dampened", targetItem.Name, FormatDropChance(targetItem.DropChance))
	}
	if highSpend {
		est.ScalingPenalty += m.HighSpendPenalty
		est.Warnings.Add(domain.WarningHighSpendTarget, spent, "already spent %.2f on this hunt", spent)
	}
	if manyTrials {
		est.ScalingPenalty += math.Min(trials/m.ManyTrialsDivisor, m.ManyTrialsPenaltyCap)
		est.Warnings.Add(domain.WarningManyTrialsTarget, trials, "about %.0f boxes expected before a drop", trials)
	}

	est.EffectiveEV = math.Max(m.MinEffectiveEV, baseEV-est.ScalingPenalty)

	spread := m.ConservativeZ * stdDev
	est.ConservativeMultiplier = math.Max(est.EffectiveEV-spread, floorRate*m.FloorSupportFactor)
	est.OptimisticMultiplier = math.Min(est.EffectiveEV+spread, est.EffectiveEV+m.OptimisticHeadroom)

	est.Low = est.CostRange.Low*est.ConservativeMultiplier - est.CostRange.Low
	est.High = est.CostRange.High*est.OptimisticMultiplier - est.CostRange.High
	if est.Low > est.High {
		est.Low, est.High = est.High, est.Low
	}

	if denom := trials * box.BoxPrice; usable(denom) && denom > 0 {
		est.BreakEvenMultiplier = spent / denom
	}
	z := (est.BreakEvenMultiplier - est.EffectiveEV) / math.Max(stdDev, m.MinStdDev)
	probability := formulas.NormalSurvival(z) * 100

	if ultraRare {
		probability *= m.UltraRareProbabilityFactor
	}
	if highSpend {
		probability *= m.HighSpendProbabilityFactor
	}
	if manyTrials {
		probability *= math.Max(m.ManyTrialsProbabilityFloor, 1-trials/m.ManyTrialsProbabilityScale)
	}

	switch {
	case est.Low < 0 && est.High < 0:
		probability *= m.BothNegativeDiscount
	case est.Low < 0:
		probability *= m.LowNegativeDiscount
	}

	est.ProfitProbability = formulas.Clamp(probability, m.MinProfitProbability, m.MaxProfitProbability)
	return est
}

// FindTargetItem looks an item up by exact name in the box's authoritative pool
func FindTargetItem(box domain.Box, name string) (domain.BoxItem, bool) {
	for _, item := range box.AllItems {
		if item.Name == name {
			return item, true
		}
	}
	return domain.BoxItem{}, false
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
