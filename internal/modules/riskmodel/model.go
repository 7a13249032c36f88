// Package riskmodel centralizes every heuristic constant used by the box economics engine.
//
// The values are risk dampeners and display thresholds, not statistically derived
// quantities. Keeping them in one value object lets them be tuned and tested
// independently of the formulas that consume them.
package riskmodel

import "fmt"

// Model is the tunable risk model consumed by the statistics, hunt, strategy and
// outcome packages
type Model struct {
	// Jackpot classification: item value / box price at or above this multiple
	JackpotMultiple float64

	// Hunt scale penalties (subtracted from base EV)
	UltraRareDropChance   float64 // percent
	UltraRarePenalty      float64
	HighSpendThreshold    float64 // currency units already spent
	HighSpendPenalty      float64
	ManyTrialsThreshold   float64 // expected trials
	ManyTrialsDivisor     float64
	ManyTrialsPenaltyCap  float64
	MinEffectiveEV        float64
	ConservativeZ         float64 // 75th percentile z-score
	FloorSupportFactor    float64
	OptimisticHeadroom    float64
	MinStdDev             float64
	LowerQuantile         float64
	UpperQuantile         float64

	// Hunt profit-probability dampeners (multiplicative)
	UltraRareProbabilityFactor float64
	HighSpendProbabilityFactor float64
	ManyTrialsProbabilityFloor float64
	ManyTrialsProbabilityScale float64
	BothNegativeDiscount       float64
	LowNegativeDiscount        float64
	MinProfitProbability       float64
	MaxProfitProbability       float64

	// Loss-chance robustness policy
	DiscrepancyThreshold float64 // percentage points
	MassLowerBound       float64
	MassUpperBound       float64
	MassTolerance        float64 // for box report warnings

	// Outcome analyzer data-quality band
	OutcomeLowerBound float64
	OutcomeUpperBound float64
	TopItemsPerBucket int

	// Cost indicator bands
	CostBandModerate float64
	CostBandHigh     float64
	CostBandExtreme  float64

	// Volatility buckets (stddev % of price)
	VolatilityMediumAt float64
	VolatilityHighAt   float64

	Grinder      StrategyLimits
	ValueHunter  StrategyLimits
	JackpotChase StrategyLimits
}

// StrategyLimits are the eligibility threshold and diversification cap of one generator
type StrategyLimits struct {
	Threshold         float64
	MaxQuantityPerBox int
}

// Default returns the production risk model
func Default() Model {
	return Model{
		JackpotMultiple: 5.0,

		UltraRareDropChance:  0.001,
		UltraRarePenalty:     0.15,
		HighSpendThreshold:   100000,
		HighSpendPenalty:     0.10,
		ManyTrialsThreshold:  50000,
		ManyTrialsDivisor:    500000,
		ManyTrialsPenaltyCap: 0.20,
		MinEffectiveEV:       0.5,
		ConservativeZ:        0.674,
		FloorSupportFactor:   0.8,
		OptimisticHeadroom:   0.15,
		MinStdDev:            0.05,
		LowerQuantile:        0.25,
		UpperQuantile:        0.75,

		UltraRareProbabilityFactor: 0.6,
		HighSpendProbabilityFactor: 0.7,
		ManyTrialsProbabilityFloor: 0.4,
		ManyTrialsProbabilityScale: 200000,
		BothNegativeDiscount:       0.3,
		LowNegativeDiscount:        0.75,
		MinProfitProbability:       1,
		MaxProfitProbability:       95,

		DiscrepancyThreshold: 10,
		MassLowerBound:       95,
		MassUpperBound:       105,
		MassTolerance:        5,

		OutcomeLowerBound: 80,
		OutcomeUpperBound: 120,
		TopItemsPerBucket: 5,

		CostBandModerate: 500,
		CostBandHigh:     2000,
		CostBandExtreme:  10000,

		VolatilityMediumAt: 100,
		VolatilityHighAt:   300,

		Grinder:      StrategyLimits{Threshold: 3, MaxQuantityPerBox: 5},
		ValueHunter:  StrategyLimits{Threshold: 60, MaxQuantityPerBox: 8},
		JackpotChase: StrategyLimits{Threshold: 0, MaxQuantityPerBox: 15},
	}
}

// Validate rejects models that would break the engine's invariants
func (m Model) Validate() error {
	if m.JackpotMultiple <= 1 {
		return fmt.Errorf("jackpot multiple must be greater than 1, got %v", m.JackpotMultiple)
	}
	if m.LowerQuantile <= 0 || m.UpperQuantile >= 1 || m.LowerQuantile > m.UpperQuantile {
		return fmt.Errorf("invalid quantiles %v/%v", m.LowerQuantile, m.UpperQuantile)
	}
	if m.MinProfitProbability < 0 || m.MaxProfitProbability > 100 || m.MinProfitProbability > m.MaxProfitProbability {
		return fmt.Errorf("invalid profit probability clamp [%v,%v]", m.MinProfitProbability, m.MaxProfitProbability)
	}
	if m.MassLowerBound > m.MassUpperBound || m.OutcomeLowerBound > m.OutcomeUpperBound {
		return fmt.Errorf("invalid probability mass bounds")
	}
	if !(m.CostBandModerate < m.CostBandHigh && m.CostBandHigh < m.CostBandExtreme) {
		return fmt.Errorf("cost bands must be strictly increasing")
	}
	for name, limits := range map[string]StrategyLimits{
		"grinder":        m.Grinder,
		"value_hunter":   m.ValueHunter,
		"jackpot_chaser": m.JackpotChase,
	} {
		if limits.MaxQuantityPerBox < 1 {
			return fmt.Errorf("%s max quantity per box must be at least 1", name)
		}
	}
	if m.TopItemsPerBucket < 1 {
		return fmt.Errorf("top items per bucket must be at least 1")
	}
	return nil
}

// IsJackpot reports whether an item value qualifies as a jackpot for the given box price
func (m Model) IsJackpot(value, boxPrice float64) bool {
	if boxPrice <= 0 {
		return false
	}
	return value/boxPrice >= m.JackpotMultiple
}
