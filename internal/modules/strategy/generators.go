// Package strategy turns a box catalog and a budget into risk-classified portfolio
// recommendations.
//
// Each generator filters the catalog by its own eligibility rule, orders the eligible
// boxes by its own score and hands them to the shared greedy allocator with its own
// diversification cap. A nil strategy means "no viable recommendation", not an error.
package strategy

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/rs/zerolog"
)

// Generator builds one named strategy from a catalog snapshot
type Generator interface {
	// Name returns the unique identifier of the strategy
	Name() string

	// RiskLevel returns the risk classification every generated portfolio carries
	RiskLevel() domain.RiskLevel

	// Generate returns nil when no box is eligible and affordable
	Generate(catalog []domain.Box, budget float64) *domain.PortfolioStrategy
}

// BaseGenerator provides the risk model and logger shared by all generators
type BaseGenerator struct {
	model riskmodel.Model
	log   zerolog.Logger
}

// NewBaseGenerator creates a new base generator with logging
func NewBaseGenerator(model riskmodel.Model, log zerolog.Logger, name string) *BaseGenerator {
	return &BaseGenerator{
		model: model,
		log:   log.With().Str("strategy", name).Logger(),
	}
}

type scoredBox struct {
	box   domain.Box
	score float64
}

// rank keeps eligible boxes and orders them by descending score. Ties fall back to the
// cheaper box, then to the name, so results do not depend on catalog order.
func rank(catalog []domain.Box, eligible func(domain.Box) bool, score func(domain.Box) float64) []domain.Box {
	scored := make([]scoredBox, 0, len(catalog))
	for _, box := range catalog {
		if !box.HasValidPrice() || !eligible(box) {
			continue
		}
		scored = append(scored, scoredBox{box: box, score: score(box)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].box.BoxPrice != scored[j].box.BoxPrice {
			return scored[i].box.BoxPrice < scored[j].box.BoxPrice
		}
		return scored[i].box.BoxName < scored[j].box.BoxName
	})

	boxes := make([]domain.Box, len(scored))
	for i, s := range scored {
		boxes[i] = s.box
	}
	return boxes
}

func floorValue(a domain.BoxAllocation) float64 {
	return a.Cost * nonNegative(a.Box.FloorRatePercent) / 100
}

func expectedValue(a domain.BoxAllocation) float64 {
	return a.Cost * nonNegative(a.Box.ExpectedValuePercentOfPrice) / 100
}

func sumAllocations(allocations []domain.BoxAllocation, f func(domain.BoxAllocation) float64) float64 {
	total := 0.0
	for _, a := range allocations {
		total += f(a)
	}
	return total
}

// GrinderGenerator favors boxes with a solid floor and low volatility
type GrinderGenerator struct {
	*BaseGenerator
}

// NewGrinderGenerator creates the low-risk grinder strategy generator
func NewGrinderGenerator(model riskmodel.Model, log zerolog.Logger) *GrinderGenerator {
	return &GrinderGenerator{BaseGenerator: NewBaseGenerator(model, log, "grinder")}
}

// Name returns the strategy name
func (g *GrinderGenerator) Name() string {
	return "grinder"
}

// RiskLevel returns Low
func (g *GrinderGenerator) RiskLevel() domain.RiskLevel {
	return domain.RiskLow
}

// Generate builds the grinder portfolio
func (g *GrinderGenerator) Generate(catalog []domain.Box, budget float64) *domain.PortfolioStrategy {
	limits := g.model.Grinder
	sorted := rank(catalog,
		func(b domain.Box) bool { return b.FloorRatePercent >= limits.Threshold },
		func(b domain.Box) float64 {
			return CalculateFloorValuePerDollar(b)*1000 - nonNegative(b.StandardDeviationPercent)
		},
	)

	allocations, totalCost := BuildPortfolioFromSortedBoxes(sorted, budget, limits.MaxQuantityPerBox,
		func(b domain.Box, qty int) string {
			return fmt.Sprintf("%.1f%% floor with %.0f%% volatility: %d box(es) return at least $%.2f",
				b.FloorRatePercent, b.StandardDeviationPercent, qty, float64(qty)*b.BoxPrice*b.FloorRatePercent/100)
		})
	if len(allocations) == 0 {
		g.log.Debug().Int("eligible", len(sorted)).Float64("budget", budget).Msg("No viable grinder portfolio")
		return nil
	}

	floor := sumAllocations(allocations, floorValue)
	return &domain.PortfolioStrategy{
		Name:        "The Grinder",
		Description: "Spreads the budget over boxes with the highest guaranteed floor and the lowest volatility. Small, steady losses instead of big swings.",
		Boxes:       allocations,
		TotalCost:   totalCost,
		RiskLevel:   g.RiskLevel(),
		Pros: []string{
			"Every box pays back a meaningful minimum",
			"Low volatility keeps results close to expectations",
			fmt.Sprintf("At most %d of any single box", limits.MaxQuantityPerBox),
		},
		Cons: []string{
			"Jackpots are rare in high-floor boxes",
			"Expected value is still usually below the price paid",
		},
		WorstCaseScenario: fmt.Sprintf("Every box pays its floor: $%.2f back from $%.2f spent (%.0f%% recovered).",
			floor, totalCost, safePercent(floor, totalCost)),
		KeyMetric: domain.KeyMetric{
			Label:   "Portfolio Floor Value",
			Value:   floor,
			Tooltip: "Sum of the minimum guaranteed value across all boxes in the portfolio",
		},
	}
}

// ValueHunterGenerator favors boxes with the best expected value per dollar
type ValueHunterGenerator struct {
	*BaseGenerator
}

// NewValueHunterGenerator creates the medium-risk value hunter strategy generator
func NewValueHunterGenerator(model riskmodel.Model, log zerolog.Logger) *ValueHunterGenerator {
	return &ValueHunterGenerator{BaseGenerator: NewBaseGenerator(model, log, "value_hunter")}
}

// Name returns the strategy name
func (g *ValueHunterGenerator) Name() string {
	return "value_hunter"
}

// RiskLevel returns Medium
func (g *ValueHunterGenerator) RiskLevel() domain.RiskLevel {
	return domain.RiskMedium
}

// Generate builds the value hunter portfolio
func (g *ValueHunterGenerator) Generate(catalog []domain.Box, budget float64) *domain.PortfolioStrategy {
	limits := g.model.ValueHunter
	sorted := rank(catalog,
		func(b domain.Box) bool { return b.ExpectedValuePercentOfPrice > limits.Threshold },
		CalculateEVPerDollar,
	)

	allocations, totalCost := BuildPortfolioFromSortedBoxes(sorted, budget, limits.MaxQuantityPerBox,
		func(b domain.Box, qty int) string {
			return fmt.Sprintf("Returns $%.2f per dollar on average; %d box(es) expected to pay $%.2f",
				CalculateEVPerDollar(b), qty, float64(qty)*b.BoxPrice*b.ExpectedValuePercentOfPrice/100)
		})
	if len(allocations) == 0 {
		g.log.Debug().Int("eligible", len(sorted)).Float64("budget", budget).Msg("No viable value hunter portfolio")
		return nil
	}

	ev := sumAllocations(allocations, expectedValue)
	floor := sumAllocations(allocations, floorValue)
	return &domain.PortfolioStrategy{
		Name:        "The Value Hunter",
		Description: "Buys the boxes that return the most expected value per dollar, accepting moderate swings to keep the long-run average high.",
		Boxes:       allocations,
		TotalCost:   totalCost,
		RiskLevel:   g.RiskLevel(),
		Pros: []string{
			"Highest average return per dollar in the catalog",
			fmt.Sprintf("Only boxes above %.0f%% expected value", limits.Threshold),
		},
		Cons: []string{
			"Individual results vary widely around the average",
			"High-EV boxes can have low floors",
			fmt.Sprintf("Concentrates up to %d units per box", limits.MaxQuantityPerBox),
		},
		WorstCaseScenario: fmt.Sprintf("Only floor items drop: $%.2f back from $%.2f spent, against $%.2f expected.",
			floor, totalCost, ev),
		KeyMetric: domain.KeyMetric{
			Label:   "Total Expected Value",
			Value:   ev,
			Tooltip: "Probability-weighted average payout of the whole portfolio",
		},
	}
}

// JackpotChaserGenerator favors boxes with the highest jackpot probability per dollar
type JackpotChaserGenerator struct {
	*BaseGenerator
}

// NewJackpotChaserGenerator creates the very-high-risk jackpot strategy generator
func NewJackpotChaserGenerator(model riskmodel.Model, log zerolog.Logger) *JackpotChaserGenerator {
	return &JackpotChaserGenerator{BaseGenerator: NewBaseGenerator(model, log, "jackpot_chaser")}
}

// Name returns the strategy name
func (g *JackpotChaserGenerator) Name() string {
	return "jackpot_chaser"
}

// RiskLevel returns Very High
func (g *JackpotChaserGenerator) RiskLevel() domain.RiskLevel {
	return domain.RiskVeryHigh
}

// Generate builds the jackpot chaser portfolio
func (g *JackpotChaserGenerator) Generate(catalog []domain.Box, budget float64) *domain.PortfolioStrategy {
	limits := g.model.JackpotChase
	score := func(b domain.Box) float64 { return jackpotProbabilityPerDollar(g.model, b) }
	sorted := rank(catalog,
		func(b domain.Box) bool { return score(b) > limits.Threshold },
		score,
	)

	allocations, totalCost := BuildPortfolioFromSortedBoxes(sorted, budget, limits.MaxQuantityPerBox,
		func(b domain.Box, qty int) string {
			top, _ := topJackpotItem(g.model, b)
			return fmt.Sprintf("%.4f%% jackpot odds per dollar; %d shot(s) at %s ($%.2f)",
				score(b), qty, top.Name, top.Value)
		})
	if len(allocations) == 0 {
		g.log.Debug().Int("eligible", len(sorted)).Float64("budget", budget).Msg("No viable jackpot portfolio")
		return nil
	}

	topValue := 0.0
	topName := ""
	jackpotOdds := 1.0
	for _, a := range allocations {
		if item, ok := topJackpotItem(g.model, a.Box); ok && item.Value > topValue {
			topValue = item.Value
			topName = item.Name
		}
		// P(no jackpot in this allocation) = (1 - p)^qty
		p := jackpotProbabilityPerDollar(g.model, a.Box) * a.Box.BoxPrice / 100
		jackpotOdds *= math.Pow(1-math.Min(p, 1), float64(a.Quantity))
	}
	hitChance := (1 - jackpotOdds) * 100
	floor := sumAllocations(allocations, floorValue)

	return &domain.PortfolioStrategy{
		Name:        "The Jackpot Chaser",
		Description: fmt.Sprintf("Maximizes the number of shots at items worth %.0fx the box price or more. Most runs lose; a single hit can pay for everything.", g.model.JackpotMultiple),
		Boxes:       allocations,
		TotalCost:   totalCost,
		RiskLevel:   g.RiskLevel(),
		Pros: []string{
			fmt.Sprintf("%.1f%% chance of at least one jackpot", hitChance),
			fmt.Sprintf("Top prize: %s", topName),
		},
		Cons: []string{
			"Most likely outcome is a substantial loss",
			"Jackpot items are rare by definition",
			"Results are extremely volatile",
		},
		WorstCaseScenario: fmt.Sprintf("No jackpot drops: about $%.2f back from $%.2f spent.", floor, totalCost),
		KeyMetric: domain.KeyMetric{
			Label:   "Top Jackpot",
			Value:   topValue,
			Tooltip: "Value of the single most valuable jackpot item reachable with this portfolio",
		},
	}
}

func safePercent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
