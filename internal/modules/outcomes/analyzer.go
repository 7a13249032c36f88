// Package outcomes buckets a portfolio's combined item pool into loss, profit and
// jackpot scenarios.
package outcomes

import (
	"fmt"
	"sort"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
)

// Scenario labels, in the order Analyze returns them.
// LabelMostLikely always names the loss bucket; Analysis.MostLikely names the bucket that
// actually carries the most probability.
const (
	LabelMostLikely = "Most Likely"
	LabelProfitable = "Profitable Return"
	LabelJackpot    = "Jackpot"
)

// Analysis is the outcome breakdown of one portfolio.
// MostLikely is the label of the scenario with the highest probability.
// RawProbabilityTotal is the bucket total before normalization; when it leaves the
// model's outcome band DataQualityWarning is set and the caller should say so.
type Analysis struct {
	Scenarios           []domain.OutcomeScenario `json:"scenarios" msgpack:"scenarios"`
	MostLikely          string                   `json:"most_likely,omitempty" msgpack:"most_likely,omitempty"`
	RawProbabilityTotal float64                  `json:"raw_probability_total" msgpack:"raw_probability_total"`
	DataQualityWarning  bool                     `json:"data_quality_warning" msgpack:"data_quality_warning"`
	TotalBoxes          int                      `json:"total_boxes" msgpack:"total_boxes"`
	CostBasisPerBox     float64                  `json:"cost_basis_per_box" msgpack:"cost_basis_per_box"`
	Warnings            domain.Warnings          `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// Analyzer computes outcome scenarios under a risk model
type Analyzer struct {
	model riskmodel.Model
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(model riskmodel.Model) *Analyzer {
	return &Analyzer{model: model}
}

var defaultAnalyzer = NewAnalyzer(riskmodel.Default())

// Analyze runs the default analyzer
func Analyze(strategy *domain.PortfolioStrategy) Analysis {
	return defaultAnalyzer.Analyze(strategy)
}

type bucket struct {
	weight      float64 // sum of quantity * drop chance
	valueWeight float64 // sum of quantity * probability * value
	items       []domain.RankedItem
}

// Analyze buckets every valid item of every allocation against the portfolio's average
// cost per box. An item is a loss below that basis, a jackpot at or above
// JackpotMultiple times it, and a profitable return in between.
//
// An empty or nil strategy yields an Analysis without scenarios.
func (a *Analyzer) Analyze(strategy *domain.PortfolioStrategy) Analysis {
	totalBoxes := strategy.TotalBoxes()
	if totalBoxes == 0 || strategy.TotalCost <= 0 {
		return Analysis{}
	}

	n := float64(totalBoxes)
	basis := strategy.TotalCost / n
	jackpotAt := basis * a.model.JackpotMultiple

	var loss, profit, jackpot bucket
	var warnings domain.Warnings
	invalid := 0

	for _, allocation := range strategy.Boxes {
		if allocation.Quantity <= 0 {
			continue
		}
		qty := float64(allocation.Quantity)
		for _, item := range allocation.Box.AllItems {
			if !item.IsValid() {
				invalid++
				continue
			}
			if item.DropChance == 0 {
				continue
			}

			target := &profit
			switch {
			case item.Value < basis:
				target = &loss
			case item.Value >= jackpotAt:
				target = &jackpot
			}

			weight := qty * item.DropChance
			target.weight += weight
			target.valueWeight += qty * item.Probability() * item.Value
			target.items = append(target.items, domain.RankedItem{
				Name:       item.Name,
				Value:      item.Value,
				DropChance: weight / n,
				BoxName:    allocation.Box.BoxName,
				Image:      item.Image,
			})
		}
	}

	if invalid > 0 {
		warnings.Add(domain.WarningInvalidItems, float64(invalid),
			"%d item(s) with unusable value or drop chance were excluded", invalid)
	}

	rawTotal := (loss.weight + profit.weight + jackpot.weight) / n
	dataQuality := rawTotal < a.model.OutcomeLowerBound || rawTotal > a.model.OutcomeUpperBound
	if dataQuality {
		warnings.Add(domain.WarningProbabilityTotal, rawTotal,
			"scenario probabilities sum to %.1f%% before normalization", rawTotal)
	}

	normalize := func(b bucket) float64 {
		if rawTotal <= 0 {
			return 0
		}
		return b.weight / n / rawTotal * 100
	}

	scenarios := []domain.OutcomeScenario{
		a.scenario(LabelMostLikely, loss, normalize(loss), n,
			fmt.Sprintf("Items worth less than the $%.2f average cost per box. This is the net-loss bucket; it is not always the largest one.", basis),
			fmt.Sprintf("Items valued below $%.2f", basis)),
		a.scenario(LabelProfitable, profit, normalize(profit), n,
			fmt.Sprintf("Items worth between $%.2f and $%.2f: the box pays for itself.", basis, jackpotAt),
			fmt.Sprintf("Items valued $%.2f to $%.2f", basis, jackpotAt)),
		a.scenario(LabelJackpot, jackpot, normalize(jackpot), n,
			fmt.Sprintf("Items worth at least %.0fx the average cost per box ($%.2f).", a.model.JackpotMultiple, jackpotAt),
			fmt.Sprintf("Items valued $%.2f and above", jackpotAt)),
	}

	return Analysis{
		Scenarios:           scenarios,
		MostLikely:          mostLikely(scenarios),
		RawProbabilityTotal: rawTotal,
		DataQualityWarning:  dataQuality,
		TotalBoxes:          totalBoxes,
		CostBasisPerBox:     basis,
		Warnings:            warnings,
	}
}

func (a *Analyzer) scenario(label string, b bucket, probability, boxes float64, description, title string) domain.OutcomeScenario {
	avgReturn := b.valueWeight / boxes

	// Conditional mean item value given the bucket
	amount := "$0.00"
	if b.weight > 0 {
		amount = fmt.Sprintf("~$%.2f per item", b.valueWeight*100/b.weight)
	}

	return domain.OutcomeScenario{
		Label:       label,
		Probability: probability,
		Amount:      amount,
		Description: description,
		Calculation: domain.ScenarioCalculation{
			Title:      title,
			Items:      topItems(b.items, a.model.TopItemsPerBucket),
			TotalItems: len(b.items),
			AvgReturn:  avgReturn,
			Methodology: fmt.Sprintf(
				"Sum of drop chance x quantity over %d item(s), divided by %.0f boxes and normalized so all scenarios total 100%%. Average return is the value these items contribute per box opened.",
				len(b.items), boxes),
		},
	}
}

// mostLikely returns the label of the highest-probability scenario, earlier scenarios
// winning ties
func mostLikely(scenarios []domain.OutcomeScenario) string {
	best := -1
	for i, s := range scenarios {
		if best < 0 || s.Probability > scenarios[best].Probability {
			best = i
		}
	}
	if best < 0 || scenarios[best].Probability <= 0 {
		return ""
	}
	return scenarios[best].Label
}

// topItems returns the most valuable items, ties broken by weighted drop chance then name
func topItems(items []domain.RankedItem, limit int) []domain.RankedItem {
	sorted := make([]domain.RankedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		if sorted[i].DropChance != sorted[j].DropChance {
			return sorted[i].DropChance > sorted[j].DropChance
		}
		return sorted[i].Name < sorted[j].Name
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
