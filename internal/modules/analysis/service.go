// Package analysis composes the box economics engine over the live catalog for the
// transport layer.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/catalog"
	"github.com/aristath/boxengine/internal/modules/hunt"
	"github.com/aristath/boxengine/internal/modules/outcomes"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/aristath/boxengine/internal/modules/statistics"
	"github.com/aristath/boxengine/internal/modules/strategy"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrItemNotFound is returned when a hunt names an item the box does not contain
	ErrItemNotFound = errors.New("item not found in box")
	// ErrUnknownStrategy is returned for a strategy name no generator is registered under
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrInvalidBudget is returned for a missing, non-numeric or non-positive budget
	ErrInvalidBudget = errors.New("budget must be a positive number")
	// ErrInvalidSpend is returned for a negative or non-numeric amount already spent
	ErrInvalidSpend = errors.New("spent must be a non-negative number")
)

// CatalogReader is the read side of the catalog store
type CatalogReader interface {
	All() []domain.Box
	Get(name string) (domain.Box, error)
	Len() int
	LoadedAt() time.Time
	Warnings() domain.Warnings
}

// BoxSummary is one catalog listing row
type BoxSummary struct {
	Name                 string                  `json:"name" msgpack:"name"`
	Price                float64                 `json:"price" msgpack:"price"`
	ExpectedValuePercent float64                 `json:"expected_value_percent" msgpack:"expected_value_percent"`
	FloorRatePercent     float64                 `json:"floor_rate_percent" msgpack:"floor_rate_percent"`
	VolatilityBucket     domain.VolatilityBucket `json:"volatility_bucket" msgpack:"volatility_bucket"`
	ItemCount            int                     `json:"item_count" msgpack:"item_count"`
}

// CatalogListing is the catalog overview
type CatalogListing struct {
	Boxes    []BoxSummary    `json:"boxes" msgpack:"boxes"`
	LoadedAt time.Time       `json:"loaded_at" msgpack:"loaded_at"`
	Warnings domain.Warnings `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
}

// HuntReport is a hunt estimate with its display classification
type HuntReport struct {
	BoxName         string             `json:"box_name" msgpack:"box_name"`
	BoxPrice        float64            `json:"box_price" msgpack:"box_price"`
	Item            domain.BoxItem     `json:"item" msgpack:"item"`
	DropChance      string             `json:"drop_chance" msgpack:"drop_chance"`
	Spent           float64            `json:"spent" msgpack:"spent"`
	Estimate        hunt.Estimate      `json:"estimate" msgpack:"estimate"`
	Outlook         hunt.RangeOutlook  `json:"outlook" msgpack:"outlook"`
	OutlookColor    string             `json:"outlook_color" msgpack:"outlook_color"`
	CostIndicator   hunt.CostIndicator `json:"cost_indicator" msgpack:"cost_indicator"`
	EstimatedBudget float64            `json:"estimated_budget" msgpack:"estimated_budget"`
}

// StrategiesReport is the result of running every generator on one budget
type StrategiesReport struct {
	ReportID    string            `json:"report_id" msgpack:"report_id"`
	Budget      float64           `json:"budget" msgpack:"budget"`
	CatalogSize int               `json:"catalog_size" msgpack:"catalog_size"`
	GeneratedAt time.Time         `json:"generated_at" msgpack:"generated_at"`
	Strategies  []strategy.Result `json:"strategies" msgpack:"strategies"`
}

// StrategyReport is one strategy and its outcome analysis. Strategy and Outcomes are
// nil when the generator found nothing viable.
type StrategyReport struct {
	ReportID    string                    `json:"report_id" msgpack:"report_id"`
	Generator   string                    `json:"generator" msgpack:"generator"`
	Budget      float64                   `json:"budget" msgpack:"budget"`
	GeneratedAt time.Time                 `json:"generated_at" msgpack:"generated_at"`
	Strategy    *domain.PortfolioStrategy `json:"strategy" msgpack:"strategy"`
	Outcomes    *outcomes.Analysis        `json:"outcomes" msgpack:"outcomes"`
}

// Service runs the engine against the current catalog snapshot
type Service struct {
	catalog  CatalogReader
	stats    *statistics.Calculator
	hunt     *hunt.Calculator
	outcomes *outcomes.Analyzer
	registry *strategy.Registry
	log      zerolog.Logger
}

// NewService creates a new analysis service
func NewService(catalog CatalogReader, model riskmodel.Model, registry *strategy.Registry, log zerolog.Logger) *Service {
	return &Service{
		catalog:  catalog,
		stats:    statistics.NewCalculator(model),
		hunt:     hunt.NewCalculator(model),
		outcomes: outcomes.NewAnalyzer(model),
		registry: registry,
		log:      log.With().Str("service", "analysis").Logger(),
	}
}

// ListBoxes returns a summary row per box in catalog order
func (s *Service) ListBoxes() CatalogListing {
	boxes := s.catalog.All()
	rows := make([]BoxSummary, 0, len(boxes))
	for _, b := range boxes {
		rows = append(rows, BoxSummary{
			Name:                 b.BoxName,
			Price:                b.BoxPrice,
			ExpectedValuePercent: b.ExpectedValuePercentOfPrice,
			FloorRatePercent:     b.FloorRatePercent,
			VolatilityBucket:     b.VolatilityBucket,
			ItemCount:            len(b.AllItems),
		})
	}
	return CatalogListing{
		Boxes:    rows,
		LoadedAt: s.catalog.LoadedAt(),
		Warnings: s.catalog.Warnings(),
	}
}

// BoxReport returns the statistics report of a box
func (s *Service) BoxReport(name string) (statistics.BoxReport, error) {
	box, err := s.catalog.Get(name)
	if err != nil {
		return statistics.BoxReport{}, fmt.Errorf("%w: %s", err, name)
	}

	report := s.stats.AnalyzeBox(box)
	s.logWarnings(report.Warnings, "box", name)
	return report, nil
}

// Hunt estimates the money left after hunting itemName in boxName having already
// spent the given amount
func (s *Service) Hunt(boxName, itemName string, spent float64) (HuntReport, error) {
	if math.IsNaN(spent) || math.IsInf(spent, 0) || spent < 0 {
		return HuntReport{}, ErrInvalidSpend
	}

	box, err := s.catalog.Get(boxName)
	if err != nil {
		return HuntReport{}, fmt.Errorf("%w: %s", err, boxName)
	}
	item, ok := hunt.FindTargetItem(box, itemName)
	if !ok {
		return HuntReport{}, fmt.Errorf("%w: %q in %q", ErrItemNotFound, itemName, boxName)
	}

	estimate := s.hunt.Estimate(domain.TargetHunt{Box: box, TargetItem: item, TargetingCost: spent})
	s.logWarnings(estimate.Warnings, "box", boxName)

	outlook := hunt.GetRangeColor(estimate.Low, estimate.High)
	return HuntReport{
		BoxName:         box.BoxName,
		BoxPrice:        box.BoxPrice,
		Item:            item,
		DropChance:      hunt.FormatDropChance(item.DropChance),
		Spent:           spent,
		Estimate:        estimate,
		Outlook:         outlook,
		OutlookColor:    outlook.Color(),
		CostIndicator:   s.hunt.CostIndicator(estimate.CostRange.High),
		EstimatedBudget: estimate.CostRange.High,
	}, nil
}

// Strategies runs every registered generator
func (s *Service) Strategies(budget float64) (StrategiesReport, error) {
	if !validBudget(budget) {
		return StrategiesReport{}, ErrInvalidBudget
	}

	boxes := s.catalog.All()
	report := StrategiesReport{
		ReportID:    uuid.New().String(),
		Budget:      budget,
		CatalogSize: len(boxes),
		GeneratedAt: time.Now().UTC(),
		Strategies:  s.registry.GenerateAll(boxes, budget),
	}

	s.log.Info().
		Str("report_id", report.ReportID).
		Float64("budget", budget).
		Int("catalog_size", report.CatalogSize).
		Msg("Strategies generated")

	return report, nil
}

// Strategy runs one generator and analyzes the outcome of its portfolio
func (s *Service) Strategy(name string, budget float64) (StrategyReport, error) {
	if !validBudget(budget) {
		return StrategyReport{}, ErrInvalidBudget
	}

	generator, err := s.registry.Get(name)
	if err != nil {
		return StrategyReport{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}

	report := StrategyReport{
		ReportID:    uuid.New().String(),
		Generator:   generator.Name(),
		Budget:      budget,
		GeneratedAt: time.Now().UTC(),
		Strategy:    generator.Generate(s.catalog.All(), budget),
	}

	if report.Strategy != nil {
		analysis := s.outcomes.Analyze(report.Strategy)
		report.Outcomes = &analysis
		s.logWarnings(analysis.Warnings, "strategy", name)
	}

	s.log.Info().
		Str("report_id", report.ReportID).
		Str("strategy", name).
		Float64("budget", budget).
		Bool("viable", report.Strategy != nil).
		Msg("Strategy generated")

	return report, nil
}

func (s *Service) logWarnings(warnings domain.Warnings, key, subject string) {
	for _, w := range warnings {
		s.log.Warn().
			Str(key, subject).
			Str("code", string(w.Code)).
			Float64("value", w.Value).
			Msg(w.Message)
	}
}

func validBudget(budget float64) bool {
	return !math.IsNaN(budget) && !math.IsInf(budget, 0) && budget > 0
}

// IsNotFound reports whether err means the requested box or item does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, catalog.ErrBoxNotFound) || errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrUnknownStrategy)
}
