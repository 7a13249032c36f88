package strategy

import (
	"fmt"
	"sync"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/rs/zerolog"
)

// Result pairs a generator name with its strategy. Strategy is nil when the generator
// found nothing viable.
type Result struct {
	Generator string                    `json:"generator" msgpack:"generator"`
	Strategy  *domain.PortfolioStrategy `json:"strategy" msgpack:"strategy"`
}

// Registry manages all registered strategy generators
type Registry struct {
	generators map[string]Generator
	order      []string
	mu         sync.RWMutex
	log        zerolog.Logger
}

// NewRegistry creates an empty generator registry
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		log:        log.With().Str("component", "strategy_registry").Logger(),
	}
}

// Register registers a generator. Re-registering a name replaces the generator but
// keeps its original position.
func (r *Registry) Register(generator Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := generator.Name()
	if _, exists := r.generators[name]; !exists {
		r.order = append(r.order, name)
	}
	r.generators[name] = generator
	r.log.Debug().
		Str("name", name).
		Str("risk_level", string(generator.RiskLevel())).
		Msg("Registered generator")
}

// Get retrieves a generator by name
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	generator, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	return generator, nil
}

// List returns all registered generators in registration order
func (r *Registry) List() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	generators := make([]Generator, 0, len(r.order))
	for _, name := range r.order {
		generators = append(generators, r.generators[name])
	}
	return generators
}

// GenerateAll runs every generator against the same catalog and budget
func (r *Registry) GenerateAll(catalog []domain.Box, budget float64) []Result {
	generators := r.List()
	results := make([]Result, 0, len(generators))

	viable := 0
	for _, generator := range generators {
		strategy := generator.Generate(catalog, budget)
		if strategy != nil {
			viable++
		}
		results = append(results, Result{Generator: generator.Name(), Strategy: strategy})
	}

	r.log.Debug().
		Int("generators", len(generators)).
		Int("viable", viable).
		Int("catalog_size", len(catalog)).
		Float64("budget", budget).
		Msg("Strategy generation complete")

	return results
}

// NewDefaultRegistry creates a registry with the grinder, value hunter and jackpot
// chaser generators registered
func NewDefaultRegistry(model riskmodel.Model, log zerolog.Logger) *Registry {
	registry := NewRegistry(log)

	registry.Register(NewGrinderGenerator(model, log))
	registry.Register(NewValueHunterGenerator(model, log))
	registry.Register(NewJackpotChaserGenerator(model, log))

	log.Info().
		Int("generators", len(registry.order)).
		Msg("Strategy registry initialized")

	return registry
}
