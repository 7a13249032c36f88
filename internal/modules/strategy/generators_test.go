package strategy

import (
	"testing"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	testingpkg "github.com/aristath/boxengine/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxNames(s *domain.PortfolioStrategy) []string {
	names := make([]string, 0, len(s.Boxes))
	for _, a := range s.Boxes {
		names = append(names, a.Box.BoxName)
	}
	return names
}

func allGenerators() []Generator {
	model := riskmodel.Default()
	log := zerolog.Nop()
	return []Generator{
		NewGrinderGenerator(model, log),
		NewValueHunterGenerator(model, log),
		NewJackpotChaserGenerator(model, log),
	}
}

func TestGrinderGenerator_Generate(t *testing.T) {
	gen := NewGrinderGenerator(riskmodel.Default(), zerolog.Nop())

	strategy := gen.Generate(testingpkg.NewCatalogFixture(), 100)
	require.NotNil(t, strategy)

	assert.Equal(t, "The Grinder", strategy.Name)
	assert.Equal(t, domain.RiskLow, strategy.RiskLevel)
	assert.Equal(t, []string{"Steady Box"}, boxNames(strategy))
	assert.Equal(t, 5, strategy.Boxes[0].Quantity)
	assert.Equal(t, 50.0, strategy.TotalCost)

	assert.Equal(t, "Portfolio Floor Value", strategy.KeyMetric.Label)
	assert.InDelta(t, 20.0, strategy.KeyMetric.Value, 1e-9)
	assert.NotEmpty(t, strategy.Pros)
	assert.NotEmpty(t, strategy.Cons)
	assert.NotEmpty(t, strategy.WorstCaseScenario)
}

func TestGrinderGenerator_PrefersLowerVolatilityOnEqualFloor(t *testing.T) {
	calm := testingpkg.NewSteadyBoxFixture()
	calm.BoxName = "Calm"
	calm.StandardDeviationPercent = 20

	wild := testingpkg.NewSteadyBoxFixture()
	wild.BoxName = "Wild"
	wild.StandardDeviationPercent = 250

	gen := NewGrinderGenerator(riskmodel.Default(), zerolog.Nop())
	strategy := gen.Generate([]domain.Box{wild, calm}, 1000)
	require.NotNil(t, strategy)
	assert.Equal(t, []string{"Calm", "Wild"}, boxNames(strategy))
}

func TestValueHunterGenerator_Generate(t *testing.T) {
	gen := NewValueHunterGenerator(riskmodel.Default(), zerolog.Nop())

	strategy := gen.Generate(testingpkg.NewCatalogFixture(), 300)
	require.NotNil(t, strategy)

	assert.Equal(t, domain.RiskMedium, strategy.RiskLevel)
	assert.Equal(t, []string{"Value Box", "Steady Box"}, boxNames(strategy))
	assert.Equal(t, 8, strategy.Boxes[0].Quantity)
	assert.Equal(t, 8, strategy.Boxes[1].Quantity)
	assert.Equal(t, 280.0, strategy.TotalCost)

	assert.Equal(t, "Total Expected Value", strategy.KeyMetric.Label)
	// 200 * 1.01 + 80 * 0.86
	assert.InDelta(t, 270.8, strategy.KeyMetric.Value, 1e-9)
}

func TestJackpotChaserGenerator_Generate(t *testing.T) {
	gen := NewJackpotChaserGenerator(riskmodel.Default(), zerolog.Nop())

	strategy := gen.Generate(testingpkg.NewCatalogFixture(), 500)
	require.NotNil(t, strategy)

	assert.Equal(t, domain.RiskVeryHigh, strategy.RiskLevel)
	assert.Equal(t, []string{"Value Box", "Jackpot Box"}, boxNames(strategy))
	assert.Equal(t, 15, strategy.Boxes[0].Quantity)
	assert.Equal(t, 1, strategy.Boxes[1].Quantity)
	assert.Equal(t, 475.0, strategy.TotalCost)

	assert.Equal(t, "Top Jackpot", strategy.KeyMetric.Label)
	assert.Equal(t, 5000.0, strategy.KeyMetric.Value)
}

func TestJackpotChaserGenerator_RespectsJackpotMultiple(t *testing.T) {
	model := riskmodel.Default()
	model.JackpotMultiple = 20 // only the Diamond Watch qualifies

	strategy := NewJackpotChaserGenerator(model, zerolog.Nop()).Generate(testingpkg.NewCatalogFixture(), 500)
	require.NotNil(t, strategy)
	assert.Equal(t, []string{"Jackpot Box"}, boxNames(strategy))
}

func TestGenerators_NoViableStrategy(t *testing.T) {
	for _, gen := range allGenerators() {
		t.Run(gen.Name(), func(t *testing.T) {
			assert.Nil(t, gen.Generate(nil, 1000), "empty catalog")
			assert.Nil(t, gen.Generate(testingpkg.NewCatalogFixture(), 1), "budget below every eligible price")
			assert.Nil(t, gen.Generate(testingpkg.NewCatalogFixture(), 0), "zero budget")
			assert.Nil(t, gen.Generate([]domain.Box{testingpkg.NewBudgetBoxFixture()}, 1000), "no eligible box")
		})
	}
}

func TestGenerators_BudgetAndCapInvariants(t *testing.T) {
	model := riskmodel.Default()
	caps := map[string]int{
		"grinder":        model.Grinder.MaxQuantityPerBox,
		"value_hunter":   model.ValueHunter.MaxQuantityPerBox,
		"jackpot_chaser": model.JackpotChase.MaxQuantityPerBox,
	}
	catalog := testingpkg.NewCatalogFixture()

	for _, gen := range allGenerators() {
		for _, budget := range []float64{10, 37.5, 99, 250, 1234.56, 100000} {
			strategy := gen.Generate(catalog, budget)
			if strategy == nil {
				continue
			}
			assert.Equal(t, gen.RiskLevel(), strategy.RiskLevel)
			assert.LessOrEqual(t, strategy.TotalCost, budget, "%s at %v", gen.Name(), budget)

			sum := 0.0
			for _, a := range strategy.Boxes {
				assert.GreaterOrEqual(t, a.Quantity, 1)
				assert.LessOrEqual(t, a.Quantity, caps[gen.Name()])
				sum += a.Cost
			}
			assert.InDelta(t, strategy.TotalCost, sum, 1e-9)
		}
	}
}

func TestGenerators_DoNotMutateCatalog(t *testing.T) {
	catalog := testingpkg.NewCatalogFixture()
	before := make([]string, len(catalog))
	for i, b := range catalog {
		before[i] = b.BoxName
	}

	for _, gen := range allGenerators() {
		strategy := gen.Generate(catalog, 1000)
		require.NotNil(t, strategy)
		strategy.Boxes[0].Box.AllItems[0].Value = -1
	}

	for i, b := range catalog {
		assert.Equal(t, before[i], b.BoxName)
		for _, item := range b.AllItems {
			assert.GreaterOrEqual(t, item.Value, 0.0)
		}
	}
}
