package di

import (
	"fmt"

	"github.com/aristath/boxengine/internal/config"
	"github.com/aristath/boxengine/internal/modules/analysis"
	"github.com/aristath/boxengine/internal/modules/catalog"
	"github.com/aristath/boxengine/internal/modules/strategy"
	"github.com/rs/zerolog"
)

// InitializeCatalog creates the catalog store and performs the initial load.
// The configured catalog is tried first, then the last snapshot. If neither loads the
// store starts empty and the reload job can fill it later.
func InitializeCatalog(cfg *config.Config, log zerolog.Logger) *catalog.Store {
	store := catalog.NewStore(log)

	if err := store.LoadFrom(cfg.CatalogPath); err == nil {
		return store
	}

	if cfg.SnapshotPath != "" && cfg.SnapshotPath != cfg.CatalogPath {
		if err := store.LoadFrom(cfg.SnapshotPath); err == nil {
			log.Warn().
				Str("snapshot", cfg.SnapshotPath).
				Msg("Catalog unavailable, started from last snapshot")
			return store
		}
	}

	log.Warn().
		Str("catalog", cfg.CatalogPath).
		Msg("No catalog could be loaded, starting with an empty catalog")
	return store
}

// InitializeServices creates the engine services on top of the catalog store
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.CatalogStore == nil {
		return fmt.Errorf("container catalog store cannot be nil")
	}

	model, err := cfg.RiskModel()
	if err != nil {
		return err
	}
	container.RiskModel = model

	container.StrategyRegistry = strategy.NewDefaultRegistry(model, log)
	container.AnalysisService = analysis.NewService(container.CatalogStore, model, container.StrategyRegistry, log)

	log.Info().
		Float64("jackpot_multiple", model.JackpotMultiple).
		Msg("Engine services initialized")

	return nil
}
