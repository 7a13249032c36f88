// Package di provides dependency injection wiring and initialization.
package di

import (
	"fmt"

	"github.com/aristath/boxengine/internal/config"
	"github.com/rs/zerolog"
)

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Load the catalog
// 2. Initialize services
// 3. Register jobs
func Wire(cfg *config.Config, log zerolog.Logger) (*Container, *JobInstances, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config cannot be nil")
	}

	// Step 1: Load the catalog
	container := &Container{
		CatalogStore: InitializeCatalog(cfg, log),
	}

	// Step 2: Initialize services
	if err := InitializeServices(container, cfg, log); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Step 3: Register jobs
	jobs, err := RegisterJobs(container, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, jobs, nil
}
