package di

import (
	"fmt"

	"github.com/aristath/boxengine/internal/config"
	"github.com/aristath/boxengine/internal/modules/catalog"
	"github.com/aristath/boxengine/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the catalog jobs and schedules the ones with a non-empty
// schedule. Returns JobInstances for manual triggering via API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	container.Scheduler = scheduler.New(log)
	instances := &JobInstances{}

	reload := scheduler.NewCatalogReloadJob(container.CatalogStore, cfg.CatalogPath)
	reload.SetLogger(log)
	instances.CatalogReload = reload

	snapshot := scheduler.NewCatalogSnapshotJob(container.CatalogStore, catalog.WriteSnapshot, cfg.SnapshotPath)
	snapshot.SetLogger(log)
	instances.CatalogSnapshot = snapshot

	if cfg.CatalogReload != "" {
		if err := container.Scheduler.AddJob(cfg.CatalogReload, reload); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", reload.Name(), err)
		}
	}
	if cfg.SnapshotSchedule != "" && cfg.SnapshotPath != "" {
		if err := container.Scheduler.AddJob(cfg.SnapshotSchedule, snapshot); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", snapshot.Name(), err)
		}
	}

	log.Info().Int("jobs", container.Scheduler.Len()).Msg("Jobs registered")
	return instances, nil
}
