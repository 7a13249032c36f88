package scheduler

import (
	"fmt"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/rs/zerolog"
)

// CatalogLoader installs a catalog file into the in-memory store
type CatalogLoader interface {
	LoadFrom(path string) error
}

// CatalogSource provides the current catalog snapshot
type CatalogSource interface {
	All() []domain.Box
	Len() int
}

// SnapshotWriter persists a catalog snapshot
type SnapshotWriter func(path string, boxes []domain.Box) error

// CatalogReloadJob re-reads the catalog file and swaps the in-memory snapshot.
// A failed reload leaves the previous snapshot in place.
type CatalogReloadJob struct {
	log    zerolog.Logger
	loader CatalogLoader
	path   string
}

// NewCatalogReloadJob creates a new CatalogReloadJob
func NewCatalogReloadJob(loader CatalogLoader, path string) *CatalogReloadJob {
	return &CatalogReloadJob{
		log:    zerolog.Nop(),
		loader: loader,
		path:   path,
	}
}

// SetLogger sets the logger for the job
func (j *CatalogReloadJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *CatalogReloadJob) Name() string {
	return "catalog_reload"
}

// Run executes the reload
func (j *CatalogReloadJob) Run() error {
	if j.loader == nil {
		return fmt.Errorf("catalog loader not configured")
	}
	if err := j.loader.LoadFrom(j.path); err != nil {
		return fmt.Errorf("catalog reload from %s failed: %w", j.path, err)
	}
	j.log.Debug().Str("path", j.path).Msg("Catalog reloaded")
	return nil
}

// CatalogSnapshotJob writes the in-memory catalog to a msgpack snapshot so a restart
// can boot from the last good catalog
type CatalogSnapshotJob struct {
	log    zerolog.Logger
	source CatalogSource
	write  SnapshotWriter
	path   string
}

// NewCatalogSnapshotJob creates a new CatalogSnapshotJob
func NewCatalogSnapshotJob(source CatalogSource, write SnapshotWriter, path string) *CatalogSnapshotJob {
	return &CatalogSnapshotJob{
		log:    zerolog.Nop(),
		source: source,
		write:  write,
		path:   path,
	}
}

// SetLogger sets the logger for the job
func (j *CatalogSnapshotJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *CatalogSnapshotJob) Name() string {
	return "catalog_snapshot"
}

// Run writes the snapshot. An empty catalog is not written so a bad reload cannot
// wipe the last good snapshot.
func (j *CatalogSnapshotJob) Run() error {
	if j.source == nil || j.write == nil {
		return fmt.Errorf("catalog snapshot job not configured")
	}
	if j.source.Len() == 0 {
		j.log.Warn().Msg("Catalog is empty, skipping snapshot")
		return nil
	}

	boxes := j.source.All()
	if err := j.write(j.path, boxes); err != nil {
		return fmt.Errorf("catalog snapshot to %s failed: %w", j.path, err)
	}
	j.log.Info().Str("path", j.path).Int("boxes", len(boxes)).Msg("Catalog snapshot written")
	return nil
}
