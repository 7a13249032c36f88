// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/boxengine/internal/modules/analysis"
	"github.com/aristath/boxengine/internal/modules/catalog"
	"github.com/aristath/boxengine/internal/modules/riskmodel"
	"github.com/aristath/boxengine/internal/modules/strategy"
	"github.com/aristath/boxengine/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire() and passed to the server for access to services.
type Container struct {
	RiskModel        riskmodel.Model
	CatalogStore     *catalog.Store
	StrategyRegistry *strategy.Registry
	AnalysisService  *analysis.Service
	Scheduler        *scheduler.Scheduler
}

// JobInstances holds job instances for manual triggering via API
type JobInstances struct {
	CatalogReload   *scheduler.CatalogReloadJob
	CatalogSnapshot *scheduler.CatalogSnapshotJob
}
