package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/scheduler"
)

// CatalogStatus is the read side of the catalog needed for status reporting
type CatalogStatus interface {
	Len() int
	LoadedAt() time.Time
	Warnings() domain.Warnings
}

// SystemStatusResponse is returned by GET /api/system/status
type SystemStatusResponse struct {
	Status          string          `json:"status"`
	UptimeSeconds   int64           `json:"uptime_seconds"`
	CPUPercent      float64         `json:"cpu_percent"`
	MemoryPercent   float64         `json:"memory_percent"`
	Goroutines      int             `json:"goroutines"`
	CatalogBoxes    int             `json:"catalog_boxes"`
	CatalogLoadedAt *time.Time      `json:"catalog_loaded_at,omitempty"`
	CatalogWarnings domain.Warnings `json:"catalog_warnings,omitempty"`
	Jobs            []string        `json:"jobs"`
}

// SystemHandlers handles system-wide monitoring and job trigger endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	catalog   CatalogStatus
	jobs      map[string]scheduler.Job
	startedAt time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, catalog CatalogStatus, jobs map[string]scheduler.Job, startedAt time.Time) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		catalog:   catalog,
		jobs:      jobs,
		startedAt: startedAt,
	}
}

// HandleSystemStatus returns host and catalog status
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		Jobs:          h.jobNames(),
	}

	if h.catalog != nil {
		response.CatalogBoxes = h.catalog.Len()
		response.CatalogWarnings = h.catalog.Warnings()
		if loadedAt := h.catalog.LoadedAt(); !loadedAt.IsZero() {
			response.CatalogLoadedAt = &loadedAt
		}
	}
	if response.CatalogBoxes == 0 {
		response.Status = "degraded"
	}

	h.writeJSONStatus(w, http.StatusOK, response)
}

// HandleRunJob runs a registered job immediately
// POST /api/system/jobs/{job}
func (h *SystemHandlers) HandleRunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "job")
	job, ok := h.jobs[name]
	if !ok {
		h.writeJSONStatus(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "unknown job: " + name,
		})
		return
	}

	start := time.Now()
	if err := job.Run(); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		h.writeJSONStatus(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.log.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("Manual job run completed")
	h.writeJSON(w, map[string]interface{}{
		"status":      "success",
		"job":         name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func (h *SystemHandlers) jobNames() []string {
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the status call does not block for long
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *SystemHandlers) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
