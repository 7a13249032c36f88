package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/aristath/boxengine/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalogStatus struct {
	boxes    int
	loadedAt time.Time
}

func (m *mockCatalogStatus) Len() int                  { return m.boxes }
func (m *mockCatalogStatus) LoadedAt() time.Time       { return m.loadedAt }
func (m *mockCatalogStatus) Warnings() domain.Warnings { return nil }

type mockJob struct {
	name string
	err  error
	runs int
}

func (m *mockJob) Name() string { return m.name }
func (m *mockJob) Run() error {
	m.runs++
	return m.err
}

func newSystemRouter(h *SystemHandlers) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/system/status", h.HandleSystemStatus)
	r.Post("/api/system/jobs/{job}", h.HandleRunJob)
	return r
}

func TestSystemHandlers_HandleSystemStatus(t *testing.T) {
	tests := []struct {
		name           string
		catalog        *mockCatalogStatus
		expectedStatus string
	}{
		{"loaded catalog", &mockCatalogStatus{boxes: 3, loadedAt: time.Now()}, "healthy"},
		{"empty catalog", &mockCatalogStatus{}, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := map[string]scheduler.Job{"b_job": &mockJob{name: "b_job"}, "a_job": &mockJob{name: "a_job"}}
			h := NewSystemHandlers(zerolog.Nop(), tt.catalog, jobs, time.Now().Add(-time.Minute))

			rec := httptest.NewRecorder()
			newSystemRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var response SystemStatusResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedStatus, response.Status)
			assert.Equal(t, tt.catalog.boxes, response.CatalogBoxes)
			assert.Equal(t, []string{"a_job", "b_job"}, response.Jobs)
			assert.GreaterOrEqual(t, response.UptimeSeconds, int64(59))
			assert.Greater(t, response.Goroutines, 0)
		})
	}
}

func TestSystemHandlers_HandleRunJob(t *testing.T) {
	ok := &mockJob{name: "catalog_snapshot"}
	failing := &mockJob{name: "catalog_reload", err: errors.New("no file")}
	h := NewSystemHandlers(zerolog.Nop(), &mockCatalogStatus{}, map[string]scheduler.Job{
		ok.name:      ok,
		failing.name: failing,
	}, time.Now())
	router := newSystemRouter(h)

	tests := []struct {
		job    string
		status int
	}{
		{"catalog_snapshot", http.StatusOK},
		{"catalog_reload", http.StatusInternalServerError},
		{"unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/system/jobs/"+tt.job, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, 1, ok.runs)
	assert.Equal(t, 1, failing.runs)
}
