// Package server provides the HTTP server and routing for the box economics engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/boxengine/internal/config"
	"github.com/aristath/boxengine/internal/di"
	analysishandlers "github.com/aristath/boxengine/internal/modules/analysis/handlers"
	"github.com/aristath/boxengine/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	jobs           *di.JobInstances
	systemHandlers *SystemHandlers
	startedAt      time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: cfg.Container,
		jobs:      cfg.Jobs,
		startedAt: time.Now(),
	}
	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Container.CatalogStore, s.manualJobs(), s.startedAt)

	s.setupMiddleware(cfg.Config)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Config.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(cfg *config.Config) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Per-client token bucket
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, s.log)
	s.router.Use(limiter.Middleware)

	// Timeout
	s.router.Use(middleware.Timeout(cfg.RequestTimeout))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Compress responses
	if !cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		var reload analysishandlers.Reloader
		if s.jobs != nil && s.jobs.CatalogReload != nil {
			reload = s.jobs.CatalogReload.Run
		}
		analysisHandler := analysishandlers.NewHandler(s.container.AnalysisService, reload, s.log)
		analysisHandler.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Post("/jobs/{job}", s.systemHandlers.HandleRunJob)
		})
	})
}

func (s *Server) manualJobs() map[string]scheduler.Job {
	jobs := make(map[string]scheduler.Job)
	if s.jobs == nil {
		return jobs
	}
	if s.jobs.CatalogReload != nil {
		jobs[s.jobs.CatalogReload.Name()] = s.jobs.CatalogReload
	}
	if s.jobs.CatalogSnapshot != nil {
		jobs[s.jobs.CatalogSnapshot.Name()] = s.jobs.CatalogSnapshot
	}
	return jobs
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
