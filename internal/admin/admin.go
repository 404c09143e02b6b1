// Package admin serves liveness, readiness and pprof endpoints on a
// separate listener from the public API.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/francisco-sereno/synapsis-bolt-sub001/internal"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// Config holds admin server configuration
type Config struct {
	Port string
	// Checks run on /readyz, keyed by dependency name
	Checks map[string]ReadinessCheck
	// CheckTimeout bounds each readiness check
	CheckTimeout time.Duration
}

// App represents the admin application
type App struct {
	router *chi.Mux
	config Config
	logger *internal.Logger
	server *http.Server
	start  time.Time
}

// NewApp creates the admin application
func NewApp(config Config, logger *internal.Logger) *App {
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = 2 * time.Second
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	a := &App{
		router: chi.NewRouter(),
		config: config,
		logger: logger.With("Admin"),
		start:  time.Now(),
	}
	a.setupMiddleware()
	a.setupRoutes()
	a.server = &http.Server{
		Addr:              ":" + config.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a
}

// Handler returns the admin HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the admin routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealthz)
	a.router.Get("/readyz", a.handleReadyz)
	a.router.Mount("/debug", middleware.Profiler())
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(a.start).Seconds()),
	})
}

func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	results := make(map[string]string, len(a.config.Checks))
	status := http.StatusOK

	for name, check := range a.config.Checks {
		ctx, cancel := context.WithTimeout(r.Context(), a.config.CheckTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			a.logger.Warn("readiness check %s failed: %v", name, err)
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	ready := "ready"
	if status != http.StatusOK {
		ready = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": ready,
		"checks": results,
	})
}

// Start listens on the configured port until Shutdown is called
func (a *App) Start() error {
	a.logger.Info("admin listening on :%s", a.config.Port)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the admin server
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
