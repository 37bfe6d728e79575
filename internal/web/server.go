// Package web provides the HTTP server and handlers for the SIRUTA registry.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/siruta/internal/config"
	"github.com/JonMunkholm/siruta/internal/core"
	"github.com/JonMunkholm/siruta/internal/metrics"
	"github.com/JonMunkholm/siruta/internal/web/middleware"
)

// Server is the HTTP server of the registry.
type Server struct {
	store   *core.Store
	cfg     *config.Config
	metrics *metrics.Metrics
	reloads core.Inflight

	diacritics core.DiacriticConfig

	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server answering queries from store.
// m may be nil, in which case /metrics is not mounted.
func NewServer(store *core.Store, cfg *config.Config, m *metrics.Metrics) *Server {
	s := &Server{
		store:      store,
		cfg:        cfg,
		metrics:    m,
		diacritics: cfg.Registry.DiacriticConfig(),
		router:     chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(s.securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/counties", s.handleCountiesPage)

	// Operations
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		// Code-based lookups
		r.Get("/entities", s.handleListEntities)
		r.Get("/entities/{code}", s.handleEntity)
		r.Get("/entities/{code}/parent", s.handleParent)
		r.Get("/entities/{code}/children", s.handleChildren)
		r.Get("/counties", s.handleCounties)
		r.Get("/validate/{code}", s.handleValidate)

		// Name-based lookups are not supported
		r.Get("/lookup", s.handleLookup)

		// Registry metadata and reload
		r.Get("/registry", s.handleRegistry)
		r.With(middleware.APIKeyAuth(s.cfg.Security.ReloadAPIKeys)).
			Post("/registry/reload", s.handleReload)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, then waits for reloads started over
// HTTP to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if n := s.reloads.Active(); n > 0 {
		slog.Info("waiting for reloads to complete", "active", n)
		return s.reloads.WaitForDrain(ctx)
	}
	return nil
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
