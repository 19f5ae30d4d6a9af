// Package httpapi exposes the reconciled closings data plus health,
// readiness, and metrics endpoints. Routing stays thin: classification,
// matching, and freshness policy all live behind the two provider interfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adukes40/de-school-closings/internal/domain"
)

// ClosuresProvider returns the current reconciliation result, refreshing it
// when stale. A non-nil error alongside a non-zero result means the result
// is stale but still within its serving bound.
type ClosuresProvider interface {
	GetOrRefresh(ctx context.Context) (domain.ReconciliationResult, error)
}

// CatalogProvider supplies the process-lifetime catalog data.
type CatalogProvider interface {
	Catalogs(ctx context.Context) (domain.Catalogs, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the closings API over HTTP.
type Server struct {
	httpServer *http.Server
	closures   ClosuresProvider
	catalogs   CatalogProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API, health, readiness, and
// metrics routes.
func NewServer(addr string, closures ClosuresProvider, catalogs CatalogProvider, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		closures: closures,
		catalogs: catalogs,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/closures", s.handleClosures)
	mux.HandleFunc("GET /api/districts", s.handleCatalog(domain.CatalogDistricts))
	mux.HandleFunc("GET /api/votech", s.handleCatalog(domain.CatalogVotech))
	mux.HandleFunc("GET /api/charters", s.handleCatalog(domain.CatalogCharters))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleClosures serves the full reconciliation bundle. A stale result is
// still served with an X-Stale marker; only a failure with nothing cached
// becomes an error response.
func (s *Server) handleClosures(w http.ResponseWriter, r *http.Request) {
	result, err := s.closures.GetOrRefresh(r.Context())
	if err != nil {
		if result.FetchedAt.IsZero() {
			s.logger.Error("closures unavailable", "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream closings data unavailable"})
			return
		}
		w.Header().Set("X-Stale", "true")
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCatalog(catalog domain.CatalogType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := s.catalogs.Catalogs(r.Context())
		if err != nil {
			s.logger.Error("catalog unavailable", "catalog", catalog, "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "catalog data unavailable"})
			return
		}

		var entities []domain.GeoEntity
		switch catalog {
		case domain.CatalogDistricts:
			entities = cats.Districts
		case domain.CatalogVotech:
			entities = cats.Votech
		case domain.CatalogCharters:
			entities = cats.Charters
		}
		if entities == nil {
			entities = []domain.GeoEntity{}
		}
		writeJSON(w, http.StatusOK, map[string][]domain.GeoEntity{string(catalog): entities})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
