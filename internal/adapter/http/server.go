package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/correlation"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/store"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is the dataset and correlation API the server exposes.
// It is implemented by *pipeline.Pipeline.
type Service interface {
	sharedobs.ReadinessChecker

	RefreshWeather(ctx context.Context, city string) (domain.Series, error)
	RefreshFinancial(ctx context.Context) (domain.Series, error)
	RefreshHealth(ctx context.Context) (domain.Series, error)
	RefreshTech(ctx context.Context, category, company string) (domain.Series, error)
	RefreshAgriculture(ctx context.Context, crop, region string) (domain.Series, error)
	Correlate(dataset1, dataset2 string) (correlation.Result, error)

	Datasets() []store.Summary
	TechCompanies(category string) (map[string]string, bool)
	Crops() []string
	Regions(crop string) ([]string, bool)
}

// Server exposes the dataset API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, svc Service, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     withCORS(mux),
			ReadTimeout: 10 * time.Second,
			// A weather refresh makes one upstream call per history day.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/weather", s.handleWeather)
	mux.HandleFunc("GET /api/financial", s.handleFinancial)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/tech/companies/{category}", s.handleTechCompanies)
	mux.HandleFunc("GET /api/tech/data", s.handleTechData)
	mux.HandleFunc("GET /api/agriculture/crops", s.handleCrops)
	mux.HandleFunc("GET /api/agriculture/regions/{crop}", s.handleRegions)
	mux.HandleFunc("GET /api/agriculture/data", s.handleAgricultureData)
	mux.HandleFunc("POST /api/data/correlation", s.handleCorrelation)
	mux.HandleFunc("GET /api/datasets", s.handleDatasets)

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

// withCORS allows any origin, as the bundled dashboard may be served from
// a different host than the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
