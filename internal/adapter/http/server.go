// Package http exposes the report API alongside health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SummarySource provides the current aggregated category summaries.
type SummarySource interface {
	Summaries() []report.CategorySummary
}

// Server exposes report, health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	summaries  SummarySource
	metrics    *observability.Metrics
	logger     *slog.Logger
	defaultTop int
}

// NewServer creates an HTTP server with report routes plus /healthz, /readyz,
// and /metrics. defaultTop bounds report listings when no ?top is given;
// pass 0 to default to full listings.
func NewServer(addr string, summaries SummarySource, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger, defaultTop int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		summaries:  summaries,
		metrics:    metrics,
		logger:     logger,
		defaultTop: defaultTop,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /reports/health", s.handleHealthView)
	mux.HandleFunc("GET /reports/financial", s.handleFinancialView)
	mux.HandleFunc("GET /reports/severity", s.handleSeverityView)

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

// handleHealthView serves categories ranked by human impact. ?top=N slices
// the listing; top=0 requests the full ordered listing for plotting.
func (s *Server) handleHealthView(w http.ResponseWriter, r *http.Request) {
	s.metrics.ReportRequests.WithLabelValues("health").Inc()
	view := report.HealthView(s.summaries.Summaries())
	view = report.TopN(view, s.topParam(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"view":       "health",
		"categories": view,
	})
}

// handleFinancialView serves categories ranked by economic impact.
func (s *Server) handleFinancialView(w http.ResponseWriter, r *http.Request) {
	s.metrics.ReportRequests.WithLabelValues("financial").Inc()
	view := report.FinancialView(s.summaries.Summaries())
	view = report.TopN(view, s.topParam(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"view":       "financial",
		"categories": view,
	})
}

// handleSeverityView serves the composite severity ranking. Always the full
// listing; the score already folds the views together.
func (s *Server) handleSeverityView(w http.ResponseWriter, _ *http.Request) {
	s.metrics.ReportRequests.WithLabelValues("severity").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"view":  "severity",
		"ranks": report.SeverityScores(s.summaries.Summaries()),
	})
}

// topParam resolves the ?top query parameter, falling back to the configured
// default. Malformed values fall back rather than erroring.
func (s *Server) topParam(r *http.Request) int {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return s.defaultTop
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return s.defaultTop
	}
	return n
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
