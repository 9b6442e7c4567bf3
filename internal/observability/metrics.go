package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// impact-report pipeline.
type Metrics struct {
	RowsConsumed       prometheus.Counter
	RowsCleaned        prometheus.Counter
	RowsUnclassifiable prometheus.Counter
	RowsPublished      prometheus.Counter
	ParseErrors        prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Report serving metrics.
	ReportRequests *prometheus.CounterVec // labels: view={health,financial,severity}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "rows_consumed_total",
			Help:      "Total raw rows read from the source.",
		}),
		RowsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "rows_cleaned_total",
			Help:      "Total rows transformed and folded into the accumulator.",
		}),
		RowsUnclassifiable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "rows_unclassifiable_total",
			Help:      "Total rows whose event type normalized to Unclassifiable.",
		}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "rows_published_total",
			Help:      "Total cleaned rows published to the sink topic.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "parse_errors_total",
			Help:      "Total source messages that failed JSON deserialization.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_impact",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_impact",
			Name:      "batch_size",
			Help:      "Number of rows per batch extracted from the source.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_impact",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-clean-accumulate cycle.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ReportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "report_requests_total",
			Help:      "Report API requests by view.",
		}, []string{"view"}),
	}

	prometheus.MustRegister(
		m.RowsConsumed,
		m.RowsCleaned,
		m.RowsUnclassifiable,
		m.RowsPublished,
		m.ParseErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ReportRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsConsumed:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "rows_consumed_total"}),
		RowsCleaned:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "rows_cleaned_total"}),
		RowsUnclassifiable:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "rows_unclassifiable_total"}),
		RowsPublished:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "rows_published_total"}),
		ParseErrors:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "parse_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_impact", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_impact", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_impact", Name: "batch_processing_duration_seconds"}),
		ReportRequests:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_impact", Name: "report_requests_total"}, []string{"view"}),
	}
}
