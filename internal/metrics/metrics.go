// Package metrics provides Prometheus metrics for the document integrity
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Ingestion metrics
	IngestsTotal     *prometheus.CounterVec
	DuplicatesTotal  *prometheus.CounterVec
	ExtractionErrors prometheus.Counter

	// Analysis metrics
	AnalysisRunsTotal   *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	TamperingFlagsTotal prometheus.Gauge
	PatternsTotal       prometheus.Gauge
	RiskScore           prometheus.Gauge
	CorpusDocuments     prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	m := &Metrics{}

	// HTTP request metrics
	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintegrity_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docintegrity_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingestion metrics
	m.IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintegrity_ingests_total",
			Help: "Total number of ingested files",
		},
		[]string{"status"},
	)

	m.DuplicatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintegrity_duplicates_total",
			Help: "Total number of uploads rejected as duplicates",
		},
		[]string{"match_type"},
	)

	m.ExtractionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docintegrity_extraction_errors_total",
			Help: "Total number of uploads whose text extraction failed",
		},
	)

	// Analysis metrics
	m.AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docintegrity_analysis_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	m.AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docintegrity_analysis_duration_seconds",
			Help:    "Duration of full analysis runs in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	m.TamperingFlagsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docintegrity_tampering_flags",
			Help: "Tampering flags reported by the most recent analysis run",
		},
	)

	m.PatternsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docintegrity_systematic_patterns",
			Help: "Systematic patterns reported by the most recent analysis run",
		},
	)

	m.RiskScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docintegrity_risk_score",
			Help: "Composite risk score of the most recent analysis run",
		},
	)

	m.CorpusDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docintegrity_corpus_documents",
			Help: "Documents in the corpus at the most recent analysis run",
		},
	)

	return m
}

// RecordHTTPRequest records an HTTP request with its status
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis records the outcome of an analysis run
func (m *Metrics) RecordAnalysis(documentCount, flagCount, patternCount int, riskScore float64, duration time.Duration) {
	m.AnalysisRunsTotal.WithLabelValues("ok").Inc()
	m.AnalysisDuration.Observe(duration.Seconds())
	m.CorpusDocuments.Set(float64(documentCount))
	m.TamperingFlagsTotal.Set(float64(flagCount))
	m.PatternsTotal.Set(float64(patternCount))
	m.RiskScore.Set(riskScore)
}
