// Package metrics provides Prometheus metrics for the scout service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ranking
	sortRequests       *prometheus.CounterVec
	invalidSortOptions prometheus.Counter
	sortOptionsTotal   prometheus.Gauge

	// Similarity
	similarityRequests *prometheus.CounterVec
	similarityLatency  *prometheus.HistogramVec
	candidatePoolSize  *prometheus.HistogramVec
	strategyFailures   *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec

	// Store
	storeQueryLatency *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	recordsTotal      prometheus.Gauge

	// Ingestion
	ingestedRows    prometheus.Counter
	ingestRowErrors prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scout",
		subsystem:        "players",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.sortRequests = auto.NewCounterVec(m.counterOpts("sort_requests_total", "Orderings served by sort key"), []string{"key", "direction"})
	m.invalidSortOptions = auto.NewCounter(m.counterOpts("invalid_sort_options_total", "Requests rejected for an unknown sort key"))
	m.sortOptionsTotal = auto.NewGauge(m.gaugeOpts("sort_options", "Number of registered sort options"))

	m.similarityRequests = auto.NewCounterVec(m.counterOpts("similarity_requests_total", "Similarity queries by strategy and outcome"), []string{"strategy", "outcome"})
	m.similarityLatency = auto.NewHistogramVec(m.histogramOpts("similarity_latency_milliseconds", "Similarity query latency in milliseconds", m.histogramBuckets), []string{"strategy"})
	m.candidatePoolSize = auto.NewHistogramVec(m.histogramOpts("similarity_candidate_pool_size", "Candidates scored per strategy run",
		[]float64{0, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}), []string{"strategy"})
	m.strategyFailures = auto.NewCounterVec(m.counterOpts("similarity_strategy_failures_total", "Strategy faults absorbed by the fallback path"), []string{"strategy"})
	m.fallbacks = auto.NewCounterVec(m.counterOpts("similarity_fallbacks_total", "Fallback rankings served"), []string{"strategy", "outcome"})

	m.storeQueryLatency = auto.NewHistogramVec(m.histogramOpts("store_query_latency_milliseconds", "Record store query latency in milliseconds", m.histogramBuckets), []string{"backend", "operation"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Record store failures"), []string{"backend", "operation"})
	m.recordsTotal = auto.NewGauge(m.gaugeOpts("records", "Player records held by the store"))

	m.ingestedRows = auto.NewCounter(m.counterOpts("ingested_rows_total", "Rows ingested into the store"))
	m.ingestRowErrors = auto.NewCounter(m.counterOpts("ingest_row_errors_total", "Rows rejected during ingestion"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordSortRequest counts an ordering by key and direction ("asc"/"desc").
func RecordSortRequest(key, direction string) {
	globalManager.sortRequests.WithLabelValues(key, direction).Inc()
}

// RecordInvalidSortOption counts a request rejected for an unknown key.
func RecordInvalidSortOption() {
	globalManager.invalidSortOptions.Inc()
}

// UpdateSortOptions sets the number of registered sort options.
func UpdateSortOptions(count int) {
	globalManager.sortOptionsTotal.Set(float64(count))
}

// RecordSimilarityRequest counts a similarity query by strategy and outcome
// ("ok", "fallback", "error").
func RecordSimilarityRequest(strategy, outcome string) {
	globalManager.similarityRequests.WithLabelValues(strategy, outcome).Inc()
}

// RecordSimilarityLatency records similarity query latency in milliseconds.
func RecordSimilarityLatency(strategy string, latencyMs float64) {
	globalManager.similarityLatency.WithLabelValues(strategy).Observe(latencyMs)
}

// RecordCandidatePoolSize records how many candidates a strategy scored.
func RecordCandidatePoolSize(strategy string, size int) {
	globalManager.candidatePoolSize.WithLabelValues(strategy).Observe(float64(size))
}

// RecordStrategyFailure counts a strategy fault.
func RecordStrategyFailure(strategy string) {
	globalManager.strategyFailures.WithLabelValues(strategy).Inc()
}

// RecordFallback counts a fallback ranking by originating strategy and
// outcome ("ok", "error").
func RecordFallback(strategy, outcome string) {
	globalManager.fallbacks.WithLabelValues(strategy, outcome).Inc()
}

// RecordStoreQueryLatency records a store operation latency in milliseconds.
func RecordStoreQueryLatency(backend, operation string, latencyMs float64) {
	globalManager.storeQueryLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(backend, operation string) {
	globalManager.storeErrors.WithLabelValues(backend, operation).Inc()
}

// UpdateRecordsTotal sets the number of records held by the store.
func UpdateRecordsTotal(count int) {
	globalManager.recordsTotal.Set(float64(count))
}

// RecordIngestedRows adds n successfully ingested rows.
func RecordIngestedRows(n int) {
	globalManager.ingestedRows.Add(float64(n))
}

// RecordIngestRowErrors adds n rejected rows.
func RecordIngestRowErrors(n int) {
	globalManager.ingestRowErrors.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
