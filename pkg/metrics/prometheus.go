// Package metrics provides Prometheus metrics for the dugout analytics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	sessionsLogged    prometheus.Counter
	sessionsDuplicate prometheus.Counter
	sessionsRejected  *prometheus.CounterVec

	// Aggregation
	aggregationLatency *prometheus.HistogramVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Repository
	repositoryRecords      *prometheus.GaugeVec
	repositoryVersion      prometheus.Gauge
	repositoryWriteLatency prometheus.Histogram
	repositoryQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "dugout",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.sessionsLogged = m.counter("sessions_logged_total", "Sessions written to the store")
	m.sessionsDuplicate = m.counter("sessions_duplicate_total", "Session submissions dropped as duplicates")
	m.sessionsRejected = m.counterVec("sessions_rejected_total", "Session submissions rejected before logging", "reason")

	m.aggregationLatency = m.histogramVec("aggregation_latency_milliseconds", "Latency of aggregation queries", "operation")
	m.cacheHits = m.counterVec("cache_hits_total", "Aggregation results served from cache", "operation")
	m.cacheMisses = m.counterVec("cache_misses_total", "Aggregation results computed on demand", "operation")

	m.queueSize = m.gauge("queue_size", "Sessions waiting to be logged")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queued sessions")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Sessions accepted by the queue")
	m.queueDequeued = m.counter("queue_dequeued_total", "Sessions handed to workers")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Sessions the queue refused")

	m.workerCount = m.gauge("worker_count", "Configured ingestion workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently logging a session")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time spent logging one session")
	m.workerErrors = m.counter("worker_errors_total", "Sessions a worker failed to log")

	m.repositoryRecords = m.gaugeVec("repository_records", "Stored records by kind", "kind")
	m.repositoryVersion = m.gauge("repository_version", "Store write version")
	m.repositoryWriteLatency = m.histogram("repository_write_latency_milliseconds", "Store write latency")
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Store read latency")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

// RecordSessionLogged counts a session written to the store.
func RecordSessionLogged() { globalManager.sessionsLogged.Inc() }

// RecordSessionDuplicate counts a submission dropped by idempotency tracking.
func RecordSessionDuplicate() { globalManager.sessionsDuplicate.Inc() }

// RecordSessionRejected counts a submission refused for reason.
func RecordSessionRejected(reason string) {
	globalManager.sessionsRejected.WithLabelValues(reason).Inc()
}

// RecordAggregationLatency observes how long an aggregation took.
func RecordAggregationLatency(operation string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordCacheHit counts a memoized result.
func RecordCacheHit(operation string) { globalManager.cacheHits.WithLabelValues(operation).Inc() }

// RecordCacheMiss counts a recomputed result.
func RecordCacheMiss(operation string) { globalManager.cacheMisses.WithLabelValues(operation).Inc() }

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets size/capacity.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue counts an accepted enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a refused enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the number of configured workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }

// RecordWorkerProcessingLatency observes per-session processing time.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed session write.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateRepositoryRecords sets the stored count for kind.
func UpdateRepositoryRecords(kind string, count int) {
	globalManager.repositoryRecords.WithLabelValues(kind).Set(float64(count))
}

// UpdateRepositoryVersion sets the store write version.
func UpdateRepositoryVersion(version uint64) { globalManager.repositoryVersion.Set(float64(version)) }

// RecordRepositoryWriteLatency observes a store write.
func RecordRepositoryWriteLatency(latencyMs float64) {
	globalManager.repositoryWriteLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency observes a store read.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// GetRegistry returns the registry behind the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
