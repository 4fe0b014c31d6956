package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets in milliseconds; OCR calls take hundreds of them.
var latencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Manager owns every metric of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Tickets
	ticketsProcessed *prometheus.CounterVec
	ticketRejections *prometheus.CounterVec
	prizeTiers       *prometheus.CounterVec
	duplicateUploads prometheus.Counter
	pipelineLatency  prometheus.Histogram

	// OCR
	ocrLatency prometheus.Histogram
	ocrErrors  prometheus.Counter

	// History queue and store
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	historyWrites      prometheus.Counter
	historyWriteErrors prometheus.Counter
	historyRecords     prometheus.Gauge

	// Workers
	workerActiveCount       prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton manager behind the Record* helpers

// customRegistry keeps the Go runtime collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates and registers a full metric set.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ticketscan",
		subsystem:        "checker",
		histogramBuckets: latencyBuckets,
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.ticketsProcessed = m.counterVec("tickets_processed_total", "Tickets that passed validation, by game", "game")
	m.ticketRejections = m.counterVec("ticket_rejections_total", "Tickets rejected by the pipeline, by reason", "reason")
	m.prizeTiers = m.counterVec("prize_tiers_total", "Prize verdicts by game and tier", "game", "tier")
	m.duplicateUploads = m.counter("duplicate_uploads_total", "Uploads whose image was already recorded")
	m.pipelineLatency = m.histogram("pipeline_latency_milliseconds", "Time spent in the parsing pipeline")

	m.ocrLatency = m.histogram("ocr_latency_milliseconds", "Time spent extracting text from an image")
	m.ocrErrors = m.counter("ocr_errors_total", "OCR engine failures")

	m.queueSize = m.gauge("history_queue_size", "History records waiting to be written")
	m.queueCapacity = m.gauge("history_queue_capacity", "Capacity of the history queue")
	m.queueEnqueued = m.counter("history_queue_enqueued_total", "History records accepted by the queue")
	m.queueEnqueueErrors = m.counter("history_queue_enqueue_errors_total", "History records dropped because the queue was full or closed")
	m.historyWrites = m.counter("history_writes_total", "History records written to the store")
	m.historyWriteErrors = m.counter("history_write_errors_total", "Failed history writes")
	m.historyRecords = m.gauge("history_records", "Records currently held by the history store")

	m.workerActiveCount = m.gauge("worker_active_count", "History workers running")
	m.workerMessagesPerSecond = m.gauge("worker_messages_per_second", "History records written per second")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time to write one history record")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Running goroutines")
}

// RecordTicketProcessed counts a validated ticket.
func RecordTicketProcessed(game string) {
	globalManager.ticketsProcessed.WithLabelValues(game).Inc()
}

// RecordTicketRejected counts a pipeline rejection.
func RecordTicketRejected(reason string) {
	globalManager.ticketRejections.WithLabelValues(reason).Inc()
}

// RecordPrize counts a prize verdict, including NONE.
func RecordPrize(game, tier string) {
	globalManager.prizeTiers.WithLabelValues(game, tier).Inc()
}

// RecordDuplicateUpload counts an image seen before.
func RecordDuplicateUpload() {
	globalManager.duplicateUploads.Inc()
}

// RecordPipelineLatency records time spent in the pipeline.
func RecordPipelineLatency(latencyMs float64) {
	globalManager.pipelineLatency.Observe(latencyMs)
}

// RecordOCRLatency records one OCR call.
func RecordOCRLatency(latencyMs float64) {
	globalManager.ocrLatency.Observe(latencyMs)
}

// RecordOCRError counts an OCR failure.
func RecordOCRError() {
	globalManager.ocrErrors.Inc()
}

// UpdateQueueSize sets the current history queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the history queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted history record.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueEnqueueError counts a dropped history record.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordHistoryWrite counts a stored history record.
func RecordHistoryWrite() {
	globalManager.historyWrites.Inc()
}

// RecordHistoryWriteError counts a failed history write.
func RecordHistoryWriteError() {
	globalManager.historyWriteErrors.Inc()
}

// UpdateHistoryRecords sets the number of stored records.
func UpdateHistoryRecords(count int) {
	globalManager.historyRecords.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the recent write rate.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records one history write.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error raised inside a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint counts an error returned by an HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry the global metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
