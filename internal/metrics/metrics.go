// Package metrics provides Prometheus metrics for the worker pool and the
// search engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "burrow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Pool metrics
	poolJobsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_pool_jobs_submitted_total",
			Help: "Total number of jobs submitted to a pool worker",
		},
		[]string{"worker"},
	)

	poolJobsExecuted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_pool_jobs_executed_total",
			Help: "Total number of pool jobs executed",
		},
	)

	poolJobFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_pool_job_failures_total",
			Help: "Total number of pool jobs that returned an error or panicked",
		},
	)

	poolQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "burrow_pool_queue_depth",
			Help: "Jobs waiting in a pool worker's queue",
		},
		[]string{"worker"},
	)

	// Search metrics
	searchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "burrow_search_duration_seconds",
			Help:    "Time to complete a search, by strategy",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	searchRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_search_records_total",
			Help: "Total number of records returned, by strategy",
		},
		[]string{"strategy"},
	)

	enumerationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_enumeration_errors_total",
			Help: "Total number of directories that could not be listed",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordJobSubmitted records a job queued on worker id.
func RecordJobSubmitted(id int) {
	label := strconv.Itoa(id)
	poolJobsSubmitted.WithLabelValues(label).Inc()
	poolQueueDepth.WithLabelValues(label).Inc()
}

// RecordJobStarted records a job leaving worker id's queue.
func RecordJobStarted(id int) {
	poolQueueDepth.WithLabelValues(strconv.Itoa(id)).Dec()
}

// RecordJobDone records a finished job.
func RecordJobDone(failed bool) {
	poolJobsExecuted.Inc()
	if failed {
		poolJobFailures.Inc()
	}
}

// RecordSearch records a completed search.
func RecordSearch(strategy string, duration time.Duration, records int) {
	searchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	searchRecords.WithLabelValues(strategy).Add(float64(records))
}

// RecordEnumerationError records a directory that failed to list.
func RecordEnumerationError() {
	enumerationErrors.Inc()
}
