package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets for request latency; policy endpoints answer in well under a second
	CustomAPIBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	RejectedBodies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_rejected_bodies_total",
			Help: "Requests rejected by the body size gate",
		},
		[]string{"reason"},
	)

	// Storage Metrics
	StorageOperationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of key-value storage operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// Business Metrics
	ContactFormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_contact_form_submissions_total",
			Help: "Total number of contact form submissions",
		},
		[]string{"status"},
	)

	ContactFieldErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_contact_form_field_errors_total",
			Help: "Contact form validation failures by field",
		},
		[]string{"field"},
	)

	SchedulingResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_scheduling_resolutions_total",
			Help: "Scheduling configuration resolutions",
		},
		[]string{"provider", "status"},
	)

	VideoResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_video_resolutions_total",
			Help: "Video source resolutions",
		},
		[]string{"provider", "status"},
	)

	ExitIntentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_exit_intent_decisions_total",
			Help: "Exit intent prompt decisions by reason",
		},
		[]string{"frequency", "reason"},
	)

	ExitIntentStorageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_exit_intent_storage_failures_total",
			Help: "Exit intent state reads or writes that fell back to defaults",
		},
		[]string{"operation"},
	)

	LeadWebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "firm_lead_webhook_requests_total",
			Help: "Lead webhook delivery attempts by outcome",
		},
		[]string{"status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically until stop is closed
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// StatusLabel maps an error to the status label used by operation counters
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
