package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipping",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total gateway HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shipping",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Gateway HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	carrierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipping",
			Subsystem: "carrier",
			Name:      "requests_total",
			Help:      "Carrier operations by outcome.",
		},
		[]string{"carrier", "operation", "outcome"},
	)
	carrierDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shipping",
			Subsystem: "carrier",
			Name:      "request_duration_seconds",
			Help:      "Carrier round trip duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"carrier", "operation", "outcome"},
	)
	transportRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipping",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Outbound carrier HTTP requests by status.",
		},
		[]string{"host", "status"},
	)
)

// Carrier operation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeFault   = "fault"
	OutcomeFailed  = "failed"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, carrierRequests, carrierDuration, transportRequests)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func RecordCarrierCall(carrier, operation, outcome string, duration time.Duration) {
	RegisterMetrics()
	carrierRequests.WithLabelValues(carrier, operation, outcome).Inc()
	carrierDuration.WithLabelValues(carrier, operation, outcome).Observe(duration.Seconds())
}

// RecordTransport counts one outbound request; status 0 means no response.
func RecordTransport(host string, status int) {
	RegisterMetrics()
	transportRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
}
