// Package metrics exposes Prometheus counters for the charging lifecycle and
// an HTTP latency histogram.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chargehub_sessions_started_total",
		Help: "Charging sessions started.",
	})

	sessionsStoppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chargehub_sessions_stopped_total",
		Help: "Charging sessions stopped and billed.",
	})

	paymentsCompletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chargehub_payments_completed_total",
		Help: "Payments settled through the simulated gateway.",
	})

	revenueTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chargehub_revenue_total",
		Help: "Total invoiced amount across stopped sessions.",
	})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chargehub_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// MustRegister installs all collectors into the default registry.
func MustRegister() {
	prometheus.MustRegister(
		sessionsStartedTotal,
		sessionsStoppedTotal,
		paymentsCompletedTotal,
		revenueTotal,
		httpRequestDuration,
	)
}

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncSessionStarted counts a started session.
func IncSessionStarted() {
	sessionsStartedTotal.Inc()
}

// IncSessionStopped counts a stopped session.
func IncSessionStopped() {
	sessionsStoppedTotal.Inc()
}

// IncPaymentCompleted counts a settled payment.
func IncPaymentCompleted() {
	paymentsCompletedTotal.Inc()
}

// AddRevenue accumulates invoiced amounts.
func AddRevenue(amount float64) {
	if amount > 0 {
		revenueTotal.Add(amount)
	}
}

// ObserveHTTPRequest records one request's latency.
func ObserveHTTPRequest(method, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(method, status).Observe(seconds)
}
