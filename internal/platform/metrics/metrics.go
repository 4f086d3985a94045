// Package metrics provides Prometheus collectors for the interaction engine:
// HTTP request counters and latency, plus engine-level counters for checks
// performed, interactions detected, alert lifecycle events, and knowledge
// base reloads. All collectors register with the default registry at init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_checks_total",
			Help: "Interaction checks performed, by kind (new|list)",
		},
		[]string{"kind"},
	)

	InteractionsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_detected_total",
			Help: "Drug interactions detected, by severity",
		},
		[]string{"severity"},
	)

	AlertsRaised = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_raised_total",
			Help: "Interaction alerts created",
		},
	)

	AlertsAcknowledged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_acknowledged_total",
			Help: "Interaction alerts acknowledged",
		},
	)

	KnowledgeReloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "knowledge_reloads_total",
			Help: "Knowledge base snapshot reloads",
		},
	)

	KnowledgeEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "knowledge_entries",
			Help: "Interaction records in the current knowledge base snapshot",
		},
	)

	FeedSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alert_feed_subscribers",
			Help: "Currently connected alert feed subscribers",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(ChecksTotal)
	prometheus.MustRegister(InteractionsDetected)
	prometheus.MustRegister(AlertsRaised)
	prometheus.MustRegister(AlertsAcknowledged)
	prometheus.MustRegister(KnowledgeReloads)
	prometheus.MustRegister(KnowledgeEntries)
	prometheus.MustRegister(FeedSubscribers)
}
