// Package metrics provides Prometheus instrumentation for the moderation
// worker. It exposes counters for check outcomes and violations, a
// histogram for pipeline latency, and a gauge for admin feed clients.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChecksTotal counts moderation pipeline runs, labeled by outcome:
	// "allowed" or "flagged".
	ChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appgrid_moderation_checks_total",
		Help: "Total number of comments run through the moderation pipeline",
	}, []string{"outcome"})

	// ViolationsTotal counts individual violations, labeled by error kind
	// (profanity, spam, blocked_pattern, invalid_link, too_many_links,
	// duplicate).
	ViolationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appgrid_moderation_violations_total",
		Help: "Total number of policy violations found, by kind",
	}, []string{"kind"})

	// CheckLatency records full-pipeline latency in seconds. The upper
	// buckets cover duplicate checks that hit the store.
	CheckLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "appgrid_moderation_check_seconds",
		Help:    "Moderation pipeline latency in seconds",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	// AutoFlagFailures counts auto-report persistence failures. Filing is
	// best-effort, so this counter and the logs are the only visibility
	// into lost reports.
	AutoFlagFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "appgrid_auto_flag_failures_total",
		Help: "Total number of auto-flag reports that failed to persist",
	})

	// FeedClients tracks the current number of connected admin feed
	// WebSocket clients.
	FeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "appgrid_feed_clients",
		Help: "Current number of connected admin feed clients",
	})
)

func init() {
	prometheus.MustRegister(
		ChecksTotal,
		ViolationsTotal,
		CheckLatency,
		AutoFlagFailures,
		FeedClients,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
