// Package metrics provides Prometheus metrics for the admin backend.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vreg"

// Manager holds every metric the service exports. One instance is shared
// through the wire layer.
type Manager struct {
	registry *prometheus.Registry

	// Review throughput: decisions applied, labelled by entity and outcome.
	decisionsTotal *prometheus.CounterVec

	// Lost conditional updates. A nonzero rate means reviewers are racing.
	decisionConflicts *prometheus.CounterVec

	notificationsDispatched prometheus.Counter
	notificationFailures    prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager with its own registry.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		decisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Review decisions applied, by entity type and outcome.",
		}, []string{"entity", "outcome"}),
		decisionConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decision_conflicts_total",
			Help:      "Decisions rejected because another reviewer got there first.",
		}, []string{"entity"}),
		notificationsDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Notifications stored and handed to the sender.",
		}),
		notificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notification dispatches that returned an error.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordDecision counts one applied decision.
func (m *Manager) RecordDecision(entity, outcome string) {
	m.decisionsTotal.WithLabelValues(entity, outcome).Inc()
}

// RecordConflict counts one decision lost to a concurrent reviewer.
func (m *Manager) RecordConflict(entity string) {
	m.decisionConflicts.WithLabelValues(entity).Inc()
}

// RecordNotification counts one dispatch attempt.
func (m *Manager) RecordNotification(failed bool) {
	if failed {
		m.notificationFailures.Inc()
		return
	}
	m.notificationsDispatched.Inc()
}

// RecordHTTPRequest counts one served request and observes its latency.
func (m *Manager) RecordHTTPRequest(method, route, code string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the /metrics scrape handler for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
