// Package metrics holds the Prometheus collectors of the assistant.
// All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "collabquest"

type Metrics struct {
	gatherer prometheus.Gatherer

	intents       *prometheus.CounterVec
	completions   *prometheus.CounterVec
	completionDur *prometheus.HistogramVec
	governance    *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		intents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Classified requests by intent.",
		}, []string{"intent", "fallback"}),
		completions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion gateway calls by model and outcome.",
		}, []string{"model", "outcome"}),
		completionDur: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion gateway latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"model"}),
		governance: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "governance_transitions_total",
			Help:      "Governance state transitions by action.",
		}, []string{"action", "transition"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications dispatched by type and result.",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) ObserveIntent(intent string, fallback bool) {
	if m == nil {
		return
	}
	fb := "false"
	if fallback {
		fb = "true"
	}
	m.intents.WithLabelValues(intent, fb).Inc()
}

func (m *Metrics) ObserveCompletion(model string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.completions.WithLabelValues(model, outcome).Inc()
	m.completionDur.WithLabelValues(model).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTransition(action, transition string) {
	if m == nil {
		return
	}
	m.governance.WithLabelValues(action, transition).Inc()
}

func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.notifications.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
