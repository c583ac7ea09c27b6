// Package metrics defines the Prometheus collectors webui records into.
//
// Collectors are registered on a caller-supplied registerer; webui never
// exposes a /metrics route itself. A nil *Metrics is valid and records
// nothing, so callers do not need to guard each call.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "webui"

// Mode labels for rendered responses.
const (
	ModeHTML = "html"
	ModeJSON = "json"
)

// Metrics holds the collectors for one UI server.
type Metrics struct {
	requestsTotal  *prometheus.CounterVec
	updatesTotal   prometheus.Counter
	updateErrors   prometheus.Counter
	updateDuration prometheus.Histogram
	livenessConns  prometheus.Gauge
	stateVersion   prometheus.Gauge
}

// New creates the collectors and registers them on reg.
// It returns nil when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Page requests served, by method and response mode.",
		}, []string{"method", "mode"}),

		updatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_updates_total",
			Help:      "Updates that changed the state.",
		}),

		updateErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_errors_total",
			Help:      "POST requests rejected because the update handler failed.",
		}),

		updateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_duration_seconds",
			Help:      "Time spent in the update handler.",
			Buckets:   prometheus.DefBuckets,
		}),

		livenessConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "liveness_connections",
			Help:      "Open connections held on the liveness path.",
		}),

		stateVersion: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_version",
			Help:      "Version of the current state.",
		}),
	}
}

// RecordRequest counts a served page request.
func (m *Metrics) RecordRequest(method, mode string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, mode).Inc()
}

// RecordUpdate records a completed update handler call.
// changed reports whether a non-empty patch was applied.
func (m *Metrics) RecordUpdate(seconds float64, changed bool, version uint64) {
	if m == nil {
		return
	}
	m.updateDuration.Observe(seconds)
	if changed {
		m.updatesTotal.Inc()
		m.stateVersion.Set(float64(version))
	}
}

// RecordUpdateError counts a rejected update.
func (m *Metrics) RecordUpdateError() {
	if m == nil {
		return
	}
	m.updateErrors.Inc()
}

// LivenessOpened tracks a new connection on the liveness path.
func (m *Metrics) LivenessOpened() {
	if m == nil {
		return
	}
	m.livenessConns.Inc()
}

// LivenessClosed tracks a liveness connection going away.
func (m *Metrics) LivenessClosed() {
	if m == nil {
		return
	}
	m.livenessConns.Dec()
}
