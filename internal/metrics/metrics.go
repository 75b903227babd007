// Package metrics exposes Prometheus counters for the aid domain.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the domain collectors. All methods are safe on a nil receiver.
type Metrics struct {
	// Supply deltas applied by channel (promised, performed)
	SupplyDeltas *prometheus.CounterVec

	// Days of food pushed by channel
	SupplyDays *prometheus.CounterVec

	// Application status changes by target status
	StatusTransitions *prometheus.CounterVec

	// Supply side effects skipped by the repeat policy
	SkippedEffects prometheus.Counter

	// Locations per stored urgency level
	LocationsByUrgency *prometheus.GaugeVec

	// Feed actions by kind (post, reply, like, verify, flag, delete)
	FeedActions *prometheus.CounterVec

	// Event publish failures by event type
	PublishFailures *prometheus.CounterVec

	// Urgency audit runs and drift found
	AuditDuration prometheus.Histogram
	AuditDrift    prometheus.Counter
}

// New registers all collectors with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SupplyDeltas: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidlink_supply_deltas_total",
			Help: "Supply deltas applied to locations by channel",
		}, []string{"channel"}),

		SupplyDays: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidlink_supply_days_total",
			Help: "Signed days of food pushed to locations by channel",
		}, []string{"channel"}),

		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidlink_application_status_transitions_total",
			Help: "Application status changes by target status",
		}, []string{"status"}),

		SkippedEffects: factory.NewCounter(prometheus.CounterOpts{
			Name: "aidlink_application_skipped_effects_total",
			Help: "Supply side effects skipped because the transition was already applied",
		}),

		LocationsByUrgency: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aidlink_locations_by_urgency",
			Help: "Number of locations per stored urgency level",
		}, []string{"urgency"}),

		FeedActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidlink_feed_actions_total",
			Help: "Ground report feed actions by kind",
		}, []string{"action"}),

		PublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidlink_event_publish_failures_total",
			Help: "Domain events that could not be published",
		}, []string{"type"}),

		AuditDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aidlink_urgency_audit_duration_seconds",
			Help:    "Duration of urgency audit runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		AuditDrift: factory.NewCounter(prometheus.CounterOpts{
			Name: "aidlink_urgency_audit_drift_total",
			Help: "Locations found with a stale stored urgency level",
		}),
	}
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveSupplyDelta records a supply delta on a channel.
func (m *Metrics) ObserveSupplyDelta(channel string, days float64) {
	if m != nil {
		m.SupplyDeltas.WithLabelValues(channel).Inc()
		if days > 0 {
			m.SupplyDays.WithLabelValues(channel).Add(days)
		}
	}
}

// IncrementTransition records an application status change.
func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(status).Inc()
	}
}

// IncrementSkippedEffect records a side effect suppressed by the repeat policy.
func (m *Metrics) IncrementSkippedEffect() {
	if m != nil {
		m.SkippedEffects.Inc()
	}
}

// SetUrgencyCounts replaces the per-urgency location gauge.
func (m *Metrics) SetUrgencyCounts(counts map[string]int) {
	if m != nil {
		m.LocationsByUrgency.Reset()
		for level, n := range counts {
			m.LocationsByUrgency.WithLabelValues(level).Set(float64(n))
		}
	}
}

// IncrementFeedAction records a feed action.
func (m *Metrics) IncrementFeedAction(action string) {
	if m != nil {
		m.FeedActions.WithLabelValues(action).Inc()
	}
}

// IncrementPublishFailure records a failed event publish.
func (m *Metrics) IncrementPublishFailure(eventType string) {
	if m != nil {
		m.PublishFailures.WithLabelValues(eventType).Inc()
	}
}

// ObserveAudit records an urgency audit run.
func (m *Metrics) ObserveAudit(d time.Duration, drifted int) {
	if m != nil {
		m.AuditDuration.Observe(d.Seconds())
		m.AuditDrift.Add(float64(drifted))
	}
}
