package observe

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const promNamespace = "flowkit"

// PrometheusRecorder records traversal metrics as Prometheus collectors.
type PrometheusRecorder struct {
	traversals *prometheus.CounterVec
	items      *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the recorder's collectors with reg.
// A nil reg leaves the collectors unregistered.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		traversals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "flow",
				Name:      "traversals_total",
				Help:      "Total number of finished traversals",
			},
			[]string{"flow", "status"},
		),
		items: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "flow",
				Name:      "items_total",
				Help:      "Total number of values emitted",
			},
			[]string{"flow"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Subsystem: "flow",
				Name:      "errors_total",
				Help:      "Total number of failed pulls",
			},
			[]string{"flow"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: promNamespace,
				Subsystem: "flow",
				Name:      "traversal_duration_seconds",
				Help:      "Duration of traversals",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"flow", "status"},
		),
	}
}

func (r *PrometheusRecorder) TraversalStarted(context.Context, Traversal) {}

func (r *PrometheusRecorder) ItemEmitted(_ context.Context, t Traversal) {
	r.items.WithLabelValues(t.Name).Inc()
}

func (r *PrometheusRecorder) PullFailed(_ context.Context, t Traversal, _ error) {
	r.errors.WithLabelValues(t.Name).Inc()
}

func (r *PrometheusRecorder) TraversalEnded(_ context.Context, t Traversal, s Summary) {
	r.traversals.WithLabelValues(t.Name, s.Status).Inc()
	r.duration.WithLabelValues(t.Name, s.Status).Observe(s.Duration.Seconds())
}
