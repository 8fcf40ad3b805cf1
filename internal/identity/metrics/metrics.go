package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity module. Tracks how
// resolutions classify and how long the resolve path takes.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// New creates a Metrics instance with all identity module metrics registered.
func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tatami_identity_resolutions_total",
			Help: "Total number of registrant resolutions by classification",
		}, []string{"classification"}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tatami_identity_resolve_duration_seconds",
			Help:    "Duration of Resolve operations (registration critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementResolution records a terminal classification.
func (m *Metrics) IncrementResolution(classification string) {
	m.Resolutions.WithLabelValues(classification).Inc()
}

// ObserveResolve records the duration of a Resolve operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
