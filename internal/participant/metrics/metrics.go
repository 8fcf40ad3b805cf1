package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the participant module.
type Metrics struct {
	ParticipantsCreated prometheus.Counter
}

// New creates a Metrics instance with all participant module metrics registered.
func New() *Metrics {
	return &Metrics{
		ParticipantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tatami_participants_created_total",
			Help: "Total number of participants created",
		}),
	}
}

// IncrementParticipantCreated records a successful participant creation.
func (m *Metrics) IncrementParticipantCreated() {
	m.ParticipantsCreated.Inc()
}
