package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters for the appointment book.
type SchedulingMetrics struct {
	scheduledTotal prometheus.Counter
	rejectedTotal  *prometheus.CounterVec
	cancelledTotal prometheus.Counter
}

// Rejection reason labels.
const (
	ReasonParse    = "parse"
	ReasonHours    = "hours"
	ReasonConflict = "conflict"
	ReasonNotFound = "not_found"
)

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		scheduledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "scheduled_total",
			Help:      "Total appointments scheduled",
		}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "rejected_total",
			Help:      "Total requests rejected by validation",
		}, []string{"reason"}),
		cancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "cancelled_total",
			Help:      "Total appointments cancelled",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.scheduledTotal, m.rejectedTotal, m.cancelledTotal)
	return m
}

func (m *SchedulingMetrics) ObserveScheduled() {
	if m == nil {
		return
	}
	m.scheduledTotal.Inc()
}

func (m *SchedulingMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *SchedulingMetrics) ObserveCancelled() {
	if m == nil {
		return
	}
	m.cancelledTotal.Inc()
}
