package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSchedulingMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveScheduled()
	m.ObserveScheduled()
	m.ObserveRejected(ReasonConflict)
	m.ObserveCancelled()

	if got := testutil.ToFloat64(m.scheduledTotal); got != 2 {
		t.Errorf("scheduled_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rejectedTotal.WithLabelValues(ReasonConflict)); got != 1 {
		t.Errorf("rejected_total{conflict} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cancelledTotal); got != 1 {
		t.Errorf("cancelled_total = %v, want 1", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveScheduled()
	m.ObserveRejected(ReasonParse)
	m.ObserveCancelled()
}
