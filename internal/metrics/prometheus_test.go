package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg, "test")
	require.NoError(t, err)

	p.RecordSave(SaveSuccess, 0.02)
	p.RecordSave(SaveSuccess, 0.04)
	p.RecordSave(SaveSkipped, 0)
	p.RecordOperation("assign", ResultRejected)
	p.RecordAutoAssign(5, 2)
	p.IncrementDroppedEvents("sse")
	p.SetActiveSessions(3)

	require.Equal(t, 2.0, testutil.ToFloat64(p.saves.WithLabelValues(SaveSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.saves.WithLabelValues(SaveSkipped)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues("assign", ResultRejected)))
	require.Equal(t, 5.0, testutil.ToFloat64(p.autoPlaced))
	require.Equal(t, 2.0, testutil.ToFloat64(p.autoFailed))
	require.Equal(t, 1.0, testutil.ToFloat64(p.droppedEvents.WithLabelValues("sse")))
	require.Equal(t, 3.0, testutil.ToFloat64(p.activeSessions))
	require.Equal(t, 1, testutil.CollectAndCount(p.saveLatency))
}

func TestPrometheusCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg, "dup")
	require.NoError(t, err)

	_, err = NewPrometheus(reg, "dup")
	require.Error(t, err)
}

func TestNopMetrics(t *testing.T) {
	var c Collector = NewNop()
	require.NotPanics(t, func() {
		c.RecordSave(SaveFailure, 1)
		c.RecordOperation("remove", ResultOK)
		c.RecordAutoAssign(1, 1)
		c.IncrementDroppedEvents("amqp")
		c.SetActiveSessions(0)
	})
}
