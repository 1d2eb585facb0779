package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus
type PrometheusCollector struct {
	saves          *prometheus.CounterVec
	saveLatency    prometheus.Histogram
	operations     *prometheus.CounterVec
	autoPlaced     prometheus.Counter
	autoFailed     prometheus.Counter
	droppedEvents  *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates and registers the seating metrics.
// reg defaults to prometheus.DefaultRegisterer and namespace to "seating".
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "seating"
	}

	p := &PrometheusCollector{
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "autosave",
			Name:      "cycles_total",
			Help:      "Total auto-save cycles by result (success,failure,skipped).",
		}, []string{"result"}),
		saveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "autosave",
			Name:      "write_latency_seconds",
			Help:      "Latency of arrangement store writes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Total session operations by name and result (ok,rejected).",
		}, []string{"op", "result"}),
		autoPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "allocation",
			Name:      "auto_assign_placed_total",
			Help:      "Attendees placed by auto-assign.",
		}),
		autoFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "allocation",
			Name:      "auto_assign_failed_total",
			Help:      "Attendees auto-assign could not place.",
		}),
		droppedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Domain events dropped, by sink.",
		}, []string{"sink"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of loaded event sessions.",
		}),
	}

	collectors := []prometheus.Collector{
		p.saves, p.saveLatency, p.operations, p.autoPlaced, p.autoFailed, p.droppedEvents, p.activeSessions,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *PrometheusCollector) RecordSave(result string, seconds float64) {
	p.saves.WithLabelValues(result).Inc()
	if result != SaveSkipped {
		p.saveLatency.Observe(seconds)
	}
}

func (p *PrometheusCollector) RecordOperation(op, result string) {
	p.operations.WithLabelValues(op, result).Inc()
}

func (p *PrometheusCollector) RecordAutoAssign(placed, failed int) {
	p.autoPlaced.Add(float64(placed))
	p.autoFailed.Add(float64(failed))
}

func (p *PrometheusCollector) IncrementDroppedEvents(sink string) {
	p.droppedEvents.WithLabelValues(sink).Inc()
}

func (p *PrometheusCollector) SetActiveSessions(n int) {
	p.activeSessions.Set(float64(n))
}
