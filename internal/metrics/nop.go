package metrics

// NopMetrics discards every metric. Used in tests and when metrics are disabled.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) RecordSave(_ string, _ float64) {}
func (n *NopMetrics) RecordOperation(_, _ string) {}
func (n *NopMetrics) RecordAutoAssign(_, _ int) {}
func (n *NopMetrics) IncrementDroppedEvents(_ string) {}
func (n *NopMetrics) SetActiveSessions(_ int) {}
