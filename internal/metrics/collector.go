package metrics

// Save outcomes recorded by RecordSave
const (
	SaveSuccess = "success"
	SaveFailure = "failure"
	SaveSkipped = "skipped"
)

// Engine operation outcomes recorded by RecordOperation
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
)

// Collector receives seating metrics. Implementations must be safe for concurrent use.
type Collector interface {
	// RecordSave records one auto-save cycle outcome and, for writes, its latency
	RecordSave(result string, seconds float64)

	// RecordOperation records a session operation outcome
	RecordOperation(op, result string)

	// RecordAutoAssign records the placed and failed counts of an auto-assign run
	RecordAutoAssign(placed, failed int)

	// IncrementDroppedEvents records a domain event dropped by a full buffer or failed sink
	IncrementDroppedEvents(sink string)

	// SetActiveSessions records how many event sessions are loaded
	SetActiveSessions(n int)
}
