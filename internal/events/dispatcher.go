package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/metrics"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Sink delivers domain events to one destination
type Sink interface {
	Name() string
	Publish(ctx context.Context, event model.Event) error
}

// Dispatcher fans domain events out to every sink from a single goroutine.
// Emit never blocks: when the buffer is full the event is dropped.
type Dispatcher struct {
	sinks   []Sink
	queue   chan model.Event
	timeout time.Duration
	logger  *slog.Logger
	metrics metrics.Collector

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher. Call Run in its own goroutine.
func NewDispatcher(bufferSize int, publishTimeout time.Duration, collector metrics.Collector, logger *slog.Logger, sinks ...Sink) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}
	if collector == nil {
		collector = metrics.NewNop()
	}
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan model.Event, bufferSize),
		timeout: publishTimeout,
		logger:  logger.With(slog.String("component", "events")),
		metrics: collector,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Emit queues an event for delivery
func (d *Dispatcher) Emit(event model.Event) {
	select {
	case d.queue <- event:
	default:
		d.metrics.IncrementDroppedEvents("dispatcher")
		d.logger.Warn("event dropped - dispatcher buffer full",
			slog.String("event_id", string(event.EventID)),
			slog.String("kind", string(event.Kind)),
		)
	}
}

// Run delivers queued events until Close is called, then drains what is left
func (d *Dispatcher) Run() {
	defer close(d.stopped)
	d.logger.Info("event dispatcher started", slog.Int("sinks", len(d.sinks)))
	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.done:
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					d.logger.Info("event dispatcher stopped")
					return
				}
			}
		}
	}
}

// Close stops Run after the queue is drained and waits for it to return
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	<-d.stopped
}

func (d *Dispatcher) deliver(event model.Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := sink.Publish(ctx, event)
		cancel()
		if err != nil {
			d.metrics.IncrementDroppedEvents(sink.Name())
			d.logger.Warn("event delivery failed",
				slog.String("sink", sink.Name()),
				slog.String("event_id", string(event.EventID)),
				slog.String("kind", string(event.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}
