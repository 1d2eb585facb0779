package amqpsink

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// DefaultQueue is the durable queue seating events are routed to
const DefaultQueue = "seating.events"

// Channel is the subset of *amqp.Channel the sink uses
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Sink publishes domain events as persistent JSON messages on a durable queue
// through the default exchange
type Sink struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
	clock   clock.Clock
	mu      sync.Mutex
}

// Dial connects to the broker, opens a channel and declares the queue
func Dial(url, queue string, clk clock.Clock) (*Sink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	sink, err := NewWithChannel(ch, queue, clk)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	sink.conn = conn
	return sink, nil
}

// NewWithChannel creates a Sink over an open channel (for testing)
func NewWithChannel(ch Channel, queue string, clk clock.Clock) (*Sink, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	// Idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	return &Sink{channel: ch, queue: queue, clock: clk}, nil
}

var _ events.Sink = (*Sink)(nil)

func (s *Sink) Name() string { return "amqp" }

func (s *Sink) Publish(ctx context.Context, event model.Event) error {
	body, err := events.Encode(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    s.clock.Now().UTC(),
		Type:         string(event.Kind),
		Headers: amqp.Table{
			"event_id": string(event.EventID),
			"action":   string(event.Action),
		},
		Body: body,
	}

	// Channels are not safe for concurrent publishing
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel.PublishWithContext(ctx, "", s.queue, false, false, msg)
}

// Close closes the channel and, when the sink dialed it, the connection
func (s *Sink) Close() error {
	err := s.channel.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
