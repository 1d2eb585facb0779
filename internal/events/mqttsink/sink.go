package mqttsink

import (
	"context"
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

const (
	// DefaultTopicPrefix is prepended to "<event>/<kind>"
	DefaultTopicPrefix = "seating/events"

	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	disconnectQuiesce     = 250 // milliseconds
	maxQoS                = 2
)

var (
	// ErrNotConnected is returned when publishing while the broker connection is down
	ErrNotConnected = errors.New("mqtt: not connected")
	// ErrPublishFailed wraps publish timeouts and broker errors
	ErrPublishFailed = errors.New("mqtt: publish failed")
)

// Config holds MQTT connection settings
type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
}

// Sink publishes domain events to "<prefix>/<event>/<kind>"
type Sink struct {
	client  pahomqtt.Client
	prefix  string
	qos     byte
	timeout time.Duration
}

// Connect dials the broker with auto-reconnect enabled
func Connect(cfg Config) (*Sink, error) {
	if cfg.QoS > maxQoS {
		return nil, fmt.Errorf("mqtt: invalid qos %d", cfg.QoS)
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect timeout after %v", defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", err)
	}

	return NewWithClient(client, cfg.TopicPrefix, cfg.QoS), nil
}

// NewWithClient creates a Sink over an existing client (for testing)
func NewWithClient(client pahomqtt.Client, prefix string, qos byte) *Sink {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Sink{client: client, prefix: prefix, qos: qos, timeout: defaultPublishTimeout}
}

var _ events.Sink = (*Sink)(nil)

func (s *Sink) Name() string { return "mqtt" }

// Topic returns the topic an event is published on
func (s *Sink) Topic(event model.Event) string {
	return fmt.Sprintf("%s/%s/%s", s.prefix, event.EventID, event.Kind)
}

func (s *Sink) Publish(ctx context.Context, event model.Event) error {
	if !s.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	token := s.client.Publish(s.Topic(event), s.qos, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close disconnects from the broker
func (s *Sink) Close() error {
	s.client.Disconnect(disconnectQuiesce)
	return nil
}
