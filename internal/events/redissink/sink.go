package redissink

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// DefaultChannelPrefix is prepended to the event id to form the pub/sub channel
const DefaultChannelPrefix = "seating:events"

// Sink publishes domain events on a per-event Redis pub/sub channel
type Sink struct {
	client *redis.Client
	prefix string
}

// New creates a Sink; an empty prefix uses DefaultChannelPrefix
func New(client *redis.Client, prefix string) *Sink {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Sink{client: client, prefix: prefix}
}

var _ events.Sink = (*Sink)(nil)

func (s *Sink) Name() string { return "redis" }

// Channel returns the channel events for eventID are published on
func (s *Sink) Channel(eventID model.EventID) string {
	return fmt.Sprintf("%s:%s", s.prefix, eventID)
}

func (s *Sink) Publish(ctx context.Context, event model.Event) error {
	data, err := events.Encode(event)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.Channel(event.EventID), data).Err()
}
