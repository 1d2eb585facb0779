package sse

import (
	"context"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Sink broadcasts domain events to the SSE clients of the matching event
type Sink struct {
	hubs *HubManager
}

// NewSink creates a Sink over a HubManager
func NewSink(hubs *HubManager) *Sink {
	return &Sink{hubs: hubs}
}

var _ events.Sink = (*Sink)(nil)

func (s *Sink) Name() string { return "sse" }

// Publish sends the event to watchers; events nobody watches are discarded
func (s *Sink) Publish(_ context.Context, event model.Event) error {
	hub := s.hubs.GetHub(event.EventID)
	if hub == nil {
		return nil
	}
	data, err := events.Encode(event)
	if err != nil {
		return err
	}
	if !hub.BroadcastEvent(string(event.Kind), string(data)) {
		return ErrHubFull
	}
	return nil
}
