package redissink

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

func TestSinkPublishesToEventChannel(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer func() { _ = client.Close() }()

	sink := New(client, "")
	require.Equal(t, "seating:events:event-1", sink.Channel("event-1"))

	ctx := context.Background()
	pubsub := client.Subscribe(ctx, sink.Channel("event-1"))
	defer func() { _ = pubsub.Close() }()
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	event := model.Event{
		Domain:  model.EventDomain,
		Action:  model.ActionAdd,
		Kind:    model.EventTableAdded,
		EventID: "event-1",
		Payload: model.TablePayload{TableID: "t9", Name: "Table 9", Capacity: 10},
	}
	require.NoError(t, sink.Publish(ctx, event))

	select {
	case msg := <-pubsub.Channel():
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
		require.Equal(t, "seating", decoded["domain"])
		require.Equal(t, "add", decoded["action"])
		require.Equal(t, "table_added", decoded["kind"])
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestSinkReportsConnectionErrors(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()
	mini.Close()

	err := New(client, "custom").Publish(context.Background(), model.Event{EventID: "event-1"})
	require.Error(t, err)
}
