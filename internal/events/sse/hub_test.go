package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "assigned",
			data:      `{"kind":"assigned"}`,
			expected:  "event: assigned\ndata: {\"kind\":\"assigned\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "update",
			data:      "{\n  \"a\": 1\n}",
			expected:  "event: update\ndata: {\ndata:   \"a\": 1\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2\r\n",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("event-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client1 := NewClient("c1")
	client2 := NewClient("c2")
	hub.Register(client1)
	hub.Register(client2)
	waitForClients(t, hub, 2)

	hub.BroadcastEvent("update", "data")

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			if string(msg) != "event: update\ndata: data\n\n" {
				t.Errorf("client %d received %q", i+1, string(msg))
			}
		case <-time.After(time.Second):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("event-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient("c1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Unregister(client)
	waitForClients(t, hub, 0)

	if _, ok := <-client.send; ok {
		t.Error("client channel still open after unregister")
	}
}

func TestHubManager(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	if manager.GetHub("event-1") != nil {
		t.Fatal("GetHub returned non-nil for non-existent hub")
	}

	hub1 := manager.GetOrCreateHub("event-1")
	if manager.GetOrCreateHub("event-1") != hub1 {
		t.Error("GetOrCreateHub returned different hub for same event")
	}
	if manager.GetOrCreateHub("event-2") == hub1 {
		t.Error("GetOrCreateHub returned same hub for different event")
	}

	client := NewClient("c1")
	hub1.Register(client)
	waitForClients(t, hub1, 1)

	manager.CleanupEmptyHubs()
	if manager.GetHub("event-2") != nil {
		t.Error("empty hub still exists after cleanup")
	}
	if manager.GetHub("event-1") == nil {
		t.Error("active hub was removed during cleanup")
	}

	manager.RemoveHub("event-1")
	if manager.GetHub("event-1") != nil {
		t.Error("hub still exists after RemoveHub")
	}
	manager.RemoveHub("missing")
}

func TestSink_PublishesToWatchers(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.CloseAll()
	sink := NewSink(manager)

	event := model.Event{Domain: model.EventDomain, Action: model.ActionUpdate, Kind: model.EventAssigned, EventID: "event-1"}

	// No watchers: nothing to do
	if err := sink.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	hub := manager.GetOrCreateHub("event-1")
	client := NewClient("c1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	if err := sink.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-client.send:
		if !strings.HasPrefix(string(msg), "event: assigned\ndata: {") {
			t.Errorf("unexpected message %q", string(msg))
		}
		if !strings.Contains(string(msg), `"event_id":"event-1"`) {
			t.Errorf("message missing event id: %q", string(msg))
		}
	case <-time.After(time.Second):
		t.Error("client did not receive message")
	}
}

func TestServeSSE_StreamsUntilDisconnect(t *testing.T) {
	hub := NewHub("event-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		ServeSSE(rec, req, hub, "c1")
		close(done)
	}()

	waitForClients(t, hub, 1)
	hub.BroadcastEvent("saved", "ok")
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ServeSSE did not return after disconnect")
	}

	body := rec.Body.String()
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "event: connected") || !strings.Contains(body, "event: saved\ndata: ok") {
		t.Errorf("unexpected stream body %q", body)
	}
}
