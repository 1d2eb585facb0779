package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
)

// Hub manages SSE clients watching a single event's seating
type Hub struct {
	eventID model.EventID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub for an event
func NewHub(eventID model.EventID, logger *slog.Logger) *Hub {
	return &Hub{
		eventID:    eventID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("event_id", string(eventID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client registered",
				slog.String("client_id", client.id),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("sse message dropped - client buffer full", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients; it reports false when the hub buffer is full
func (h *Hub) Broadcast(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
		return false
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) bool {
	return h.Broadcast(formatSSEMessage(eventName, data))
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and a trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// HubManager manages hubs for all events
type HubManager struct {
	hubs   map[model.EventID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.EventID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for an event, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(eventID model.EventID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[eventID]; ok {
		return hub
	}

	hub := NewHub(eventID, m.logger)
	m.hubs[eventID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for an event, or nil if it doesn't exist
func (m *HubManager) GetHub(eventID model.EventID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[eventID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(eventID model.EventID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[eventID]; ok {
		hub.Close()
		delete(m.hubs, eventID)
		m.logger.Info("sse hub removed", slog.String("event_id", string(eventID)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// CloseAll shuts down every hub
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}
