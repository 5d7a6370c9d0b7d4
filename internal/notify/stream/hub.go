// Package stream fans notifications out to HTTP clients as server-sent events.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/model"
	"github.com/mcoot/roomwarden/internal/notify"
)

// Hub manages the connected event-stream clients
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	clock   clock.Clock
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// Ensure Hub implements notify.Sink
var _ notify.Sink = (*Hub)(nil)

// NewHub creates a Hub; call Run to start it
func NewHub(clk clock.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		clock:      clk,
		logger:     logger.With(slog.String("component", "stream")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and disconnects everyone when ctx ends
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("stream hub started")
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("stream client registered",
				slog.String("remote", client.remote),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("stream client unregistered",
					slog.String("remote", client.remote),
					slog.Duration("connection_duration", h.clock.Now().Sub(client.connectedAt)),
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
				h.logger.Warn("stream message dropped for slow clients", slog.Int("dropped", dropped))
			}

		case <-ctx.Done():
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("stream hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Name returns "stream"
func (h *Hub) Name() string { return "stream" }

// Send broadcasts n to every client as an event named after its kind.
// Slow consumers lose messages; Send itself never fails on their account.
func (h *Hub) Send(_ context.Context, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	select {
	case h.broadcast <- formatEvent(string(n.Kind), string(data)):
	default:
		h.logger.Warn("stream broadcast dropped - hub buffer full")
	}
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatEvent formats an SSE message; every data line gets its own prefix
func formatEvent(name, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + name + "\n")
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r", ""), "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}
