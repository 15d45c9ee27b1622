package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roasbeef/revue/internal/review"
)

// WebSocket message types for real-time updates.
const (
	WSMsgTypeStatusChange = "status_change"
	WSMsgTypePong         = "pong"
	WSMsgTypeConnected    = "connected"
	WSMsgTypeError        = "error"
)

// WSMessage represents a WebSocket message sent to clients.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// StatusChangePayload is the payload of a status_change message.
type StatusChangePayload struct {
	SubmissionID string `json:"submissionId"`
	From         string `json:"from"`
	To           string `json:"to"`
}

// Hub maintains the set of active WebSocket clients and broadcasts
// submission status changes to all of them. Every connected browser
// sees every submission, so there is no per-client routing.
type Hub struct {
	// Registered clients.
	clients map[*WSClient]struct{}

	// Register requests from clients.
	register chan *WSClient

	// Unregister requests from clients.
	unregister chan *WSClient

	// Broadcast messages to all clients.
	broadcast chan *WSMessage

	// Mutex for thread-safe access.
	mu sync.RWMutex

	// Context for shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

// A compile time check that the hub can act as the pipeline's status
// notifier.
var _ review.StatusNotifier = (*Hub)(nil)

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*WSClient]struct{}),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan *WSMessage, 256),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			// Clean up all clients on shutdown.
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			log.Printf("WebSocket: Client registered (total=%d)",
				h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()
			log.Printf("WebSocket: Client unregistered (total=%d)",
				h.ClientCount())

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.Send(msg)
			}
			h.mu.RUnlock()
		}
	}
}

// Stop shuts down the hub.
func (h *Hub) Stop() {
	h.cancel()
}

// NotifyStatusChange implements review.StatusNotifier by broadcasting
// the transition to every connected client.
func (h *Hub) NotifyStatusChange(submissionID string,
	oldStatus, newStatus review.Status,
) {
	h.BroadcastToAll(&WSMessage{
		Type: WSMsgTypeStatusChange,
		Payload: StatusChangePayload{
			SubmissionID: submissionID,
			From:         string(oldStatus),
			To:           string(newStatus),
		},
	})
}

// BroadcastToAll sends a message to all connected clients.
func (h *Hub) BroadcastToAll(msg *WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("WebSocket: Broadcast buffer full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// upgrader specifies parameters for upgrading an HTTP connection to WebSocket.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Check origin to prevent CSRF attacks.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Allow if no origin header (same-origin requests).
		if origin == "" {
			return true
		}
		// Allow Vite dev server in development.
		if origin == "http://localhost:5174" {
			return true
		}
		// Allow same-origin requests.
		host := r.Host
		return origin == "http://"+host || origin == "https://"+host
	},
}

// handleWebSocket handles WebSocket connections at /ws.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	// Upgrade HTTP connection to WebSocket.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	// Create new client.
	client := NewWSClient(s.hub, conn)

	// Register client with hub.
	s.hub.register <- client

	// Send connection confirmation.
	client.Send(&WSMessage{
		Type: WSMsgTypeConnected,
		Payload: map[string]any{
			"time": time.Now().UTC().Format(time.RFC3339),
		},
	})

	// Start read and write pumps.
	go client.writePump()
	go client.readPump()
}

// handleIncomingMessage processes messages received from WebSocket clients.
func (h *Hub) handleIncomingMessage(client *WSClient, messageType int, data []byte) {
	if messageType != websocket.TextMessage {
		return
	}

	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data,omitempty"`
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		client.Send(&WSMessage{
			Type: WSMsgTypeError,
			Payload: map[string]any{
				"message": "Invalid message format",
			},
		})
		return
	}

	switch msg.Type {
	case "ping":
		// Respond to ping with pong.
		client.Send(&WSMessage{
			Type: WSMsgTypePong,
			Payload: map[string]any{
				"time": time.Now().UTC().Format(time.RFC3339),
			},
		})

	default:
		// Unknown message type.
		client.Send(&WSMessage{
			Type: WSMsgTypeError,
			Payload: map[string]any{
				"message": "Unknown message type: " + msg.Type,
			},
		})
	}
}
