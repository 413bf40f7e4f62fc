package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/foundit-campus/foundit-api/api"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// alertClient wraps a connection with its own write lock. Gorilla supports at
// most one concurrent writer per connection, and two credits to the same user
// can push at the same time.
type alertClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *alertClient) send(event string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
}

// AlertHub tracks connected users (userId -> connection) and pushes newly
// broadcast lost alerts and karma credits to them.
type AlertHub struct {
	clients map[string]*alertClient
	mutex   sync.Mutex
}

// NewAlertHub creates an empty hub
func NewAlertHub() *AlertHub {
	return &AlertHub{
		clients: make(map[string]*alertClient),
	}
}

// HandleAlertsWebSocket upgrades the connection and registers the
// authenticated user for live alerts. The subscriber identity comes from the
// bearer token, never from the request, so nobody can listen in on another
// user's pushes.
func (h *AlertHub) HandleAlertsWebSocket(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "unauthorized"}`))
		return
	}
	userID := actor.ID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	h.mutex.Lock()
	h.clients[userID] = &alertClient{conn: conn}
	h.mutex.Unlock()
	zap.S().Debugw("user connected to /ws/alerts", "userID", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, userID)
		h.mutex.Unlock()
		zap.S().Debugw("user disconnected from /ws/alerts", "userID", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

func (h *AlertHub) drop(userID string, client *alertClient) {
	h.mutex.Lock()
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
	h.mutex.Unlock()
	client.conn.Close()
}

// SendToUser pushes an event to one connected user, dropping the connection
// on write failure
func (h *AlertHub) SendToUser(userID, event string, data interface{}) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	client, exists := h.clients[userID]
	h.mutex.Unlock()

	if exists {
		if err := client.send(event, data); err != nil {
			zap.S().Warnw("failed to push event to user", "userID", userID, "event", event, "error", err)
			h.drop(userID, client)
		}
	}
}

// Broadcast pushes an event to every connected user
func (h *AlertHub) Broadcast(event string, data interface{}) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	snapshot := make(map[string]*alertClient, len(h.clients))
	for userID, client := range h.clients {
		snapshot[userID] = client
	}
	h.mutex.Unlock()

	for userID, client := range snapshot {
		if err := client.send(event, data); err != nil {
			zap.S().Warnw("failed to broadcast event", "userID", userID, "event", event, "error", err)
			h.drop(userID, client)
		}
	}
}
