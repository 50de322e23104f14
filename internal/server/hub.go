// internal/server/hub.go
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// reloadMessage is sent to every browser after a successful rebuild.
const reloadMessage = "reload"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local dev server only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks the live-reload clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     *slog.Logger
}

func newHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		log:     logger,
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.log.Debug("live-reload client connected", "remote", conn.RemoteAddr().String())
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
		h.log.Debug("live-reload client disconnected", "remote", conn.RemoteAddr().String())
	}
}

// count returns the number of connected clients.
func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast sends message to every client, dropping the ones that fail.
func (h *Hub) broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Warn("dropping live-reload client", "error", err)
			client.Close()
			delete(h.clients, client)
		}
	}
}

// serveWs upgrades the request and holds the connection until the peer goes away.
func (h *Hub) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.register(conn)
	defer h.unregister(conn)
	for {
		// Clients never send; a read error means the connection closed.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
