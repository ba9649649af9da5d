package ws

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Hub tracks live connections. The protocol is strictly request/reply, so
// the hub only does connection accounting for logs and the health endpoint;
// nothing is ever pushed through it.
type Hub struct {
	conns    map[string]*websocket.Conn
	connsMux sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*websocket.Conn),
	}
}

// Register adds a client connection
func (h *Hub) Register(connID string, conn *websocket.Conn) {
	h.connsMux.Lock()
	h.conns[connID] = conn
	count := len(h.conns)
	h.connsMux.Unlock()
	log.Printf("Connection %s opened (total: %d)", connID, count)
}

// Unregister removes a client connection
func (h *Hub) Unregister(connID string) {
	h.connsMux.Lock()
	delete(h.conns, connID)
	count := len(h.conns)
	h.connsMux.Unlock()
	log.Printf("Connection %s closed (total: %d)", connID, count)
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.connsMux.RLock()
	defer h.connsMux.RUnlock()
	return len(h.conns)
}
