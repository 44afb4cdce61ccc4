package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"StockTiming/internal/domain/models"
	applogger "StockTiming/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts signal events to all connected websocket clients. A slow or
// dead client is dropped instead of blocking the broadcast.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *applogger.Logger
}

func NewHub(logger *applogger.Logger) *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Handle upgrades an HTTP request and keeps the connection registered until
// the client goes away.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", applogger.Error(err))
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", applogger.Int("clients", count))

	// reads are only consumed to detect close
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish implements the event publisher contract by broadcasting the event
// as JSON to every connected client.
func (h *Hub) Publish(_ context.Context, event models.SignalEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("websocket write failed, dropping client", applogger.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
	return nil
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	conn.Close()
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}
