package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"PumpScan/internal/domain/models"
	xlogger "PumpScan/pkg/logger"
)

const streamWriteTimeout = 5 * time.Second

// StreamHub pushes each published signal to connected WebSocket
// clients. A slow client is disconnected rather than allowed to block
// the broadcast.
type StreamHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewStreamHub(logger *xlogger.Logger) *StreamHub {
	return &StreamHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the signals feed is open to any origin, same as the REST surface
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the request and keeps the connection registered until
// the client goes away.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("stream client connected", xlogger.Int("clients", n))

	// drain control frames; returning unregisters the client
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Name implements the pipeline sink interface.
func (h *StreamHub) Name() string { return "stream" }

// Deliver broadcasts a signal to every connected client.
func (h *StreamHub) Deliver(_ context.Context, sig *models.Signal) error {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(sig); err != nil {
			h.logger.Debug("stream client dropped", xlogger.Error(err))
			h.drop(conn)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}
