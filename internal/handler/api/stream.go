package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"MacroBoard/internal/usecase"
	applogger "MacroBoard/pkg/logger"
)

const writeDeadline = 5 * time.Second

// StreamHub pushes panel transitions to websocket subscribers so UIs
// can re-render panels without polling.
type StreamHub struct {
	upgrader websocket.Upgrader
	lg       *applogger.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	// writeMu serializes broadcasts; gorilla connections allow only
	// one concurrent writer.
	writeMu sync.Mutex
}

// NewStreamHub creates a hub with no subscribers.
func NewStreamHub(lg *applogger.Logger) *StreamHub {
	return &StreamHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		lg:    lg.Component("stream"),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the request and keeps the connection subscribed until
// the client goes away.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.lg.Debug("subscriber connected", applogger.String("remote", conn.RemoteAddr().String()))

	// Reads are discarded; the read loop only notices disconnects.
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

// Broadcast sends a panel snapshot to every subscriber. Slow or broken
// connections are dropped.
func (h *StreamHub) Broadcast(snap usecase.PanelSnapshot) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteJSON(snap); err != nil {
			h.drop(conn)
		}
	}
}

func (h *StreamHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
	}
}

// Close disconnects every subscriber.
func (h *StreamHub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}
