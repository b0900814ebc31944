// Package realtime fans feed events out to WebSocket subscribers, optionally
// across instances through Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ConnectionGauge tracks open connections
type ConnectionGauge interface {
	ConnectionOpened()
	ConnectionClosed()
}

// HubConfig holds hub settings
type HubConfig struct {
	WriteTimeout   time.Duration
	AllowedOrigins []string // "*" or empty allows any origin
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub is the registry of local WebSocket connections
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	cfg      HubConfig
	gauge    ConnectionGauge
	logger   *zap.Logger
}

// NewHub creates an empty hub
func NewHub(cfg HubConfig, logger *zap.Logger) *Hub {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	h := &Hub{
		clients: make(map[*client]struct{}),
		cfg:     cfg,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetGauge reports connection counts to g
func (h *Hub) SetGauge(g ConnectionGauge) {
	h.gauge = g
}

// Len returns the number of open connections
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the connection registered until the
// peer goes away. Inbound frames are read and discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	h.add(c)
	defer h.remove(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}
	}
}

// Broadcast writes payload to every local connection. Connections that fail
// the write are closed and dropped.
func (h *Hub) Broadcast(ctx context.Context, payload []byte) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if ctx.Err() != nil {
			return
		}
		if err := c.write(payload, h.cfg.WriteTimeout); err != nil {
			h.logger.Debug("dropping websocket connection", zap.Error(err))
			h.remove(c)
		}
	}
}

// Publish encodes event as JSON and broadcasts it to local connections
func (h *Hub) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	h.Broadcast(ctx, payload)
	return nil
}

// Close drops every connection
func (h *Hub) Close() {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.remove(c)
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.ConnectionOpened()
	}
}

// remove is safe to call more than once per client
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if !ok {
		return
	}

	_ = c.conn.Close()
	if h.gauge != nil {
		h.gauge.ConnectionClosed()
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
