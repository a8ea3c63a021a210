package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/infrastructure/monitoring"
	"github.com/deskpilot/deskpilot/internal/shared/id"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The daemon binds loopback only; browsers on other origins
		// cannot reach it anyway.
		return true
	},
}

const (
	writeWait      = 5 * time.Second
	clientBacklog  = 32
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
)

// Hub fans activation, recovery, and breaker events out to every
// connected WebSocket client. Clients that cannot keep up are dropped
// rather than blocking the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	metrics *monitoring.Metrics
	log     *logging.Logger
}

type client struct {
	id   id.ClientID
	conn *websocket.Conn
	send chan map[string]any
}

// NewHub creates an empty hub.
func NewHub(metrics *monitoring.Metrics, log *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		metrics: metrics,
		log:     log,
	}
}

// Publish sends one event to every connected client. Never blocks.
func (h *Hub) Publish(event map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			h.log.Warn("dropping slow websocket client", zap.String("client", c.id.String()))
			h.removeLocked(c)
		}
	}
}

// HandleConnection upgrades the request and streams events until the
// client disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{id: id.NewClientID(), conn: conn, send: make(chan map[string]any, clientBacklog)}
	cl.send <- map[string]any{"type": "hello", "client": cl.id.String()}
	h.add(cl)
	defer h.remove(cl)

	go h.writeLoop(cl)
	h.readLoop(cl)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
}

// writeLoop drains the client's send channel and keeps the connection
// alive with pings. Exits when the channel closes.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client frames; the stream is one-way, so incoming
// payloads are discarded, but reading is what surfaces disconnects.
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(1 << 16)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
