package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/viant/sourcepick/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = (pongWait * 9) / 10
	sendBuffer = 32
)

// Role identifies the side of a bridge connection
type Role string

const (
	// RolePage is an instrumented page running the picker
	RolePage Role = "page"
	// RoleHost is a consumer sending activation and receiving selections
	RoleHost Role = "host"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type client struct {
	role Role
	conn *websocket.Conn
	send chan []byte
}

// Hub relays protocol messages: selections from pages to hosts, activation from hosts to pages
type Hub struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub creates a relay hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger, clients: map[*client]bool{}}
}

// Count returns number of connected clients with the role
func (h *Hub) Count(role Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for c := range h.clients {
		if c.role == role {
			count++
		}
	}
	return count
}

// ServeHTTP upgrades the connection and relays its messages until it closes
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := Role(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("role"))))
	if role != RolePage && role != RoleHost {
		http.Error(w, "role must be page or host", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	c := &client{role: role, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	defer h.unregister(c)

	if err = conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Warn("bridge set read deadline failed", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.write(ctx, c)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			cancel()
			<-writerDone
			return
		}
		h.route(c, data)
	}
}

func (h *Hub) write(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// route forwards a decoded message to the opposite role; malformed or misdirected messages are dropped
func (h *Hub) route(from *client, data []byte) {
	message, err := protocol.Decode(data)
	if err != nil {
		h.logger.Debug("bridge dropped message", "role", from.role, "error", err)
		return
	}
	switch {
	case from.role == RolePage && message.Kind() == protocol.KindSelected:
		h.broadcast(RoleHost, data)
	case from.role == RoleHost && (message.Kind() == protocol.KindEnable || message.Kind() == protocol.KindDisable):
		h.broadcast(RolePage, data)
	default:
		h.logger.Debug("bridge dropped message", "role", from.role, "type", message.Type)
	}
}

func (h *Hub) broadcast(role Role, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.role != role {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("bridge client too slow, message dropped", "role", role)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}
