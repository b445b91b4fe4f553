// Package channel implements the persistent bidirectional transport:
// connection lifecycle, inbound command demultiplexing and outbound
// state fan-out.
package channel

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/your-org/fleetwatch/internal/config"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/session"
	"github.com/your-org/fleetwatch/pkg/dto"
)

// AuthFunc admits or rejects a connection before it may subscribe to
// anything. The gateway always calls it; the default wired in main is a
// pass-through stub pending real credential verification.
type AuthFunc func(r *http.Request) error

// Client is one observer connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains active channel connections, dispatches their commands and
// fans outbound state to all of them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	registry *registry.Registry
	sessions *session.Manager
	auth     AuthFunc
	upgrader websocket.Upgrader
	sendBuf  int
	clock    Clock
}

func NewHub(reg *registry.Registry, sessions *session.Manager, auth AuthFunc, cfg config.Config) *Hub {
	allowed := originChecker(cfg.Server)
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		registry:   reg,
		sessions:   sessions,
		auth:       auth,
		sendBuf:    cfg.Channel.SendBufferSize,
		clock:      systemClock{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.Channel.ReadBufferSize,
			WriteBufferSize: cfg.Channel.WriteBufferSize,
			CheckOrigin:     allowed,
		},
	}
}

// originChecker allows configured origins, plus no-origin and local dev
// frontends outside production.
func originChecker(cfg config.ServerConfig) func(*http.Request) bool {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return !cfg.Production()
		}
		if allowed[origin] {
			return true
		}
		if !cfg.Production() && len(allowed) == 0 {
			return true
		}
		return false
	}
}

// Run starts the hub event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			observability.ChannelConnections.Inc()
			slog.Debug("channel client connected", "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			observability.ChannelConnections.Dec()
			slog.Debug("channel client disconnected", "total", len(h.clients))

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow observer: drop the connection rather than
					// block the fan-out.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast pushes an event to every connected observer.
func (h *Hub) Broadcast(event string, payload any) {
	env, err := dto.NewEnvelope(event, payload)
	if err != nil {
		slog.Error("marshal channel event", "event", event, "error", err)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		slog.Error("marshal channel envelope", "event", event, "error", err)
		return
	}
	h.broadcast <- data
}

// ServeWS runs the admission check, upgrades the request and starts the
// connection pumps.
func (h *Hub) ServeWS(c *gin.Context) {
	if err := h.auth(c.Request); err != nil {
		slog.Warn("channel admission rejected", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.Err("authentication required"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("channel upgrade failed", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, h.sendBuf),
	}

	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// Transport errors are logged, never re-raised.
			slog.Debug("channel read closed", "error", err)
			return
		}
		h.dispatch(c, data)
	}
}

// reply sends an event to this connection only.
func (c *Client) reply(event string, payload any) {
	env, err := dto.NewEnvelope(event, payload)
	if err != nil {
		slog.Error("marshal reply event", "event", event, "error", err)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) replyError(message string) {
	c.reply(dto.EventError, dto.ErrorEvent{Message: message})
}
