package www

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/icodeforyou/histoplot-go/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var ErrHubClosed = errors.New("websocket hub closed")

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is a browser connected to /ws. A client with a surface only gets
// the messages for that surface.
type Client struct {
	logger  *slog.Logger
	hub     *Hub
	conn    *ws.Conn
	send    chan []byte
	id      string
	surface string
}

func NewClient(hub *Hub, w http.ResponseWriter, r *http.Request, surface string) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &Client{
		logger:  hub.logger.With(slog.String("client", id), slog.String("surface", surface)),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		id:      id,
		surface: surface,
	}, nil
}

func (c *Client) ID() string {
	return c.id
}

// ReadPump only exists to process pongs and to notice when the browser
// goes away, incoming messages are discarded.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Warn("web socket set read deadline failed", slog.Any("error", err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				c.logger.Warn("web socket read failed", slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("web socket set write deadline failed", slog.Any("error", err))
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(ws.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("web socket close message failed", slog.Any("error", err))
				}
				return
			}

			if err := c.conn.WriteMessage(ws.TextMessage, message); err != nil {
				c.logger.Warn("web socket write failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("web socket set write deadline failed", slog.Any("error", err))
				return
			}
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				c.logger.Warn("web socket ping message failed", slog.Any("error", err))
				return
			}
		}
	}
}

// Message is a payload for the clients watching Surface, or for every
// client when Surface is empty.
type Message struct {
	Surface string
	Payload []byte
}

// Hub maintains the set of active clients and broadcasts messages to clients
type Hub struct {
	Broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	clients    map[*Client]bool
	done       chan struct{}
	mutex      sync.Mutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Broadcast:  make(chan Message),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Run serves the channels until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			metrics.SetClients(0)
			return

		case client := <-h.Register:
			h.logger.Debug("registering client", "clientId", client.id)

			h.mutex.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mutex.Unlock()
			metrics.SetClients(n)

		case client := <-h.Unregister:
			h.logger.Debug("unregistering client", "clientId", client.id)

			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mutex.Unlock()
			metrics.SetClients(n)

		case message := <-h.Broadcast:
			// Create a temporary slice of clients while holding the lock
			h.mutex.Lock()
			activeClients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				if message.Surface == "" || client.surface == "" || client.surface == message.Surface {
					activeClients = append(activeClients, client)
				}
			}
			h.mutex.Unlock()

			for _, client := range activeClients {
				select {
				case client.send <- message.Payload:
				default: // Client's channel is full, drop the message
					h.logger.Warn("client send buffer full, dropping message", "clientId", client.id)
				}
			}
		}
	}
}

// NewWebSocketHandler upgrades the request and attaches the browser to the
// hub. The "id" query parameter selects the surface it wants to follow.
func NewWebSocketHandler(logger *slog.Logger, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := NewClient(hub, w, r, r.URL.Query().Get("id"))
		if err != nil {
			logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}

		select {
		case hub.Register <- client:
		case <-hub.done:
			client.conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
