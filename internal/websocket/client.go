package websocket

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"leasecli/internal/config"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer. Clients only ever send
	// heartbeats.
	maxMessageSize = 512

	// Buffered outbound messages per client
	sendQueueSize = 256
)

// heartbeat is the only inbound payload clients send.
const heartbeat = `{"type":"heartbeat"}`

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	id          string
	remoteAddr  string
	connectedAt time.Time

	pongWait   time.Duration
	pingPeriod time.Duration

	logger *slog.Logger
}

// NewClient creates a new Client with dependency injection
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)

	pongWait := hub.cfg.PongWait
	if pongWait <= 0 {
		pongWait = config.WebSocketPongWait
	}
	pingPeriod := hub.cfg.PingPeriod
	if pingPeriod <= 0 || pingPeriod >= pongWait {
		pingPeriod = pongWait * 9 / 10
	}

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendQueueSize),
		id:          id,
		remoteAddr:  conn.RemoteAddr().String(),
		connectedAt: time.Now(),
		pongWait:    pongWait,
		pingPeriod:  pingPeriod,
		logger:      logger,
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
// Inbound traffic is heartbeat-only; anything else is ignored. The pump
// exits on read error and unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.logger.Info("websocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
		// The hub may already be stopped; never block on unregister.
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("unexpected websocket close",
					slog.String("error", err.Error()))
			}
			break
		}

		if string(message) == heartbeat {
			// The read deadline reset above keeps the connection alive.
			continue
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection and
// keeps the connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("error writing to websocket",
					slog.String("error", err.Error()))
				return
			}

			// Drain queued messages as separate frames.
			n := len(c.send)
			for i := 0; i < n; i++ {
				msg, more := <-c.send
				if !more {
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					c.logger.Error("error writing queued message",
						slog.String("error", err.Error()))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS registers a freshly upgraded connection with the hub and starts
// its pumps.
func ServeWS(hub *Hub, conn *websocket.Conn) {
	client := NewClient(hub, conn, hub.logger)
	hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
