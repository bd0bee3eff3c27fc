package websocket

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/seriate-dev/seriate/internal/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Ping interval. Must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Subscribers never send payloads; anything beyond a pong is noise.
	maxMessageSize = 512

	// Size of a subscriber's send buffer.
	sendBufferSize = 256
)

var allowedOrigins []string

// SetAllowedOrigins configures the browser origins that may subscribe.
func SetAllowedOrigins(origins []string) {
	allowedOrigins = origins
}

// originAllowed accepts same-origin requests (no Origin header), exact
// matches against the configured origins, and any localhost port when a
// localhost origin is configured, so development ports need no config churn.
func originAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	for _, allowed := range allowedOrigins {
		if origin == allowed {
			return true
		}
		if strings.HasPrefix(allowed, "http://localhost:") && strings.HasPrefix(origin, "http://localhost:") {
			return true
		}
	}

	logger.Warn("websocket origin rejected", "origin", origin, "allowed_origins", allowedOrigins)
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return originAllowed(r.Header.Get("Origin"))
	},
}

// Client is one subscriber connection.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

// Close closes the client's send channel. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump drains the connection until it breaks. Subscribers don't send
// us anything meaningful; the read loop exists to see pongs and closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("websocket unexpected close", "error", err)
			}
			break
		}
	}
}

// writePump moves queued messages onto the wire and keeps the connection
// alive with pings. Queued-up messages are coalesced into one frame,
// newline separated.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// ServeWs upgrades an HTTP request to a subscriber connection.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}
