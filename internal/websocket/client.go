package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/parley-chat/parley/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Client represents a single WebSocket connection. A client may be
// subscribed to any number of room channels at once.
type Client struct {
	hub *Hub

	// WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound frames. Never closed; done signals
	// shutdown instead, so concurrent senders cannot hit a closed channel.
	send chan []byte

	// done is closed by the hub when the client is removed
	done chan struct{}

	// rooms holds the channels this client is subscribed to.
	// Owned by the hub loop; never touched from the pumps.
	rooms map[string]bool

	// Username identifies the connection in logs and acks only; it grants
	// no authority over rooms or messages.
	Username string
}

// NewClient creates a new Client instance.
func NewClient(hub *Hub, conn *websocket.Conn, username string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
		rooms:    make(map[string]bool),
		Username: username,
	}
}

// ReadPump pumps frames from the WebSocket connection into the hub.
// This runs in its own goroutine per client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user", c.Username).Msg("read error")
			}
			break
		}
		c.hub.HandleEvent(c, data)
	}
}

// WritePump pumps frames from the hub to the WebSocket connection.
// This runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// Each frame goes out separately; concatenating would break
			// JSON parsing on the client
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
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

// sendEvent queues an event for this client only. Best-effort: a full
// buffer drops the frame rather than blocking the caller.
func (c *Client) sendEvent(event protocol.EventType, payload any) {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(event)).Msg("failed to encode event")
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		log.Warn().Str("user", c.Username).Str("event", string(event)).Msg("send buffer full, frame dropped")
	}
}

// sendError acks a failure to the originating connection.
func (c *Client) sendError(msg string) {
	c.sendEvent(protocol.EventError, protocol.ErrorPayload{Error: msg})
}
