package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/protocol"
)

// Client is a websocket connection to the parley gateway. Incoming events
// are folded into State; outgoing events are typed helpers over the wire
// protocol.
type Client struct {
	conn  *websocket.Conn
	state *State

	send chan []byte
	done chan struct{}
	once sync.Once

	// onEvent, if set, observes every decoded frame after it is applied
	onEvent func(protocol.Envelope)
}

// Dial connects to a parley server. wsURL is the websocket endpoint, e.g.
// "ws://localhost:8080/ws". username identifies the connection in server
// logs only.
func Dial(ctx context.Context, wsURL, username string) (*Client, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url: %w", err)
	}
	if username != "" {
		q := u.Query()
		q.Set("username", username)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	c := &Client{
		conn:  conn,
		state: NewState(),
		send:  make(chan []byte, 256),
		done:  make(chan struct{}),
	}

	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

// State returns the local mirror of rooms and messages.
func (c *Client) State() *State {
	return c.state
}

// OnEvent registers a callback invoked for every decoded server event,
// after it has been applied to State. Set before generating traffic.
func (c *Client) OnEvent(handler func(protocol.Envelope)) {
	c.onEvent = handler
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) readLoop() {
	defer c.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warn().Err(err).Msg("bad frame from server")
			continue
		}
		if err := c.state.Apply(env); err != nil {
			log.Warn().Err(err).Str("event", string(env.Event)).Msg("failed to apply event")
		}
		if c.onEvent != nil {
			c.onEvent(env)
		}
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		}
	}
}

// emit encodes and queues one event for the server.
func (c *Client) emit(event protocol.EventType, payload any) error {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return fmt.Errorf("connection closed")
	}
}

// JoinRoom subscribes this connection to a room's events.
func (c *Client) JoinRoom(roomID string) error {
	return c.emit(protocol.EventJoinRoom, protocol.RoomPayload{RoomID: roomID})
}

// LeaveRoom unsubscribes this connection from a room's events.
func (c *Client) LeaveRoom(roomID string) error {
	return c.emit(protocol.EventLeaveRoom, protocol.RoomPayload{RoomID: roomID})
}

// SendMessage sends a chat message to a room.
func (c *Client) SendMessage(req models.SendMessageRequest) error {
	return c.emit(protocol.EventSendMessage, req)
}

// MarkDelivered reports that username received a message.
func (c *Client) MarkDelivered(messageID, roomID, username string) error {
	return c.emit(protocol.EventMessageDelivered, protocol.ReceiptPayload{
		MessageID: messageID, RoomID: roomID, Username: username,
	})
}

// MarkRead reports that username read a message.
func (c *Client) MarkRead(messageID, roomID, username string) error {
	return c.emit(protocol.EventMessageRead, protocol.ReceiptPayload{
		MessageID: messageID, RoomID: roomID, Username: username,
	})
}

// EditMessage edits a message this sender authored.
func (c *Client) EditMessage(messageID, roomID, sender, text string) error {
	return c.emit(protocol.EventEditMessage, protocol.EditPayload{
		MessageID: messageID, RoomID: roomID, Sender: sender, Text: text,
	})
}

// DeleteMessage deletes a message this sender authored.
func (c *Client) DeleteMessage(messageID, roomID, sender string) error {
	return c.emit(protocol.EventDeleteMessage, protocol.DeletePayload{
		MessageID: messageID, RoomID: roomID, Sender: sender,
	})
}
