package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/protocol"
	"github.com/parley-chat/parley/internal/services"
)

// Hub is the realtime fan-out gateway. It tracks which clients are
// subscribed to which room channels, maps inbound events to message-log
// operations, and broadcasts the outcomes to every subscriber of the
// affected room. Subscribing to a channel is independent of room
// membership; any connected client may join any channel.
type Hub struct {
	// rooms maps roomID to the set of clients subscribed to that channel
	rooms map[string]map[*Client]bool

	// clients is the set of all connected clients
	clients map[*Client]bool

	// register requests from new connections
	register chan *Client

	// unregister requests from closing connections
	unregister chan *Client

	// subscribe/unsubscribe carry channel membership changes
	subscribe   chan *subscription
	unsubscribe chan *subscription

	// broadcast carries encoded frames addressed to a room channel
	broadcast chan *roomFrame

	messages *services.MessageService
}

// subscription binds a client to a room channel
type subscription struct {
	client *Client
	roomID string
}

// roomFrame is an encoded frame addressed to every subscriber of a room
type roomFrame struct {
	roomID string
	data   []byte
}

// NewHub creates a Hub backed by the given message log.
func NewHub(messages *services.MessageService) *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *subscription),
		unsubscribe: make(chan *subscription),
		broadcast:   make(chan *roomFrame, 64),
		messages:    messages,
	}
}

// Run starts the hub's main event loop. All subscription maps are owned by
// this goroutine; nothing else touches them.
// Call in a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Info().Str("user", client.Username).Int("total", len(h.clients)).Msg("client connected")

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			h.subscribeClient(sub.client, sub.roomID)

		case sub := <-h.unsubscribe:
			h.unsubscribeClient(sub.client, sub.roomID)

		case frame := <-h.broadcast:
			h.broadcastToRoom(frame)
		}
	}
}

// Register hands a new connection to the hub loop.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection and all of its subscriptions.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for roomID := range client.rooms {
		h.dropFromRoom(client, roomID)
	}
	close(client.done)
	log.Info().Str("user", client.Username).Int("remaining", len(h.clients)).Msg("client disconnected")
}

func (h *Hub) subscribeClient(client *Client, roomID string) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
	log.Info().Str("user", client.Username).Str("room", roomID).
		Int("subscribers", len(h.rooms[roomID])).Msg("subscribed to room channel")
}

func (h *Hub) unsubscribeClient(client *Client, roomID string) {
	h.dropFromRoom(client, roomID)
	delete(client.rooms, roomID)
}

// dropFromRoom removes a client from a channel, cleaning up the channel
// when it empties.
func (h *Hub) dropFromRoom(client *Client, roomID string) {
	subscribers, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(h.rooms, roomID)
	}
}

// broadcastToRoom fans a frame out to every subscriber of the room.
// Delivery is best-effort: a client whose buffer is full is dropped rather
// than letting it stall the loop.
func (h *Hub) broadcastToRoom(frame *roomFrame) {
	for client := range h.rooms[frame.roomID] {
		select {
		case client.send <- frame.data:
		default:
			h.removeClient(client)
		}
	}
}

// BroadcastEvent encodes an event and queues it for every subscriber of the
// room channel. Fire-and-forget; there is no per-client acknowledgment.
func (h *Hub) BroadcastEvent(roomID string, event protocol.EventType, payload any) {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", string(event)).Msg("failed to encode broadcast")
		return
	}
	h.broadcast <- &roomFrame{roomID: roomID, data: data}
}

// HandleEvent dispatches one inbound frame from a client. Operation
// failures are acked back to the originating client only; they are never
// broadcast.
func (h *Hub) HandleEvent(c *Client, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("user", c.Username).Msg("bad frame")
		c.sendError("invalid frame")
		return
	}

	switch env.Event {
	case protocol.EventJoinRoom:
		h.handleJoinRoom(c, env.Payload)
	case protocol.EventLeaveRoom:
		h.handleLeaveRoom(c, env.Payload)
	case protocol.EventSendMessage:
		h.handleSendMessage(c, env.Payload)
	case protocol.EventMessageDelivered:
		h.handleReceipt(c, env.Payload, protocol.EventDeliveryUpdate)
	case protocol.EventMessageRead:
		h.handleReceipt(c, env.Payload, protocol.EventReadUpdate)
	case protocol.EventEditMessage:
		h.handleEditMessage(c, env.Payload)
	case protocol.EventDeleteMessage:
		h.handleDeleteMessage(c, env.Payload)
	default:
		log.Warn().Str("event", string(env.Event)).Str("user", c.Username).Msg("unknown event")
		c.sendError("unknown event")
	}
}

func (h *Hub) handleJoinRoom(c *Client, payload json.RawMessage) {
	var p protocol.RoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		c.sendError("roomId is required")
		return
	}
	h.subscribe <- &subscription{client: c, roomID: p.RoomID}
	c.sendEvent(protocol.EventJoined, protocol.RoomPayload{RoomID: p.RoomID})
}

func (h *Hub) handleLeaveRoom(c *Client, payload json.RawMessage) {
	var p protocol.RoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		c.sendError("roomId is required")
		return
	}
	h.unsubscribe <- &subscription{client: c, roomID: p.RoomID}
	c.sendEvent(protocol.EventLeft, protocol.RoomPayload{RoomID: p.RoomID})
}

func (h *Hub) handleSendMessage(c *Client, payload json.RawMessage) {
	var req models.SendMessageRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.RoomID == "" || req.Sender == "" {
		c.sendError("roomId and sender are required")
		return
	}
	msg := h.messages.CreateMessage(req)
	h.BroadcastEvent(req.RoomID, protocol.EventReceiveMessage, msg)
}

// handleReceipt serves both delivery and read marks; they differ only in the
// log operation and the broadcast event. A nil result (unknown room or
// message) produces no broadcast.
func (h *Hub) handleReceipt(c *Client, payload json.RawMessage, update protocol.EventType) {
	var p protocol.ReceiptPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("invalid receipt payload")
		return
	}

	var msg *models.Message
	if update == protocol.EventDeliveryUpdate {
		msg = h.messages.MarkDelivered(p.MessageID, p.RoomID, p.Username)
	} else {
		msg = h.messages.MarkRead(p.MessageID, p.RoomID, p.Username)
	}
	if msg == nil {
		return
	}
	h.BroadcastEvent(p.RoomID, update, msg)
}

func (h *Hub) handleEditMessage(c *Client, payload json.RawMessage) {
	var p protocol.EditPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("invalid edit payload")
		return
	}
	msg, err := h.messages.EditMessage(p.MessageID, p.RoomID, p.Sender, p.Text)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	h.BroadcastEvent(p.RoomID, protocol.EventMessageEdited, msg)
}

func (h *Hub) handleDeleteMessage(c *Client, payload json.RawMessage) {
	var p protocol.DeletePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError("invalid delete payload")
		return
	}
	if err := h.messages.DeleteMessage(p.MessageID, p.RoomID, p.Sender); err != nil {
		c.sendError(err.Error())
		return
	}
	h.BroadcastEvent(p.RoomID, protocol.EventMessageDeleted, protocol.DeletedPayload{
		MessageID: p.MessageID,
		RoomID:    p.RoomID,
	})
}
