// Package protocol defines the realtime wire contract between the gateway
// and its clients. Every frame is an Envelope whose payload shape depends on
// the event type.
package protocol

import "encoding/json"

// EventType identifies a realtime event.
type EventType string

const (
	// Client -> Server
	EventJoinRoom         EventType = "join-room"
	EventLeaveRoom        EventType = "leave-room"
	EventSendMessage      EventType = "send-message"
	EventMessageDelivered EventType = "message-delivered"
	EventMessageRead      EventType = "message-read"
	EventEditMessage      EventType = "edit-message"
	EventDeleteMessage    EventType = "delete-message"

	// Server -> Client
	EventJoined         EventType = "joined"
	EventLeft           EventType = "left"
	EventReceiveMessage EventType = "receive-message"
	EventDeliveryUpdate EventType = "message-delivery-update"
	EventReadUpdate     EventType = "message-read-update"
	EventMessageEdited  EventType = "message-edited"
	EventMessageDeleted EventType = "message-deleted"
	EventError          EventType = "error"
)

// Envelope wraps every realtime frame with its event type.
type Envelope struct {
	Event   EventType       `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode marshals an envelope around the given payload.
func Encode(event EventType, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// RoomPayload addresses a room channel (join-room, leave-room, and their acks).
type RoomPayload struct {
	RoomID string `json:"roomId"`
}

// ReceiptPayload marks a message delivered or read for a username.
type ReceiptPayload struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
	Username  string `json:"username"`
}

// EditPayload carries an edit-message request.
type EditPayload struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
}

// DeletePayload carries a delete-message request.
type DeletePayload struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
	Sender    string `json:"sender"`
}

// DeletedPayload is broadcast after a successful delete.
type DeletedPayload struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
}

// ErrorPayload is sent only to the originating connection; failures are
// never broadcast.
type ErrorPayload struct {
	Error string `json:"error"`
}
