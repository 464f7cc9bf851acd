package models

import "time"

// Message represents a single chat message in a room's ordered history.
// Delivery and read receipts are tracked per recipient; the sender never
// appears in either set.
type Message struct {
	// ID is the unique identifier for this message
	ID string `json:"id"`

	// RoomID is the room this message belongs to
	RoomID string `json:"roomId"`

	// Text is the message body, trimmed at creation and on edit
	Text string `json:"text"`

	// Sender is the author's username. It is immutable and is the sole
	// authorization key for edit and delete.
	Sender string `json:"sender"`

	// Timestamp is the creation instant in RFC 3339 form, kept alongside
	// CreatedAt for wire compatibility
	Timestamp string `json:"timestamp"`

	// CreatedAt is when the message was sent
	CreatedAt time.Time `json:"createdAt"`

	// EditedAt is set on each successful edit
	EditedAt *time.Time `json:"editedAt,omitempty"`

	// IsEdited is set on the first successful edit
	IsEdited bool `json:"isEdited"`

	// DeliveredTo lists usernames the message has been delivered to at least once
	DeliveredTo []string `json:"deliveredTo"`

	// ReadBy records the first-read instant per username
	ReadBy []ReadReceipt `json:"readBy"`

	// ReplyTo is an optional snapshot of the quoted message, captured by
	// value at send time. Editing or deleting the original later does not
	// change the quote.
	ReplyTo *ReplyRef `json:"replyTo,omitempty"`
}

// ReadReceipt records when a username first read a message
type ReadReceipt struct {
	Username string    `json:"username"`
	ReadAt   time.Time `json:"readAt"`
}

// ReplyRef is a by-value snapshot of a quoted message
type ReplyRef struct {
	MessageID string `json:"messageId"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
}

// SendMessageRequest is the request body for sending a message
type SendMessageRequest struct {
	RoomID  string    `json:"roomId" validate:"required"`
	Text    string    `json:"text"`
	Sender  string    `json:"sender" validate:"required"`
	ReplyTo *ReplyRef `json:"replyTo,omitempty"`
}

// EditMessageRequest is the request body for editing a message
type EditMessageRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Sender string `json:"sender" validate:"required"`
	Text   string `json:"text"`
}

// DeleteMessageRequest is the request body for deleting a message
type DeleteMessageRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Sender string `json:"sender" validate:"required"`
}

// MessageResponse wraps a single message
type MessageResponse struct {
	Success bool    `json:"success"`
	Message Message `json:"message"`
}

// MessagesResponse wraps a room's message history
type MessagesResponse struct {
	Success  bool      `json:"success"`
	Messages []Message `json:"messages"`
}
