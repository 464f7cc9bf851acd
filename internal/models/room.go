package models

import "time"

// Room represents a named chat channel with an admin-gated membership list.
// Rooms live entirely in memory and are deleted only by an explicit request.
type Room struct {
	// ID is the unique identifier for the room
	ID string `json:"id"`

	// Name is the display name of the room
	Name string `json:"name"`

	// Admin is the username of the creator. It is set once at creation and
	// never changes; the admin cannot be kicked from the room.
	Admin string `json:"admin,omitempty"`

	// MembersList holds member usernames in the order they joined
	MembersList []string `json:"membersList"`

	// Members is the member count, recomputed from MembersList on every read
	Members int `json:"members"`

	// PendingRequests holds usernames waiting for admin approval, in request order.
	// A username is never in both MembersList and PendingRequests.
	PendingRequests []string `json:"pendingRequests"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRoomRequest is the request body for creating a new room
type CreateRoomRequest struct {
	Name    string `json:"name" validate:"required"`
	Creator string `json:"creator"`
}

// JoinRequestBody is the request body for submitting a join request
type JoinRequestBody struct {
	Username string `json:"username" validate:"required"`
}

// RoomResponse wraps a single room
type RoomResponse struct {
	Success bool `json:"success"`
	Room    Room `json:"room"`
}

// RoomsResponse wraps the room list
type RoomsResponse struct {
	Success bool   `json:"success"`
	Rooms   []Room `json:"rooms"`
}

// MembersResponse wraps a room's member usernames
type MembersResponse struct {
	Success bool     `json:"success"`
	Members []string `json:"members"`
}

// RequestsResponse wraps a room's pending join requests
type RequestsResponse struct {
	Success  bool     `json:"success"`
	Requests []string `json:"requests"`
}

// SuccessResponse is the generic acknowledgment body
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
