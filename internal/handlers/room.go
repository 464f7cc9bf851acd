package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/services"
)

// RoomHandler contains HTTP handlers for room operations.
// All handlers return the {success, ...} JSON envelope.
type RoomHandler struct {
	rooms    *services.RoomService
	validate *validator.Validate
}

// NewRoomHandler creates a new RoomHandler instance.
func NewRoomHandler(rooms *services.RoomService) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		validate: validator.New(),
	}
}

// ListRooms handles GET /api/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := h.rooms.ListRooms()
	writeJSON(w, http.StatusOK, models.RoomsResponse{Success: true, Rooms: rooms})
}

// GetRoom handles GET /api/rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.GetRoom(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.RoomResponse{Success: true, Room: room})
}

// CreateRoom handles POST /api/rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	room, err := h.rooms.CreateRoom(req.Name, req.Creator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.RoomResponse{Success: true, Room: room})
}

// DeleteRoom handles DELETE /api/rooms/{id}
// Deleting a room also drops its message history.
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.DeleteRoom(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Room deleted successfully"})
}

// RequestJoin handles POST /api/rooms/{id}/join-request
func (h *RoomHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	if err := h.rooms.RequestJoin(chi.URLParam(r, "id"), req.Username); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Join request submitted"})
}

// ListRequests handles GET /api/rooms/{id}/requests
func (h *RoomHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.rooms.ListRequests(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.RequestsResponse{Success: true, Requests: requests})
}

// ApproveRequest handles POST /api/rooms/{id}/requests/{username}/approve
func (h *RoomHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.ApproveJoin(chi.URLParam(r, "id"), chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Request approved"})
}

// DeclineRequest handles POST /api/rooms/{id}/requests/{username}/decline
func (h *RoomHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.DeclineJoin(chi.URLParam(r, "id"), chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Request declined"})
}

// ListMembers handles GET /api/rooms/{id}/members
func (h *RoomHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.rooms.ListMembers(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MembersResponse{Success: true, Members: members})
}

// KickMember handles POST /api/rooms/{id}/members/{username}/kick
// Kicking the admin is a no-op that still reports success.
func (h *RoomHandler) KickMember(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.KickMember(chi.URLParam(r, "id"), chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Member kicked"})
}
