package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parley-chat/parley/internal/models"
	"github.com/parley-chat/parley/internal/services"
)

// MessageHandler contains HTTP handlers for message operations. This is the
// out-of-band read/write path; realtime delivery goes through the gateway.
type MessageHandler struct {
	messages *services.MessageService
	validate *validator.Validate
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		validate: validator.New(),
	}
}

// ListMessages handles GET /api/messages/{roomId}
// A room with no history returns an empty list, not 404: reconnecting
// clients refetch here and zero messages is a legitimate state.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages := h.messages.ListMessages(chi.URLParam(r, "roomId"))
	writeJSON(w, http.StatusOK, models.MessagesResponse{Success: true, Messages: messages})
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "roomId and sender are required", http.StatusBadRequest)
		return
	}

	msg := h.messages.CreateMessage(req)
	writeJSON(w, http.StatusCreated, models.MessageResponse{Success: true, Message: msg})
}

// EditMessage handles PUT /api/messages/{messageId}
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	var req models.EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "roomId and sender are required", http.StatusBadRequest)
		return
	}

	msg, err := h.messages.EditMessage(chi.URLParam(r, "messageId"), req.RoomID, req.Sender, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Success: true, Message: msg})
}

// DeleteMessage handles DELETE /api/messages/{messageId}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "roomId and sender are required", http.StatusBadRequest)
		return
	}

	if err := h.messages.DeleteMessage(chi.URLParam(r, "messageId"), req.RoomID, req.Sender); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Message deleted successfully"})
}
