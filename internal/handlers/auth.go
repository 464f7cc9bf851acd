package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/errs"
	"github.com/parley-chat/parley/internal/models"
)

// AuthHandler contains HTTP handlers for account operations.
type AuthHandler struct {
	users    *auth.Store
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(users *auth.Store) *AuthHandler {
	return &AuthHandler{
		users:    users,
		validate: validator.New(),
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Signup(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUsernameTaken) {
			writeJSON(w, http.StatusConflict, errorResponse{Success: false, Error: err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.UserResponse{Success: true, User: user})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Success: false, Error: err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{Success: true, User: user})
}

// Logout handles POST /api/auth/logout
// Accounts are kept; logout only acknowledges that the session ended.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.users.GetUser(req.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out successfully"})
}

// ListUsers handles GET /api/auth/users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.UsersResponse{Success: true, Users: h.users.ListUsers()})
}
