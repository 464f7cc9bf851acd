package models

// User is the public view of an account. Password hashes never leave the
// auth store.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SignupRequest is the request body for creating an account
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse wraps a single user
type UserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// UsersResponse wraps the user list
type UsersResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}
