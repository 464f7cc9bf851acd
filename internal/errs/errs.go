// Package errs defines the error taxonomy shared by the services and the
// transport layers. Services return these sentinels (possibly wrapped);
// handlers translate them into HTTP statuses or socket error acks.
package errs

import (
	"errors"
	"fmt"
)

var (
	// Not-found family: a referenced entity does not exist.
	ErrRoomNotFound    = fmt.Errorf("room not found")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrUserNotFound    = fmt.Errorf("user not found")

	// Validation family: bad input shape or content.
	ErrEmptyRoomName    = fmt.Errorf("room name must not be empty")
	ErrUsernameTooShort = fmt.Errorf("username must be at least 3 characters")
	ErrPasswordTooShort = fmt.Errorf("password must be at least 6 characters")

	// Forbidden family: the caller is not allowed to perform the operation.
	ErrNotSender = fmt.Errorf("only the sender can modify a message")

	ErrUsernameTaken      = fmt.Errorf("username already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
)

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation reports whether err belongs to the validation family.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyRoomName) ||
		errors.Is(err, ErrUsernameTooShort) ||
		errors.Is(err, ErrPasswordTooShort)
}

// IsForbidden reports whether err belongs to the forbidden family.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotSender)
}
