// Package auth holds account storage and password verification. It is a
// collaborator of the chat core, not part of it: rooms and messages identify
// users by username only and never consult this package.
package auth

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/parley-chat/parley/internal/errs"
	"github.com/parley-chat/parley/internal/models"
)

type account struct {
	user models.User
	hash string
}

// Store is an in-memory account store keyed by username.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*account)}
}

// Signup registers a new account. Usernames must be at least 3 characters
// after trimming-equivalent checks, passwords at least 6.
func (s *Store) Signup(username, password string) (models.User, error) {
	if len(username) < 3 {
		return models.User{}, errs.ErrUsernameTooShort
	}
	if len(password) < 6 {
		return models.User{}, errs.ErrPasswordTooShort
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[username]; exists {
		return models.User{}, errs.ErrUsernameTaken
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: username,
	}
	s.accounts[username] = &account{user: user, hash: hash}

	log.Info().Str("user", username).Msg("account created")
	return user, nil
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords produce the same error.
func (s *Store) Login(username, password string) (models.User, error) {
	s.mu.RLock()
	acct, ok := s.accounts[username]
	s.mu.RUnlock()

	if !ok {
		return models.User{}, errs.ErrInvalidCredentials
	}
	valid, err := comparePassword(password, acct.hash)
	if err != nil {
		return models.User{}, err
	}
	if !valid {
		return models.User{}, errs.ErrInvalidCredentials
	}
	return acct.user, nil
}

// GetUser returns the account with the given ID.
func (s *Store) GetUser(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct.user, nil
		}
	}
	return models.User{}, errs.ErrUserNotFound
}

// ListUsers returns the public view of every account.
func (s *Store) ListUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.accounts))
	for _, acct := range s.accounts {
		users = append(users, acct.user)
	}
	return users
}
