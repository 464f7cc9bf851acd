package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/errs"
)

func TestSignupAndLogin(t *testing.T) {
	s := NewStore()

	user, err := s.Signup("alice", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)

	got, err := s.Login("alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, user, got)
}

func TestSignup_Validation(t *testing.T) {
	s := NewStore()

	_, err := s.Signup("ab", "secret123")
	require.ErrorIs(t, err, errs.ErrUsernameTooShort)

	_, err = s.Signup("alice", "short")
	require.ErrorIs(t, err, errs.ErrPasswordTooShort)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	s := NewStore()

	_, err := s.Signup("alice", "secret123")
	require.NoError(t, err)

	_, err = s.Signup("alice", "different456")
	require.ErrorIs(t, err, errs.ErrUsernameTaken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := NewStore()

	_, err := s.Signup("alice", "secret123")
	require.NoError(t, err)

	// Wrong password and unknown username yield the same error
	_, err = s.Login("alice", "wrongpass")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = s.Login("nobody", "secret123")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestGetUserAndList(t *testing.T) {
	s := NewStore()

	alice, err := s.Signup("alice", "secret123")
	require.NoError(t, err)
	_, err = s.Signup("bob", "secret456")
	require.NoError(t, err)

	got, err := s.GetUser(alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice, got)

	_, err = s.GetUser("missing")
	require.ErrorIs(t, err, errs.ErrUserNotFound)

	require.Len(t, s.ListUsers(), 2)
}

func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := hashPassword("secret123")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$")

	ok, err := comparePassword("secret123", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = comparePassword("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}
