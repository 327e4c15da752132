package user

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		u, err := NewUser("Alex@Example.com", "hashed-secret", "Alex")
		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", u.Email())
		assert.Equal(t, "hashed-secret", u.PasswordHash())
		assert.Equal(t, "Alex", u.DisplayName())
		assert.Nil(t, u.LastLoginAt())

		events := u.DomainEvents()
		require.Len(t, events, 1)
		registered, ok := events[0].(*UserRegistered)
		require.True(t, ok)
		assert.Equal(t, "alex@example.com", registered.Email)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "hash", "")
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("display name too long", func(t *testing.T) {
		_, err := NewUser("a@b.com", "hash", strings.Repeat("n", 61))
		require.ErrorIs(t, err, ErrDisplayNameTooLong)
	})

	t.Run("empty display name allowed", func(t *testing.T) {
		u, err := NewUser("a@b.com", "hash", "  ")
		require.NoError(t, err)
		assert.Empty(t, u.DisplayName())
	})
}

func TestUser_RecordLogin(t *testing.T) {
	u, err := NewUser("a@b.com", "hash", "")
	require.NoError(t, err)

	at := time.Date(2025, 5, 1, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	u.RecordLogin(at)

	require.NotNil(t, u.LastLoginAt())
	assert.Equal(t, at.UTC(), *u.LastLoginAt())
}

func TestUserRehydrate(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	login := created.Add(time.Hour)

	u := Rehydrate(RehydrateState{
		ID:           id,
		Email:        "a@b.com",
		PasswordHash: "hash",
		DisplayName:  "Alex",
		LastLoginAt:  &login,
		Version:      3,
		CreatedAt:    created,
		UpdatedAt:    login,
	})

	assert.Equal(t, id, u.ID())
	assert.Equal(t, "a@b.com", u.Email())
	assert.Equal(t, 3, u.Version())
	assert.Equal(t, login, *u.LastLoginAt())
	assert.Empty(t, u.DomainEvents())
}
