package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
)

const displayNameMaxLen = 60

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrDisplayNameTooLong = errors.New("display name cannot exceed 60 characters")
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 8

// User is an account that owns tasks.
type User struct {
	domain.BaseAggregateRoot
	email        string
	passwordHash string
	displayName  string
	lastLoginAt  *time.Time
}

// NewUser creates a user with an already hashed password.
func NewUser(email, passwordHash, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > displayNameMaxLen {
		return nil, ErrDisplayNameTooLong
	}

	u := &User{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		email:             email,
		passwordHash:      passwordHash,
		displayName:       displayName,
	}
	u.AddDomainEvent(NewUserRegistered(u.ID(), u.email))
	return u, nil
}

func (u *User) Email() string           { return u.email }
func (u *User) PasswordHash() string    { return u.passwordHash }
func (u *User) DisplayName() string     { return u.displayName }
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }

// RecordLogin stamps a successful authentication.
func (u *User) RecordLogin(at time.Time) {
	at = at.UTC()
	u.lastLoginAt = &at
	u.Touch()
}

// RehydrateState carries every persisted field of a user.
type RehydrateState struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	LastLoginAt  *time.Time
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Rehydrate recreates a user from persisted state without raising events.
func Rehydrate(state RehydrateState) *User {
	return &User{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(state.ID, state.CreatedAt, state.UpdatedAt),
			state.Version,
		),
		email:        state.Email,
		passwordHash: state.PasswordHash,
		displayName:  state.DisplayName,
		lastLoginAt:  state.LastLoginAt,
	}
}
