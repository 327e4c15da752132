package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Repository defines the interface for user persistence.
type Repository interface {
	// Save upserts a user. Saving a new user with an email that already
	// exists returns ErrEmailTaken.
	Save(ctx context.Context, u *User) error

	// FindByID retrieves a user by id.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by its lowercased email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}
