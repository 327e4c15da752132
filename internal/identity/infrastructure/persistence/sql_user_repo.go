package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/domain/user"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database"
)

const userColumns = `
	id, email, password_hash, display_name, last_login_at,
	version, created_at, updated_at`

// SQLUserRepository implements user.Repository on the shared database
// abstraction, portable across PostgreSQL and SQLite.
type SQLUserRepository struct {
	conn database.Connection
}

// NewSQLUserRepository creates a user repository for the given connection.
func NewSQLUserRepository(conn database.Connection) *SQLUserRepository {
	return &SQLUserRepository{conn: conn}
}

// Save upserts a user. New accounts with a taken email return
// ErrEmailTaken; the unique index backs this up under races.
func (r *SQLUserRepository) Save(ctx context.Context, u *user.User) error {
	if u.Version() == 0 {
		existing, err := r.FindByEmail(ctx, u.Email())
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		if existing != nil && existing.ID() != u.ID() {
			return user.ErrEmailTaken
		}
	}

	query := `
		INSERT INTO users (` + userColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			password_hash = excluded.password_hash,
			display_name = excluded.display_name,
			last_login_at = excluded.last_login_at,
			version = excluded.version,
			updated_at = excluded.updated_at
	`

	var lastLogin *string
	if u.LastLoginAt() != nil {
		s := u.LastLoginAt().UTC().Format(time.RFC3339Nano)
		lastLogin = &s
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		u.ID().String(),
		u.Email(),
		u.PasswordHash(),
		u.DisplayName(),
		lastLogin,
		u.Version()+1,
		u.CreatedAt().UTC().Format(time.RFC3339Nano),
		u.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	u.SetVersion(u.Version() + 1)
	return nil
}

// FindByID retrieves a user by id.
func (r *SQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanUser(exec.QueryRow(ctx, query, id.String()))
}

// FindByEmail retrieves a user by its lowercased email.
func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	exec := database.ExecutorFromContext(ctx, r.conn)
	return scanUser(exec.QueryRow(ctx, query, email))
}

func scanUser(row database.Row) (*user.User, error) {
	var (
		id, email            string
		passwordHash         string
		displayName          string
		lastLoginAt          *string
		version              int
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &email, &passwordHash, &displayName, &lastLoginAt, &version, &createdAt, &updatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	state := user.RehydrateState{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Version:      version,
	}

	var err error
	if state.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	if lastLoginAt != nil {
		t, err := time.Parse(time.RFC3339Nano, *lastLoginAt)
		if err != nil {
			return nil, fmt.Errorf("invalid last_login_at: %w", err)
		}
		state.LastLoginAt = &t
	}
	if state.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if state.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	return user.Rehydrate(state), nil
}
