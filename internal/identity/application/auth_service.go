package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/domain/user"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/infrastructure/auth"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/infrastructure/session"
	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	sharedDomain "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/domain"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
)

// ErrInvalidCredentials is returned for unknown emails and wrong
// passwords alike, so login failures do not reveal which one it was.
var ErrInvalidCredentials = sharedDomain.NewAuthorizationError("invalid email or password")

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// UserDTO is the read model of an account.
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthService covers registration, login, token refresh and logout.
type AuthService struct {
	users      user.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	hasher     *auth.PasswordHasher
	tokens     *auth.TokenManager
	sessions   session.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users user.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
	sessions session.Store,
) *AuthService {
	return &AuthService{
		users:      users,
		outboxRepo: outboxRepo,
		uow:        uow,
		hasher:     hasher,
		tokens:     tokens,
		sessions:   sessions,
	}
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*UserDTO, error) {
	if len(password) < user.MinPasswordLen {
		return nil, sharedDomain.NewValidationError("invalid registration", map[string]string{
			"password": user.ErrPasswordTooShort.Error(),
		})
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(email, hash, displayName)
	if err != nil {
		return nil, sharedDomain.NewValidationError("invalid registration", map[string]string{
			"email": err.Error(),
		})
	}

	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.users.Save(txCtx, u); err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				return sharedDomain.NewValidationError("invalid registration", map[string]string{
					"email": "already registered",
				})
			}
			return err
		}

		events := u.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(u.ID()))
		msgs, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		return s.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if err != nil {
		return nil, err
	}

	return toUserDTO(u), nil
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *UserDTO, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash()) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	u.RecordLogin(time.Now())
	if err := s.users.Save(ctx, u); err != nil {
		return nil, nil, err
	}

	return pair, toUserDTO(u), nil
}

// Refresh rotates the token pair. The presented refresh token must match
// the stored session exactly.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, sharedDomain.NewAuthorizationError(err.Error())
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, sharedDomain.NewAuthorizationError(auth.ErrInvalidToken.Error())
	}

	current, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, sharedDomain.NewAuthorizationError("session expired")
		}
		return nil, err
	}
	if current != refreshToken {
		return nil, sharedDomain.NewAuthorizationError("refresh token superseded")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, sharedDomain.NewAuthorizationError("session expired")
		}
		return nil, err
	}

	return s.openSession(ctx, u)
}

// Logout closes the user's session.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.Delete(ctx, userID)
}

// VerifyAccess validates an access token and returns the authenticated
// user id. Used by the HTTP middleware.
func (s *AuthService) VerifyAccess(raw string) (uuid.UUID, error) {
	claims, err := s.tokens.VerifyAccessToken(raw)
	if err != nil {
		return uuid.Nil, sharedDomain.NewAuthorizationError(err.Error())
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, sharedDomain.NewAuthorizationError(auth.ErrInvalidToken.Error())
	}
	return userID, nil
}

func (s *AuthService) openSession(ctx context.Context, u *user.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(u.ID(), u.Email())
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(u.ID(), u.Email())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, u.ID(), refresh, s.tokens.RefreshTTL()); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTLSeconds(),
	}, nil
}

func toUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID(),
		Email:       u.Email(),
		DisplayName: u.DisplayName(),
		CreatedAt:   u.CreatedAt(),
	}
}
