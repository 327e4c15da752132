package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when no active session exists for a user.
var ErrSessionNotFound = errors.New("session not found")

// Store tracks the active refresh token of each user. Rotating the token
// on every refresh invalidates stolen older tokens.
type Store interface {
	Save(ctx context.Context, userID uuid.UUID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

const keyPrefix = "mastertasker:session:"

// RedisStore implements Store on Redis with per-key expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a session store for the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save stores the user's current refresh token with the given lifetime.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, refreshToken string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(userID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the user's current refresh token.
func (s *RedisStore) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return val, nil
}

// Delete removes the user's session. Deleting an absent session is a no-op.
func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}
