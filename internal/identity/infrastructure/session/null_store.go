package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NullStore is the session store used when Redis is unavailable in
// development. Logins still work; refresh always reports no session.
type NullStore struct{}

// NewNullStore creates a store that never persists sessions.
func NewNullStore() *NullStore {
	return &NullStore{}
}

func (s *NullStore) Save(context.Context, uuid.UUID, string, time.Duration) error {
	return nil
}

func (s *NullStore) Get(context.Context, uuid.UUID) (string, error) {
	return "", ErrSessionNotFound
}

func (s *NullStore) Delete(context.Context, uuid.UUID) error {
	return nil
}
