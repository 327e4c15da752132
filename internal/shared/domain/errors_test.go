package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		err := NewValidationError("invalid task", map[string]string{"title": "cannot be empty"})
		assert.Equal(t, KindValidation, err.Kind)
		assert.Equal(t, "cannot be empty", err.Fields["title"])
		assert.Equal(t, "validation: invalid task", err.Error())
	})

	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("task", "abc-123")
		assert.Equal(t, KindNotFound, err.Kind)
		assert.Equal(t, "not_found: task abc-123 not found", err.Error())
	})

	t.Run("authorization", func(t *testing.T) {
		err := NewAuthorizationError("not yours")
		assert.Equal(t, KindAuthorization, err.Kind)
	})

	t.Run("external service wraps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewExternalServiceError("model call failed", cause)
		assert.Equal(t, KindExternalService, err.Kind)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("persistence wraps cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewPersistenceError("save failed", cause)
		assert.Equal(t, KindPersistence, err.Kind)
		assert.ErrorIs(t, err, cause)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad", nil)))
	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("task", "x")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := NewNotFoundError("task", "x")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestErrorKindString(t *testing.T) {
	require.Equal(t, "validation", KindValidation.String())
	require.Equal(t, "not_found", KindNotFound.String())
	require.Equal(t, "authorization", KindAuthorization.String())
	require.Equal(t, "external_service", KindExternalService.String())
	require.Equal(t, "persistence", KindPersistence.String())
	require.Equal(t, "unknown", KindUnknown.String())
}
