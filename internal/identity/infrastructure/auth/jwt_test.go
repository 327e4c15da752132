package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() TokenConfig {
	cfg := DefaultTokenConfig("test-secret")
	return cfg
}

func TestTokenManager_AccessRoundtrip(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	userID := uuid.New()

	raw, err := manager.IssueAccessToken(userID, "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := manager.VerifyAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "mastertasker", claims.Issuer)
}

func TestTokenManager_RefreshRoundtrip(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	userID := uuid.New()

	raw, err := manager.IssueRefreshToken(userID, "a@b.com")
	require.NoError(t, err)

	claims, err := manager.VerifyRefreshToken(raw)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
}

func TestTokenManager_TypeMismatch(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	userID := uuid.New()

	access, err := manager.IssueAccessToken(userID, "a@b.com")
	require.NoError(t, err)
	refresh, err := manager.IssueRefreshToken(userID, "a@b.com")
	require.NoError(t, err)

	_, err = manager.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager(testTokenConfig())
	verifier := NewTokenManager(DefaultTokenConfig("other-secret"))

	raw, err := issuer.IssueAccessToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	cfg := testTokenConfig()
	cfg.AccessTTL = -time.Minute
	manager := NewTokenManager(cfg)

	raw, err := manager.IssueAccessToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	_, err := manager.VerifyAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_TTLAccessors(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	assert.Equal(t, int64(900), manager.AccessTTLSeconds())
	assert.Equal(t, 7*24*time.Hour, manager.RefreshTTL())
}
