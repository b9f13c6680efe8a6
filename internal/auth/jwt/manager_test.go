package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secret string, accessExpiry time.Duration) *Manager {
	return NewManager(secret, "teamsite-test", accessExpiry, 7*24*time.Hour)
}

func TestManager_GenerateTokenPair(t *testing.T) {
	manager := newTestManager("test-secret", 15*time.Minute)

	pair, err := manager.GenerateTokenPair("user-1", "user@example.com", "admin")
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)
}

func TestManager_ValidateToken(t *testing.T) {
	manager := newTestManager("test-secret", 15*time.Minute)

	pair, err := manager.GenerateTokenPair("user-1", "user@example.com", "admin")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(pair.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "teamsite-test", claims.Issuer)
}

func TestManager_ValidateToken_Invalid(t *testing.T) {
	manager := newTestManager("test-secret", 15*time.Minute)

	_, err := manager.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ValidateToken_Expired(t *testing.T) {
	manager := newTestManager("test-secret", 1*time.Millisecond)

	pair, err := manager.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = manager.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_RefreshAccessToken(t *testing.T) {
	manager := newTestManager("test-secret", 15*time.Minute)

	pair, err := manager.GenerateTokenPair("user-1", "user@example.com", "admin")
	require.NoError(t, err)

	newAccess, err := manager.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)

	claims, err := manager.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestManager_RefreshAccessToken_Invalid(t *testing.T) {
	manager := newTestManager("test-secret", 15*time.Minute)

	_, err := manager.RefreshAccessToken("invalid-refresh-token")
	assert.Error(t, err)
}

func TestManager_DifferentSecrets(t *testing.T) {
	manager1 := newTestManager("secret-1", 15*time.Minute)
	manager2 := newTestManager("secret-2", 15*time.Minute)

	pair, err := manager1.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	_, err = manager2.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
