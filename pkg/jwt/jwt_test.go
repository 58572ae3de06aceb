package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("secret-de-test", 15*time.Minute)

	token, err := manager.GenerateAccessToken(42, "alice@test.fr", "manager")
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@test.fr", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "BoutiquePro", claims.Issuer)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret-de-test", -time.Minute)

	token, err := manager.GenerateAccessToken(1, "bob@test.fr", "user")
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-de-test", 15*time.Minute)
	other := NewJWTManager("autre-secret", 15*time.Minute)

	token, err := manager.GenerateAccessToken(1, "bob@test.fr", "user")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	manager := NewJWTManager("secret-de-test", 15*time.Minute)

	_, err := manager.VerifyAccessToken("pas.un.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
