package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, zerolog.Nop())

	token, err := svc.GenerateToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute, zerolog.Nop())

	token, err := svc.GenerateToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_WrongSecret(t *testing.T) {
	issuer := NewAuthService("issuer-secret", time.Hour, zerolog.Nop())
	verifier := NewAuthService("other-secret", time.Hour, zerolog.Nop())

	token, err := issuer.GenerateToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_GarbageToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, zerolog.Nop())

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_TamperedToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, zerolog.Nop())

	token, err := svc.GenerateToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateToken(tampered)
	assert.Error(t, err)
}
