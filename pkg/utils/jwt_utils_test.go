package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 15*time.Minute)

	token, err := issuer.GenerateAccessToken(3, 1, "a@example.com")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, int64(1), claims.RoleID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, 15*time.Minute, issuer.TTL())
}

func TestValidateTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)

	expired := NewTokenIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, err := expired.GenerateAccessToken(3, 1, "a@example.com")
	require.NoError(t, err)

	forged, err := NewTokenIssuer("other", time.Minute).GenerateAccessToken(3, 1, "a@example.com")
	require.NoError(t, err)

	for name, token := range map[string]string{"expired": stale, "wrong key": forged, "garbage": "abc.def.ghi"} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenIssuerDefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewTokenIssuer("secret", 0).TTL())
}
