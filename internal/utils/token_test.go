package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	at, err := NewAccessToken(secret, 7, "owner", 15)
	assert.NoError(t, err)
	assert.NotEmpty(t, at.Token)

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if assert.True(t, ok) {
		assert.Equal(t, float64(7), claims["sub"])
		assert.Equal(t, "owner", claims["role"])
	}

	// A wrong secret must not verify.
	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte("other"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	assert.NoError(t, err)
	assert.Len(t, rt.Raw, 96)

	// Hashing is deterministic and never echoes the raw token.
	h := HashRefreshRaw(rt.Raw)
	assert.Equal(t, h, HashRefreshRaw(rt.Raw))
	assert.NotEqual(t, rt.Raw, h)
	assert.Len(t, h, 64)

	other, err := NewRefreshToken(7)
	assert.NoError(t, err)
	assert.NotEqual(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(other.Raw))
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery", 4)
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}
