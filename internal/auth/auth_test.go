package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockworkapp/clockwork-server/internal/auth"
	"github.com/clockworkapp/clockwork-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := auth.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := auth.VerifyPassword("not-a-hash", "password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// A second load returns the same key.
	again, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestTokenRoundTrip(t *testing.T) {
	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	user := &domain.User{ID: "usr-1", Email: "test@example.com"}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "usr-1", claims.Subject)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := auth.NewTokenService(key, -time.Minute)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "usr-1", Email: "t@e.com"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessTokenRejectsWrongKey(t *testing.T) {
	keyA, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	keyB, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svcA, err := auth.NewTokenService(keyA, time.Hour)
	require.NoError(t, err)
	svcB, err := auth.NewTokenService(keyB, time.Hour)
	require.NoError(t, err)

	token, err := svcA.GenerateAccessToken(&domain.User{ID: "usr-1", Email: "t@e.com"})
	require.NoError(t, err)

	_, err = svcB.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsShortKey(t *testing.T) {
	_, err := auth.NewTokenService([]byte("short"), time.Hour)
	assert.Error(t, err)
}
