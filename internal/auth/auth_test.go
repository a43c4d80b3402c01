package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinv4sionx/marketplace/server/internal/models"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))

	again, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.Issue("user-1", models.RoleSeller)
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.RoleSeller, claims.Role)
	assert.NotEmpty(t, claims.ID)

	other, err := m.Issue("user-1", models.RoleSeller)
	require.NoError(t, err)
	otherClaims, err := m.Parse(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.Issue("user-1", models.RoleBuyer)
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	_, err = m.Parse(parts[0] + "." + parts[1] + ".AAAA")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedisRevoker(client)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-2"))
}

func TestRedisRevoker_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedisRevoker(client)
	require.NoError(t, r.Ping(context.Background()))
	mr.Close()

	_, err := r.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
	assert.Error(t, r.Ping(context.Background()))
}

func TestMemoryRevoker(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "stale", now.Add(-time.Hour)))

	revoked, _ := m.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = m.IsRevoked(ctx, "stale")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = m.IsRevoked(ctx, "a")
	assert.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, "b", now.Add(time.Hour)))
	assert.Len(t, m.entries, 1, "expired entries are pruned on write")
}
