package tokencache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/token"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, &Config{}, logger.NewCtxZapLogger("tokencache-test")), srv
}

func userPayload(id uint) *token.AccessTokenPayload {
	return &token.AccessTokenPayload{
		AccessType: token.AccessTypeUser,
		AuthenticatedUser: &token.AuthenticatedUser{
			ID:          id,
			AccessLevel: "member",
		},
	}
}

func TestCache_PutGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "tok-1", userPayload(42), time.Hour))

	got, err := cache.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, token.AccessTypeUser, got.AccessType)
	assert.Equal(t, uint(42), got.AuthenticatedUser.ID)
	assert.Equal(t, "member", got.AuthenticatedUser.AccessLevel)

	// 用户令牌可重复命中
	_, err = cache.Get(ctx, "tok-1")
	assert.NoError(t, err)
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_PutRejectsNonPositiveTTL(t *testing.T) {
	cache, _ := newTestCache(t)

	err := cache.Put(context.Background(), "tok", userPayload(1), 0)
	assert.Error(t, err)
}

func TestCache_SystemTokenOneShot(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	payload := &token.AccessTokenPayload{AccessType: token.AccessTypeSystem}
	require.NoError(t, cache.Put(ctx, "sys-tok", payload, time.Hour))

	got, err := cache.Get(ctx, "sys-tok")
	require.NoError(t, err)
	assert.True(t, got.IsSystem())

	// 命中即清除
	_, err = cache.Get(ctx, "sys-tok")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_TTL(t *testing.T) {
	cache, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "tok", userPayload(1), time.Hour))

	ttl, err := cache.TTL(ctx, "tok")
	require.NoError(t, err)
	assert.InDelta(t, time.Hour, ttl, float64(time.Minute))

	srv.FastForward(2 * time.Hour)

	_, err = cache.TTL(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "tok", userPayload(1), time.Hour))
	require.NoError(t, cache.Delete(ctx, "tok"))

	_, err := cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_GenerateSystemToken(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	systemToken, err := cache.GenerateSystemToken(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Len(t, systemToken, 64) // 32 bytes hex-encoded

	got, err := cache.Get(ctx, systemToken)
	require.NoError(t, err)
	assert.True(t, got.IsSystem())

	// 一次性
	_, err = cache.Get(ctx, systemToken)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestCache_KeyPrefix(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, &Config{KeyPrefix: "custom:"}, logger.NewCtxZapLogger("tokencache-test"))
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "tok", userPayload(1), time.Hour))
	assert.True(t, srv.Exists("custom:tok"))
}
