package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargohub/authcore/pkg/ratelimiter"
)

func TestRedisStore(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("test:"), ratelimiter.WithRedisClock(clock.Now))

	exerciseStore(t, store, clock)

	assert.True(t, srv.Exists("test:198.51.100.1"))
	assert.Positive(t, srv.TTL("test:198.51.100.1"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	srv.Close()

	store := ratelimiter.NewRedisStore(client)
	_, _, err := store.ConsumeTokens(context.Background(), "k", 1, testConfig)
	require.Error(t, err)
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}
