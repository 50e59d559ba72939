package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisStore(t *testing.T) (*Redis, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, instrument.NewNoop()), client
}

func TestRedis_EmailOTPLifecycle(t *testing.T) {
	store, client := newRedisStore(t)
	ctx := context.Background()

	ttl, err := store.TTLEmailOTP(ctx, 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Duration(0))

	require.NoError(t, store.SetEmailOTP(ctx, 1, "abc123", 300*time.Second))

	raw, err := client.Get(ctx, "twoFactorAuthentication:emailOtpCode:1").Result()
	require.NoError(t, err)
	assert.Equal(t, "abc123", raw)

	ttl, err = store.TTLEmailOTP(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 300, ttl.Seconds(), 2)

	ok, err := store.ConsumeEmailOTP(ctx, 1, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.ConsumeEmailOTP(ctx, 1, "abc123")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := client.Exists(ctx, "twoFactorAuthentication:emailOtpCode:1").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedis_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetEmailOTP(ctx, 2, "race", time.Minute))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := store.ConsumeEmailOTP(ctx, 2, "race"); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
