package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(context.Background(), &Config{
		Address:  mr.Addr(),
		PoolSize: 10,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewClient(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("defaults pool size", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		config := &Config{Address: mr.Addr()}
		client, err := NewClient(context.Background(), config)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, 10, config.PoolSize)
		assert.NotNil(t, client.Redis())
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = NewClient(context.Background(), &Config{Address: addr})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})
}

func TestClient_Health(t *testing.T) {
	client, mr := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestClient_CheckRateLimit(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, count, err := client.CheckRateLimit(ctx, "rl:test", 3, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i)
		assert.Equal(t, i, count)
	}

	allowed, count, err := client.CheckRateLimit(ctx, "rl:test", 3, time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 3, count)

	// rejected requests are not recorded
	_, count, err = client.CheckRateLimit(ctx, "rl:test", 3, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	allowed, _, err = client.CheckRateLimit(ctx, "rl:other", 3, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestClient_CheckRateLimit_Concurrent(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := client.CheckRateLimit(ctx, "rl:concurrent", 100, time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := client.Redis().ZCard(ctx, "rl:concurrent").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(20), count)
}

func TestClient_CheckRateLimit_WindowSlides(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	allowed, _, err := client.CheckRateLimit(ctx, "rl:slide", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = client.CheckRateLimit(ctx, "rl:slide", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(80 * time.Millisecond)

	allowed, count, err := client.CheckRateLimit(ctx, "rl:slide", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, count)
}
