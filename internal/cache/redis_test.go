package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

func setupRedis(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	c, err := NewRedisCache(ctx, domain.CacheConfig{
		RedisURL:   fmt.Sprintf("redis://%s:%s/0", host, port.Port()),
		DefaultTTL: time.Minute,
		PoolSize:   5,
	}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	// Arrange
	c := setupRedis(t)
	ctx := context.Background()
	result := sampleResult()
	key := Key(result.CalculatorID, result.Inputs)

	// Act
	require.NoError(t, c.Set(ctx, key, result))
	got, ok := c.Get(ctx, key)

	// Assert
	require.True(t, ok)
	assert.Equal(t, result.Score, got.Score)
	assert.Equal(t, result.Interpretation, got.Interpretation)
	assert.True(t, result.Timestamp.Equal(got.Timestamp))
	assert.NoError(t, c.Ping(ctx))
}

func TestRedisCache_Invalidate(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	result := sampleResult()
	key := Key("qsofa", result.Inputs)
	other := Key("sofa", result.Inputs)
	require.NoError(t, c.Set(ctx, key, result))
	require.NoError(t, c.Set(ctx, other, result))

	require.NoError(t, c.Invalidate(ctx, "qsofa"))

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	_, ok = c.Get(ctx, other)
	assert.True(t, ok)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), domain.CacheConfig{RedisURL: "://nope"}, nil)

	assert.Error(t, err)
}
