package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCoords = &models.Coordinates{Latitude: 18.5204, Longitude: 73.8567}

func setupRedisCache(t *testing.T) (*miniredis.Miniredis, *RedisGeoCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisGeoCache(client)
}

func TestRedisGeoCache_SetGet(t *testing.T) {
	_, cache := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pune", testCoords, time.Hour))

	got, err := cache.Get(ctx, "pune")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testCoords.Latitude, got.Latitude)
	assert.Equal(t, testCoords.Longitude, got.Longitude)
}

func TestRedisGeoCache_MissIsNilNil(t *testing.T) {
	_, cache := setupRedisCache(t)

	got, err := cache.Get(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisGeoCache_TTLExpiry(t *testing.T) {
	mr, cache := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pune", testCoords, time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "pune")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryGeoCache_Expiry(t *testing.T) {
	cache := NewMemoryGeoCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pune", testCoords, -time.Second))

	got, err := cache.Get(ctx, "pune")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryGeoCache_SetGet(t *testing.T) {
	cache := NewMemoryGeoCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pune", testCoords, time.Hour))

	got, err := cache.Get(ctx, "pune")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testCoords.Latitude, got.Latitude)
}

// failingGeoCache always errors, standing in for an unreachable Redis.
type failingGeoCache struct{}

func (failingGeoCache) Get(ctx context.Context, key string) (*models.Coordinates, error) {
	return nil, errors.New("connection refused")
}

func (failingGeoCache) Set(ctx context.Context, key string, coords *models.Coordinates, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestFailoverGeoCache_FallsBackOnPrimaryFailure(t *testing.T) {
	logger := zerolog.Nop()
	fallback := NewMemoryGeoCache()
	cache := NewFailoverGeoCache(failingGeoCache{}, fallback, &logger)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pune", testCoords, time.Hour))

	got, err := cache.Get(ctx, "pune")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testCoords.Latitude, got.Latitude)
}

func TestFailoverGeoCache_PrimaryHealthy(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemoryGeoCache()
	cache := NewFailoverGeoCache(primary, NewMemoryGeoCache(), &logger)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "pune", testCoords, time.Hour))

	// The write must land on the primary, not the fallback.
	got, err := primary.Get(ctx, "pune")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
