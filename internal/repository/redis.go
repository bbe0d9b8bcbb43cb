package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/config"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisGeoCache stores geocoded coordinates keyed by normalized
// address text. Entries are advisory; a miss just means one more
// external lookup.
type RedisGeoCache struct {
	client *redis.Client
}

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisGeoCache(client *redis.Client) *RedisGeoCache {
	return &RedisGeoCache{client: client}
}

func geoKey(key string) string {
	return fmt.Sprintf("geocode:%s", key)
}

func (r *RedisGeoCache) Get(ctx context.Context, key string) (*models.Coordinates, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, geoKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinates from redis: %w", err)
	}

	var coords models.Coordinates
	if err := json.Unmarshal([]byte(val), &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}

	return &coords, nil
}

func (r *RedisGeoCache) Set(ctx context.Context, key string, coords *models.Coordinates, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("failed to marshal coordinates: %w", err)
	}

	if err := r.client.Set(ctx, geoKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set coordinates in redis: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
