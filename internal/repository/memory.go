package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

type memoryGeoEntry struct {
	coords    models.Coordinates
	expiresAt time.Time
}

// MemoryGeoCache is the in-process fallback cache used in tests and
// when Redis is unavailable.
type MemoryGeoCache struct {
	entries sync.Map
}

func NewMemoryGeoCache() *MemoryGeoCache {
	return &MemoryGeoCache{}
}

func (c *MemoryGeoCache) Get(ctx context.Context, key string) (*models.Coordinates, error) {
	val, ok := c.entries.Load(key)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryGeoEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(key)
		return nil, nil
	}
	coords := entry.coords
	return &coords, nil
}

func (c *MemoryGeoCache) Set(ctx context.Context, key string, coords *models.Coordinates, ttl time.Duration) error {
	if coords == nil {
		return nil
	}
	c.entries.Store(key, memoryGeoEntry{coords: *coords, expiresAt: time.Now().Add(ttl)})
	return nil
}
