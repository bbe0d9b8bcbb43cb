package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/rs/zerolog"
)

// FailoverGeoCache routes to a primary cache and falls back to a
// secondary when the primary errors. An outage degrades searches to
// cache misses, never to wrong coordinates.
type FailoverGeoCache struct {
	primary   domain.GeoCache
	fallback  domain.GeoCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of last failed primary probe
}

const recoveryProbeInterval = time.Minute

func NewFailoverGeoCache(primary, fallback domain.GeoCache, logger *zerolog.Logger) *FailoverGeoCache {
	return &FailoverGeoCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverGeoCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("primary geo cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

func (c *FailoverGeoCache) shouldProbe() bool {
	return time.Since(time.Unix(0, c.lastCheck.Load())) > recoveryProbeInterval
}

func (c *FailoverGeoCache) Get(ctx context.Context, key string) (*models.Coordinates, error) {
	if !c.isDown.Load() {
		coords, err := c.primary.Get(ctx, key)
		if err == nil {
			return coords, nil
		}
		c.markDown(err)
	} else if c.shouldProbe() {
		coords, err := c.primary.Get(ctx, key)
		if err == nil {
			c.isDown.Store(false)
			return coords, nil
		}
		c.lastCheck.Store(time.Now().UnixNano())
	}

	return c.fallback.Get(ctx, key)
}

func (c *FailoverGeoCache) Set(ctx context.Context, key string, coords *models.Coordinates, ttl time.Duration) error {
	if !c.isDown.Load() {
		err := c.primary.Set(ctx, key, coords, ttl)
		if err == nil {
			return nil
		}
		c.markDown(err)
	}

	return c.fallback.Set(ctx, key, coords, ttl)
}
