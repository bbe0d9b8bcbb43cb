package geo

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/metrics"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/rs/zerolog"
)

const earthRadiusKm = 6371.0

// Resolver turns free-text locations into coordinates through a
// cache-backed geocoder and ranks provider candidates by great-circle
// distance.
type Resolver struct {
	geocoder domain.Geocoder
	cache    domain.GeoCache
	cacheTTL time.Duration
	logger   *zerolog.Logger
}

func NewResolver(geocoder domain.Geocoder, cache domain.GeoCache, cacheTTL time.Duration, logger *zerolog.Logger) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = time.Duration(models.GeocodeCacheTTL) * time.Second
	}
	return &Resolver{
		geocoder: geocoder,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// normalizeLocation builds the cache key: lowercased, single-spaced.
func normalizeLocation(location string) string {
	return strings.Join(strings.Fields(strings.ToLower(location)), " ")
}

// Resolve returns coordinates for the location, or nil when the
// location cannot be geocoded. Failure to geocode is not an error:
// callers skip distance filtering instead.
func (r *Resolver) Resolve(ctx context.Context, location string) *models.Coordinates {
	key := normalizeLocation(location)
	if key == "" {
		return nil
	}

	if r.cache != nil {
		coords, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn().Err(err).Str("location", key).Msg("geo cache read failed")
		}
		if coords != nil {
			metrics.IncGeocode("hit")
			return coords
		}
	}

	coords, err := r.geocoder.Geocode(ctx, location)
	if err != nil {
		metrics.IncGeocode("failure")
		r.logger.Warn().Err(err).Str("location", key).Msg("geocoding failed")
		return nil
	}
	metrics.IncGeocode("miss")

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, coords, r.cacheTTL); err != nil {
			r.logger.Warn().Err(err).Str("location", key).Msg("geo cache write failed")
		}
	}

	return coords
}

// DistanceKm computes the great-circle distance between two coordinate
// pairs, rounded to 2 decimal places. Returns +Inf when a pair is
// missing; it never fails.
func DistanceKm(a, b *models.Coordinates) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	distance := earthRadiusKm * c
	if math.IsNaN(distance) {
		return math.Inf(1)
	}
	return math.Round(distance*100) / 100
}

// RankedSearch retains candidates within maxDistanceKm of the customer
// location, attaches the computed distance and sorts ascending by it.
// When the customer location cannot be resolved the input is returned
// unfiltered and in order (graceful degradation, not an error).
func (r *Resolver) RankedSearch(ctx context.Context, customerLocation string, candidates []*models.Provider, maxDistanceKm float64) []*models.Provider {
	customerCoords := r.Resolve(ctx, customerLocation)
	if customerCoords == nil {
		r.logger.Warn().Str("location", customerLocation).Msg("could not geocode customer location")
		return candidates
	}

	var nearby []*models.Provider
	for _, candidate := range candidates {
		if candidate.Location == "" {
			continue
		}

		candidateCoords := r.Resolve(ctx, candidate.Location)
		if candidateCoords == nil {
			continue
		}

		distance := DistanceKm(customerCoords, candidateCoords)
		if distance <= maxDistanceKm {
			d := distance
			candidate.DistanceKm = &d
			nearby = append(nearby, candidate)
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return *nearby[i].DistanceKm < *nearby[j].DistanceKm
	})

	return nearby
}
