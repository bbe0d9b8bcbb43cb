package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/database"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProviderService manages provider profiles and runs the search
// pipeline: attribute filter first, then geodistance ranking, then the
// optional price/rating post-processing.
type ProviderService struct {
	repo            domain.Repository
	ranker          domain.GeoRanker
	defaultRadiusKm float64
	maxSearchLimit  int
	logger          *zerolog.Logger
}

func NewProviderService(repo domain.Repository, ranker domain.GeoRanker, defaultRadiusKm float64, maxSearchLimit int, logger *zerolog.Logger) *ProviderService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = models.DefaultSearchRadiusKm
	}
	if maxSearchLimit <= 0 {
		maxSearchLimit = models.MaxSearchLimit
	}
	return &ProviderService{
		repo:            repo,
		ranker:          ranker,
		defaultRadiusKm: defaultRadiusKm,
		maxSearchLimit:  maxSearchLimit,
		logger:          logger,
	}
}

// CreateProfileRequest is the provider onboarding input.
type CreateProfileRequest struct {
	Services        []string
	Pricing         float64
	ExperienceYears int64
	ServiceRadiusKm float64
	Documents       []string
}

// CreateProfile opens the 1:1 provider extension of a user holding the
// provider role. A second profile for the same user is a conflict.
func (s *ProviderService) CreateProfile(ctx context.Context, user *models.User, req CreateProfileRequest) (*models.Provider, error) {
	if user.Role != models.RoleProvider {
		return nil, domain.Forbidden("only provider accounts can create provider profiles")
	}
	if len(req.Services) == 0 {
		return nil, domain.InvalidInput("at least one service is required")
	}

	if _, err := s.repo.GetProviderByUser(ctx, user.ID); err == nil {
		return nil, domain.Conflict("provider profile already exists")
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	radius := req.ServiceRadiusKm
	if radius <= 0 {
		radius = 10
	}

	provider := &models.Provider{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Services:        req.Services,
		Pricing:         req.Pricing,
		Availability:    true,
		Documents:       req.Documents,
		ExperienceYears: req.ExperienceYears,
		ServiceRadiusKm: radius,
		Name:            user.Name,
		Location:        user.Location,
	}

	if err := s.repo.CreateProvider(ctx, provider); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, domain.Conflict("provider profile already exists")
		}
		return nil, err
	}
	return provider, nil
}

func (s *ProviderService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	provider, err := s.repo.GetProvider(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("provider not found")
	}
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *ProviderService) GetProviderByUser(ctx context.Context, userID string) (*models.Provider, error) {
	provider, err := s.repo.GetProviderByUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("provider profile not found")
	}
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// UpdateProfileRequest updates mutable profile fields. Nil fields are
// left untouched. Rating fields are not here on purpose.
type UpdateProfileRequest struct {
	Services        []string
	Pricing         *float64
	Availability    *bool
	ExperienceYears *int64
	ServiceRadiusKm *float64
}

func (s *ProviderService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.Provider, error) {
	provider, err := s.GetProviderByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(req.Services) > 0 {
		provider.Services = req.Services
	}
	if req.Pricing != nil {
		provider.Pricing = *req.Pricing
	}
	if req.Availability != nil {
		provider.Availability = *req.Availability
	}
	if req.ExperienceYears != nil {
		provider.ExperienceYears = *req.ExperienceYears
	}
	if req.ServiceRadiusKm != nil {
		provider.ServiceRadiusKm = *req.ServiceRadiusKm
	}

	if err := s.repo.UpdateProvider(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// AddPortfolio appends document URLs to the provider's portfolio,
// keeping what is already there.
func (s *ProviderService) AddPortfolio(ctx context.Context, userID string, urls []string) (*models.Provider, error) {
	if len(urls) == 0 {
		return nil, domain.InvalidInput("no portfolio urls supplied")
	}

	provider, err := s.GetProviderByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	provider.Documents = append(provider.Documents, urls...)
	if err := s.repo.UpdateProvider(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// Approve is the admin gate: unapproved providers are invisible to
// search and cannot take bookings.
func (s *ProviderService) Approve(ctx context.Context, providerID string) error {
	err := s.repo.ApproveProvider(ctx, providerID)
	if errors.Is(err, database.ErrNotFound) {
		return domain.NotFound("provider not found")
	}
	return err
}

// Search runs the plain attribute filter.
func (s *ProviderService) Search(ctx context.Context, criteria models.SearchCriteria) ([]*models.Provider, error) {
	criteria = s.clampCriteria(criteria)
	return s.repo.SearchProviders(ctx, criteria)
}

// SearchRanked composes the attribute filter with geodistance ranking
// and the optional maxPrice filter and re-sort. Distance sorting is
// only meaningful when a location was supplied and resolvable.
func (s *ProviderService) SearchRanked(ctx context.Context, req models.RankedSearchRequest) ([]*models.Provider, error) {
	criteria := s.clampCriteria(req.SearchCriteria)
	providers, err := s.repo.SearchProviders(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if req.Location != "" {
		maxDistance := req.MaxDistanceKm
		if maxDistance <= 0 {
			maxDistance = s.defaultRadiusKm
		}
		providers = s.ranker.RankedSearch(ctx, req.Location, providers, maxDistance)
	}

	if req.MaxPrice > 0 {
		filtered := providers[:0]
		for _, p := range providers {
			if p.Pricing <= req.MaxPrice {
				filtered = append(filtered, p)
			}
		}
		providers = filtered
	}

	switch req.SortBy {
	case models.SortByRating:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].Rating > providers[j].Rating
		})
	case models.SortByPrice:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].Pricing < providers[j].Pricing
		})
	case models.SortByDistance:
		if req.Location != "" {
			sort.SliceStable(providers, func(i, j int) bool {
				return distanceOf(providers[i]) < distanceOf(providers[j])
			})
		}
	}

	return providers, nil
}

func (s *ProviderService) ListProviders(ctx context.Context, skip, limit int) ([]*models.Provider, error) {
	if limit <= 0 || limit > s.maxSearchLimit {
		limit = s.maxSearchLimit
	}
	return s.repo.ListProviders(ctx, skip, limit)
}

func (s *ProviderService) clampCriteria(criteria models.SearchCriteria) models.SearchCriteria {
	if criteria.Limit <= 0 {
		criteria.Limit = models.DefaultSearchLimit
	}
	if criteria.Limit > s.maxSearchLimit {
		criteria.Limit = s.maxSearchLimit
	}
	if criteria.Skip < 0 {
		criteria.Skip = 0
	}
	return criteria
}

func distanceOf(p *models.Provider) float64 {
	if p.DistanceKm == nil {
		return math.Inf(1)
	}
	return *p.DistanceKm
}
