package service

import (
	"context"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockRepo) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockRepo) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CreateProvider(ctx context.Context, provider *models.Provider) error {
	return m.Called(ctx, provider).Error(0)
}
func (m *mockRepo) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Provider), args.Error(1)
}
func (m *mockRepo) GetProviderByUser(ctx context.Context, userID string) (*models.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Provider), args.Error(1)
}
func (m *mockRepo) UpdateProvider(ctx context.Context, provider *models.Provider) error {
	return m.Called(ctx, provider).Error(0)
}
func (m *mockRepo) ApproveProvider(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) SearchProviders(ctx context.Context, criteria models.SearchCriteria) ([]*models.Provider, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Provider), args.Error(1)
}
func (m *mockRepo) ListProviders(ctx context.Context, skip, limit int) ([]*models.Provider, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Provider), args.Error(1)
}
func (m *mockRepo) ApplyRating(ctx context.Context, providerID string, rating float64) error {
	return m.Called(ctx, providerID, rating).Error(0)
}

func (m *mockRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}
func (m *mockRepo) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status string) error {
	return m.Called(ctx, id, fromVersion, status).Error(0)
}
func (m *mockRepo) CancelBookingWithVersion(ctx context.Context, id string, fromVersion int64, status, reason, canceledBy string, canceledAt time.Time) error {
	return m.Called(ctx, id, fromVersion, status, reason, canceledBy, canceledAt).Error(0)
}
func (m *mockRepo) RescheduleBookingWithVersion(ctx context.Context, id string, fromVersion int64, newDateTime time.Time, instructions string) error {
	return m.Called(ctx, id, fromVersion, newDateTime, instructions).Error(0)
}
func (m *mockRepo) CompleteBookingWithVersion(ctx context.Context, id string, fromVersion int64, finalPrice float64) error {
	return m.Called(ctx, id, fromVersion, finalPrice).Error(0)
}
func (m *mockRepo) ListCustomerBookings(ctx context.Context, customerID string) ([]*models.Booking, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) ListProviderBookings(ctx context.Context, providerID string) ([]*models.Booking, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) ListProviderBookingsByStatus(ctx context.Context, providerID, status string) ([]*models.Booking, error) {
	args := m.Called(ctx, providerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}
func (m *mockRepo) ListBookings(ctx context.Context, skip, limit int) ([]*models.Booking, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockRepo) CreateReviewWithRating(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}
func (m *mockRepo) GetReview(ctx context.Context, id string) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *mockRepo) GetReviewByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *mockRepo) ListProviderReviews(ctx context.Context, providerID string) ([]*models.Review, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

// mockRanker echoes the candidates it was given, recording the call.
type mockRanker struct {
	mock.Mock
}

func (m *mockRanker) RankedSearch(ctx context.Context, customerLocation string, candidates []*models.Provider, maxDistanceKm float64) []*models.Provider {
	args := m.Called(ctx, customerLocation, candidates, maxDistanceKm)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Provider)
}
