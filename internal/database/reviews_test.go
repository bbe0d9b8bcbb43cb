package database

import (
	"context"
	"testing"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReview(booking *models.Booking, rating float64) *models.Review {
	return &models.Review{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Rating:     rating,
		Comment:    "good work",
	}
}

func TestCreateReviewWithRating_UpdatesAggregate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := createTestProvider(t, db, []string{"plumbing"})
	booking := createTestBooking(t, db, provider.ID)

	require.NoError(t, db.CreateReviewWithRating(ctx, newTestReview(booking, 4)))

	got, err := db.GetProvider(ctx, provider.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.Rating, 0.0001)
	assert.Equal(t, int64(1), got.RatingCount)
}

func TestCreateReviewWithRating_DuplicateBookingLeavesAggregateAlone(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := createTestProvider(t, db, []string{"plumbing"})
	booking := createTestBooking(t, db, provider.ID)

	require.NoError(t, db.CreateReviewWithRating(ctx, newTestReview(booking, 4)))

	err := db.CreateReviewWithRating(ctx, newTestReview(booking, 1))
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := db.GetProvider(ctx, provider.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.Rating, 0.0001)
	assert.Equal(t, int64(1), got.RatingCount)
}

func TestCreateReviewWithRating_UnknownProviderRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := createTestProvider(t, db, []string{"plumbing"})
	booking := createTestBooking(t, db, provider.ID)

	review := newTestReview(booking, 5)
	review.ProviderID = uuid.NewString()
	err := db.CreateReviewWithRating(ctx, review)
	assert.ErrorIs(t, err, ErrNotFound)

	// The rolled-back insert leaves the booking reviewable.
	_, err = db.GetReviewByBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReviewByBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := createTestProvider(t, db, []string{"plumbing"})
	booking := createTestBooking(t, db, provider.ID)

	review := newTestReview(booking, 3)
	require.NoError(t, db.CreateReviewWithRating(ctx, review))

	got, err := db.GetReviewByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, got.ID)
	assert.Equal(t, "good work", got.Comment)
}

func TestListProviderReviews(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	provider := createTestProvider(t, db, []string{"plumbing"})
	other := createTestProvider(t, db, []string{"cleaning"})

	for i := 0; i < 3; i++ {
		booking := createTestBooking(t, db, provider.ID)
		require.NoError(t, db.CreateReviewWithRating(ctx, newTestReview(booking, 5)))
	}
	otherBooking := createTestBooking(t, db, other.ID)
	require.NoError(t, db.CreateReviewWithRating(ctx, newTestReview(otherBooking, 2)))

	reviews, err := db.ListProviderReviews(ctx, provider.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}
