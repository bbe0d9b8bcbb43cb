package service

import (
	"context"
	"errors"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/database"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/events"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/metrics"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReviewService is the review intake: it checks booking eligibility,
// persists the review and folds the rating into the provider's running
// mean, the last two inside one store transaction.
type ReviewService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReviewService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// SubmitReviewRequest is the customer's review input.
type SubmitReviewRequest struct {
	BookingID string
	Rating    float64
	Comment   string
	Images    []string
}

// Submit accepts one review per completed booking owned by the
// customer. The provider id is inherited from the booking.
func (s *ReviewService) Submit(ctx context.Context, customerID string, req SubmitReviewRequest) (*models.Review, error) {
	if req.BookingID == "" {
		return nil, domain.InvalidInput("booking_id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.InvalidInput("rating must be between 1 and 5")
	}

	booking, err := s.repo.GetBooking(ctx, req.BookingID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.InvalidInput("invalid booking or booking not completed")
	}
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID || booking.Status != models.StatusCompleted {
		return nil, domain.InvalidInput("invalid booking or booking not completed")
	}

	review := &models.Review{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		CustomerID: customerID,
		ProviderID: booking.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Images:     req.Images,
	}

	// The unique booking_id constraint is the idempotency guard: a
	// concurrent duplicate submit loses inside the transaction, so the
	// rating fold runs at most once per booking.
	if err := s.repo.CreateReviewWithRating(ctx, review); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, domain.Conflict("review already exists for this booking")
		}
		return nil, err
	}

	metrics.IncReviewAccepted()
	s.publishEvent(review)
	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id string) (*models.Review, error) {
	review, err := s.repo.GetReview(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("review not found")
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListProviderReviews(ctx context.Context, providerID string) ([]*models.Review, error) {
	return s.repo.ListProviderReviews(ctx, providerID)
}

func (s *ReviewService) publishEvent(review *models.Review) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReviewEventPayload{
		ReviewID:   review.ID,
		BookingID:  review.BookingID,
		ProviderID: review.ProviderID,
		Rating:     review.Rating,
	}

	if err := s.eventBus.PublishJSON(events.EventReviewSubmitted, payload); err != nil {
		s.logger.Error().Err(err).Str("review_id", review.ID).Msg("publish event error")
	}
}
