package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/database"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/events"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/metrics"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService drives a booking through its lifecycle: creation,
// provider response, cancellation, reschedule and completion. All
// transitions are guarded by actor ownership and current status; the
// store's version check makes racing transitions resolve to exactly
// one winner.
type BookingService struct {
	repo             domain.Repository
	eventBus         domain.EventPublisher
	rescheduleBuffer time.Duration
	logger           *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, rescheduleBufferHours int, logger *zerolog.Logger) *BookingService {
	if rescheduleBufferHours <= 0 {
		rescheduleBufferHours = models.RescheduleBufferHours
	}
	return &BookingService{
		repo:             repo,
		eventBus:         eventBus,
		rescheduleBuffer: time.Duration(rescheduleBufferHours) * time.Hour,
		logger:           logger,
	}
}

// CreateBookingRequest carries the customer's booking input.
type CreateBookingRequest struct {
	ProviderID          string
	ServiceType         string
	DateTime            time.Time
	SpecialInstructions string
	EstimatedPrice      float64
}

// Create opens a booking in status pending. The target provider must
// exist, be approved and offer the requested service type.
func (s *BookingService) Create(ctx context.Context, customerID string, req CreateBookingRequest) (*models.Booking, error) {
	if req.ProviderID == "" || req.ServiceType == "" {
		return nil, domain.InvalidInput("provider_id and service_type are required")
	}
	if req.DateTime.IsZero() {
		return nil, domain.InvalidInput("date_time is required")
	}

	provider, err := s.repo.GetProvider(ctx, req.ProviderID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("provider not found")
	}
	if err != nil {
		return nil, err
	}
	if !provider.Approved {
		return nil, domain.InvalidInput("provider is not approved for bookings")
	}
	if !provider.OffersService(req.ServiceType) {
		return nil, domain.InvalidInput("provider does not offer service: %s", req.ServiceType)
	}

	booking := &models.Booking{
		ID:                  uuid.NewString(),
		CustomerID:          customerID,
		ProviderID:          req.ProviderID,
		ServiceType:         req.ServiceType,
		Status:              models.StatusPending,
		DateTime:            req.DateTime,
		SpecialInstructions: req.SpecialInstructions,
		EstimatedPrice:      req.EstimatedPrice,
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(models.StatusPending)
	s.publishEvent(events.EventBookingCreated, booking, "", "")
	return booking, nil
}

// Respond lets the assigned provider accept or decline a pending
// booking.
func (s *BookingService) Respond(ctx context.Context, bookingID, actingProviderID, decision string) (*models.Booking, error) {
	if decision != models.StatusAccepted && decision != models.StatusDeclined {
		return nil, domain.InvalidTransition("invalid decision: only 'accepted' or 'declined' allowed")
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ProviderID != actingProviderID {
		return nil, domain.Forbidden("access denied")
	}
	if booking.Status != models.StatusPending {
		return nil, domain.InvalidTransition("cannot respond to booking with status: %s", booking.Status)
	}

	if err := s.updateStatus(ctx, booking, decision); err != nil {
		return nil, err
	}

	eventType := events.EventBookingAccepted
	if decision == models.StatusDeclined {
		eventType = events.EventBookingDeclined
	}
	s.publishEvent(eventType, booking, "", models.RoleProvider)
	return booking, nil
}

// Cancel terminates a pending or accepted booking on behalf of either
// party. The counterparty gets a best-effort notification via the
// event bus; its failure never rolls back the cancellation.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actingUserID, reason, actingRole string) (*models.Booking, error) {
	if actingRole != models.RoleCustomer && actingRole != models.RoleProvider {
		return nil, domain.InvalidInput("invalid acting role: %s", actingRole)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, booking, actingUserID, actingRole); err != nil {
		return nil, err
	}

	if !s.CanCancel(booking) {
		return nil, domain.InvalidTransition("cannot cancel booking with status: %s", booking.Status)
	}

	status := models.StatusCanceledByCustomer
	if actingRole == models.RoleProvider {
		status = models.StatusCanceledByProvider
	}
	canceledAt := time.Now()

	err = s.repo.CancelBookingWithVersion(ctx, booking.ID, booking.Version, status, reason, actingRole, canceledAt)
	if errors.Is(err, database.ErrConcurrentModification) {
		return nil, domain.InvalidTransition("booking status already changed")
	}
	if err != nil {
		return nil, err
	}

	booking.Status = status
	booking.CancellationReason = reason
	booking.CanceledBy = actingRole
	booking.CanceledAt = &canceledAt
	booking.Version++

	metrics.IncBookingTransition(status)
	s.publishEvent(events.EventBookingCanceled, booking, reason, actingRole)
	return booking, nil
}

// Reschedule moves a pending or accepted booking to a future slot and
// resets it to pending; the provider has to accept again. The prior
// slot is recorded as an append-only note in the instructions.
func (s *BookingService) Reschedule(ctx context.Context, bookingID, customerID string, newDateTime time.Time, reason string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, domain.Forbidden("access denied")
	}
	if booking.Status != models.StatusPending && booking.Status != models.StatusAccepted {
		return nil, domain.InvalidTransition("cannot reschedule booking with status: %s", booking.Status)
	}
	if !newDateTime.After(time.Now()) {
		return nil, domain.InvalidInput("new booking date must be in the future")
	}

	note := fmt.Sprintf("Rescheduled from %s", booking.DateTime.Format(time.RFC1123))
	if reason != "" {
		note += fmt.Sprintf(" - Reason: %s", reason)
	}
	instructions := note
	if booking.SpecialInstructions != "" {
		instructions = booking.SpecialInstructions + "\n" + note
	}

	err = s.repo.RescheduleBookingWithVersion(ctx, booking.ID, booking.Version, newDateTime, instructions)
	if errors.Is(err, database.ErrConcurrentModification) {
		return nil, domain.InvalidTransition("booking status already changed")
	}
	if err != nil {
		return nil, err
	}

	booking.DateTime = newDateTime
	booking.SpecialInstructions = instructions
	booking.Status = models.StatusPending
	booking.Version++

	metrics.IncBookingTransition(models.StatusPending)
	s.publishEvent(events.EventBookingRescheduled, booking, reason, models.RoleCustomer)
	return booking, nil
}

// Complete marks an accepted booking as done, optionally recording the
// final price charged.
func (s *BookingService) Complete(ctx context.Context, bookingID, actingUserID string, finalPrice float64) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, booking, actingUserID, models.RoleProvider); err != nil {
		return nil, err
	}
	if booking.Status != models.StatusAccepted {
		return nil, domain.InvalidTransition("cannot complete booking with status: %s", booking.Status)
	}
	if finalPrice == 0 {
		finalPrice = booking.EstimatedPrice
	}

	err = s.repo.CompleteBookingWithVersion(ctx, booking.ID, booking.Version, finalPrice)
	if errors.Is(err, database.ErrConcurrentModification) {
		return nil, domain.InvalidTransition("booking status already changed")
	}
	if err != nil {
		return nil, err
	}

	booking.Status = models.StatusCompleted
	booking.FinalPrice = finalPrice
	booking.Version++

	metrics.IncBookingTransition(models.StatusCompleted)
	s.publishEvent(events.EventBookingCompleted, booking, "", models.RoleProvider)
	return booking, nil
}

// CanCancel reports whether the booking is still cancelable.
func (s *BookingService) CanCancel(booking *models.Booking) bool {
	return booking.Status == models.StatusPending || booking.Status == models.StatusAccepted
}

// CanReschedule reports whether the booking is still reschedulable:
// cancelable status plus more than the buffer left before the slot.
func (s *BookingService) CanReschedule(booking *models.Booking) bool {
	if !s.CanCancel(booking) {
		return false
	}
	return time.Until(booking.DateTime) > s.rescheduleBuffer
}

// GetBookingFor fetches a booking on behalf of an actor: customers see
// their own, providers the ones assigned to them, admins everything.
func (s *BookingService) GetBookingFor(ctx context.Context, bookingID, actorID, actorRole string) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch {
	case actorRole == models.RoleAdmin:
	case booking.CustomerID == actorID:
	case actorRole == models.RoleProvider:
		if err := s.checkOwnership(ctx, booking, actorID, models.RoleProvider); err != nil {
			return nil, err
		}
	default:
		return nil, domain.Forbidden("access denied")
	}

	return booking, nil
}

func (s *BookingService) ListCustomerBookings(ctx context.Context, customerID string) ([]*models.Booking, error) {
	return s.repo.ListCustomerBookings(ctx, customerID)
}

func (s *BookingService) ListProviderBookings(ctx context.Context, providerID string) ([]*models.Booking, error) {
	return s.repo.ListProviderBookings(ctx, providerID)
}

// ListPendingForProvider is the provider's incoming-request queue.
func (s *BookingService) ListPendingForProvider(ctx context.Context, providerID string) ([]*models.Booking, error) {
	return s.repo.ListProviderBookingsByStatus(ctx, providerID, models.StatusPending)
}

func (s *BookingService) ListBookings(ctx context.Context, skip, limit int) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, skip, limit)
}

func (s *BookingService) getBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// checkOwnership verifies the actor is the booking's party for the
// given role. Providers are resolved through their profile-by-user
// lookup.
func (s *BookingService) checkOwnership(ctx context.Context, booking *models.Booking, actingUserID, actingRole string) error {
	if actingRole == models.RoleCustomer {
		if booking.CustomerID != actingUserID {
			return domain.Forbidden("access denied")
		}
		return nil
	}

	provider, err := s.repo.GetProviderByUser(ctx, actingUserID)
	if errors.Is(err, database.ErrNotFound) {
		return domain.Forbidden("access denied")
	}
	if err != nil {
		return err
	}
	if booking.ProviderID != provider.ID {
		return domain.Forbidden("access denied")
	}
	return nil
}

func (s *BookingService) updateStatus(ctx context.Context, booking *models.Booking, status string) error {
	err := s.repo.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, status)
	if errors.Is(err, database.ErrConcurrentModification) {
		return domain.InvalidTransition("booking status already changed")
	}
	if err != nil {
		return err
	}
	booking.Status = status
	booking.Version++
	metrics.IncBookingTransition(status)
	return nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, reason, actedBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		ProviderID:  booking.ProviderID,
		ServiceType: booking.ServiceType,
		Status:      booking.Status,
		DateTime:    booking.DateTime,
		Reason:      reason,
		ActedBy:     actedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}
