package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/database"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(repo *mockRepo) *BookingService {
	logger := zerolog.Nop()
	return NewBookingService(repo, nil, 2, &logger)
}

func approvedProvider() *models.Provider {
	return &models.Provider{
		ID:       "prov-1",
		UserID:   "user-prov",
		Services: []string{"plumbing"},
		Approved: true,
	}
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:          "book-1",
		CustomerID:  "cust-1",
		ProviderID:  "prov-1",
		ServiceType: "plumbing",
		Status:      models.StatusPending,
		DateTime:    time.Now().Add(72 * time.Hour),
		Version:     1,
	}
}

func TestBookingCreate_Success(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetProvider", ctx, "prov-1").Return(approvedProvider(), nil)
	repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := svc.Create(ctx, "cust-1", CreateBookingRequest{
		ProviderID:     "prov-1",
		ServiceType:    "plumbing",
		DateTime:       time.Now().Add(48 * time.Hour),
		EstimatedPrice: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.NotEmpty(t, booking.ID)
	repo.AssertExpectations(t)
}

func TestBookingCreate_ProviderNotApproved(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	provider := approvedProvider()
	provider.Approved = false
	repo.On("GetProvider", ctx, "prov-1").Return(provider, nil)

	_, err := svc.Create(ctx, "cust-1", CreateBookingRequest{
		ProviderID:  "prov-1",
		ServiceType: "plumbing",
		DateTime:    time.Now().Add(48 * time.Hour),
	})
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestBookingCreate_ServiceNotOffered(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetProvider", ctx, "prov-1").Return(approvedProvider(), nil)

	_, err := svc.Create(ctx, "cust-1", CreateBookingRequest{
		ProviderID:  "prov-1",
		ServiceType: "gardening",
		DateTime:    time.Now().Add(48 * time.Hour),
	})
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestBookingCreate_ProviderNotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetProvider", ctx, "missing").Return(nil, database.ErrNotFound)

	_, err := svc.Create(ctx, "cust-1", CreateBookingRequest{
		ProviderID:  "missing",
		ServiceType: "plumbing",
		DateTime:    time.Now().Add(48 * time.Hour),
	})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestBookingRespond_Accept(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)
	repo.On("UpdateBookingStatusWithVersion", ctx, "book-1", int64(1), models.StatusAccepted).Return(nil)

	booking, err := svc.Respond(ctx, "book-1", "prov-1", models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, booking.Status)
	assert.Equal(t, int64(2), booking.Version)
}

func TestBookingRespond_InvalidDecision(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)

	_, err := svc.Respond(context.Background(), "book-1", "prov-1", "maybe")
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
	repo.AssertNotCalled(t, "GetBooking")
}

func TestBookingRespond_WrongProvider(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)

	_, err := svc.Respond(ctx, "book-1", "prov-other", models.StatusAccepted)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestBookingRespond_NotPending(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{
		models.StatusAccepted, models.StatusDeclined, models.StatusCompleted,
		models.StatusCanceledByCustomer, models.StatusCanceledByProvider,
	} {
		booking := pendingBooking()
		booking.Status = status
		repo := new(mockRepo)
		repo.On("GetBooking", ctx, "book-1").Return(booking, nil)
		svc := newBookingService(repo)

		_, err := svc.Respond(ctx, "book-1", "prov-1", models.StatusDeclined)
		assert.True(t, domain.IsKind(err, domain.KindInvalidTransition), "status %s", status)
	}
}

func TestBookingRespond_VersionRace(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)
	repo.On("UpdateBookingStatusWithVersion", ctx, "book-1", int64(1), models.StatusAccepted).
		Return(database.ErrConcurrentModification)

	_, err := svc.Respond(ctx, "book-1", "prov-1", models.StatusAccepted)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
}

func TestBookingCancel_ByCustomer(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)
	repo.On("CancelBookingWithVersion", ctx, "book-1", int64(1),
		models.StatusCanceledByCustomer, "changed plans", models.RoleCustomer, mock.AnythingOfType("time.Time")).
		Return(nil)

	booking, err := svc.Cancel(ctx, "book-1", "cust-1", "changed plans", models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceledByCustomer, booking.Status)
	assert.Equal(t, models.RoleCustomer, booking.CanceledBy)
	assert.NotNil(t, booking.CanceledAt)
}

func TestBookingCancel_ByProvider(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	booking := pendingBooking()
	booking.Status = models.StatusAccepted
	repo.On("GetBooking", ctx, "book-1").Return(booking, nil)
	repo.On("GetProviderByUser", ctx, "user-prov").Return(approvedProvider(), nil)
	repo.On("CancelBookingWithVersion", ctx, "book-1", int64(1),
		models.StatusCanceledByProvider, "", models.RoleProvider, mock.AnythingOfType("time.Time")).
		Return(nil)

	got, err := svc.Cancel(ctx, "book-1", "user-prov", "", models.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceledByProvider, got.Status)
}

func TestBookingCancel_TerminalStatuses(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{
		models.StatusCompleted, models.StatusDeclined,
		models.StatusCanceledByCustomer, models.StatusCanceledByProvider,
	} {
		booking := pendingBooking()
		booking.Status = status
		repo := new(mockRepo)
		repo.On("GetBooking", ctx, "book-1").Return(booking, nil)
		svc := newBookingService(repo)

		_, err := svc.Cancel(ctx, "book-1", "cust-1", "", models.RoleCustomer)
		assert.True(t, domain.IsKind(err, domain.KindInvalidTransition), "status %s", status)
	}
}

func TestBookingCancel_WrongOwner(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)

	_, err := svc.Cancel(ctx, "book-1", "someone-else", "", models.RoleCustomer)
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestBookingReschedule_Success(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	booking := pendingBooking()
	booking.Status = models.StatusAccepted
	booking.SpecialInstructions = "ring the bell"
	oldSlot := booking.DateTime
	repo.On("GetBooking", ctx, "book-1").Return(booking, nil)

	newSlot := time.Now().Add(120 * time.Hour)
	repo.On("RescheduleBookingWithVersion", ctx, "book-1", int64(1), newSlot, mock.AnythingOfType("string")).Return(nil)

	got, err := svc.Reschedule(ctx, "book-1", "cust-1", newSlot, "conflict at work")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.True(t, strings.HasPrefix(got.SpecialInstructions, "ring the bell\n"))
	assert.Contains(t, got.SpecialInstructions, "Rescheduled from "+oldSlot.Format(time.RFC1123))
	assert.Contains(t, got.SpecialInstructions, "Reason: conflict at work")
}

func TestBookingReschedule_PastDate(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)

	_, err := svc.Reschedule(ctx, "book-1", "cust-1", time.Now().Add(-time.Hour), "")
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestBookingReschedule_NotOwner(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)

	_, err := svc.Reschedule(ctx, "book-1", "intruder", time.Now().Add(time.Hour), "")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestBookingComplete_DefaultsToEstimate(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	booking := pendingBooking()
	booking.Status = models.StatusAccepted
	booking.EstimatedPrice = 500
	repo.On("GetBooking", ctx, "book-1").Return(booking, nil)
	repo.On("GetProviderByUser", ctx, "user-prov").Return(approvedProvider(), nil)
	repo.On("CompleteBookingWithVersion", ctx, "book-1", int64(1), float64(500)).Return(nil)

	got, err := svc.Complete(ctx, "book-1", "user-prov", 0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, float64(500), got.FinalPrice)
}

func TestBookingComplete_OnlyAccepted(t *testing.T) {
	repo := new(mockRepo)
	svc := newBookingService(repo)
	ctx := context.Background()

	repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)
	repo.On("GetProviderByUser", ctx, "user-prov").Return(approvedProvider(), nil)

	_, err := svc.Complete(ctx, "book-1", "user-prov", 600)
	assert.True(t, domain.IsKind(err, domain.KindInvalidTransition))
}

func TestCanReschedule_BufferWindow(t *testing.T) {
	svc := newBookingService(new(mockRepo))

	soon := pendingBooking()
	soon.DateTime = time.Now().Add(time.Hour) // inside the 2h buffer
	assert.False(t, svc.CanReschedule(soon))

	later := pendingBooking()
	later.DateTime = time.Now().Add(3 * time.Hour)
	assert.True(t, svc.CanReschedule(later))

	done := pendingBooking()
	done.Status = models.StatusCompleted
	done.DateTime = time.Now().Add(100 * time.Hour)
	assert.False(t, svc.CanReschedule(done))
}

func TestGetBookingFor_AccessMatrix(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		actorID string
		role    string
		wantErr bool
	}{
		{"owning customer", "cust-1", models.RoleCustomer, false},
		{"other customer", "cust-2", models.RoleCustomer, true},
		{"admin", "any-admin", models.RoleAdmin, false},
		{"assigned provider", "user-prov", models.RoleProvider, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("GetBooking", ctx, "book-1").Return(pendingBooking(), nil)
			repo.On("GetProviderByUser", ctx, "user-prov").Return(approvedProvider(), nil)
			svc := newBookingService(repo)

			_, err := svc.GetBookingFor(ctx, "book-1", tc.actorID, tc.role)
			if tc.wantErr {
				assert.True(t, domain.IsKind(err, domain.KindForbidden))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
