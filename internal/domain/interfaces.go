package domain

import (
	"context"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

// Repository is the persistent store for marketplace entities. All
// mutations are single-operation transactions; implementations must
// provide the optimistic version check on bookings and the atomic
// rating fold described on the individual methods.
type Repository interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Providers.
	CreateProvider(ctx context.Context, provider *models.Provider) error
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	GetProviderByUser(ctx context.Context, userID string) (*models.Provider, error)
	UpdateProvider(ctx context.Context, provider *models.Provider) error
	ApproveProvider(ctx context.Context, id string) error
	SearchProviders(ctx context.Context, criteria models.SearchCriteria) ([]*models.Provider, error)
	ListProviders(ctx context.Context, skip, limit int) ([]*models.Provider, error)
	// ApplyRating folds one new rating into the provider's running mean
	// and count in a single atomic statement (no lost updates).
	ApplyRating(ctx context.Context, providerID string, rating float64) error

	// Bookings.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	// UpdateBookingStatusWithVersion performs a guarded status update;
	// returns ErrConcurrentModification when the version check fails.
	UpdateBookingStatusWithVersion(ctx context.Context, id string, fromVersion int64, status string) error
	CancelBookingWithVersion(ctx context.Context, id string, fromVersion int64, status, reason, canceledBy string, canceledAt time.Time) error
	RescheduleBookingWithVersion(ctx context.Context, id string, fromVersion int64, newDateTime time.Time, instructions string) error
	CompleteBookingWithVersion(ctx context.Context, id string, fromVersion int64, finalPrice float64) error
	ListCustomerBookings(ctx context.Context, customerID string) ([]*models.Booking, error)
	ListProviderBookings(ctx context.Context, providerID string) ([]*models.Booking, error)
	ListProviderBookingsByStatus(ctx context.Context, providerID, status string) ([]*models.Booking, error)
	ListBookings(ctx context.Context, skip, limit int) ([]*models.Booking, error)

	// Reviews. CreateReviewWithRating persists the review and applies
	// the provider rating fold inside one transaction.
	CreateReviewWithRating(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id string) (*models.Review, error)
	GetReviewByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	ListProviderReviews(ctx context.Context, providerID string) ([]*models.Review, error)
}

// Geocoder resolves free-text locations against an external service.
// Implementations carry their own bounded timeout.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// GeoCache stores resolved coordinates keyed by normalized address
// text. A cache outage degrades to always-miss, never to wrong data.
type GeoCache interface {
	Get(ctx context.Context, key string) (*models.Coordinates, error)
	Set(ctx context.Context, key string, coords *models.Coordinates, ttl time.Duration) error
}

// GeoRanker filters and sorts provider candidates by distance from a
// customer location. Implementations degrade gracefully: when the
// location cannot be resolved the candidates come back untouched.
type GeoRanker interface {
	RankedSearch(ctx context.Context, customerLocation string, candidates []*models.Provider, maxDistanceKm float64) []*models.Provider
}

// Notifier delivers a message to a recipient contact. Delivery is
// best-effort; this core never retries and never lets a failure roll
// back a committed state change.
type Notifier interface {
	SendMessage(ctx context.Context, recipientContact, body string) error
}

// EventPublisher publishes lifecycle events for decoupled consumers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
