package models

// Booking statuses.
const (
	StatusPending            = "pending"
	StatusAccepted           = "accepted"
	StatusDeclined           = "declined"
	StatusCompleted          = "completed"
	StatusCanceledByCustomer = "canceled_by_customer"
	StatusCanceledByProvider = "canceled_by_provider"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

const (
	// GeocodeCacheTTL is how long resolved coordinates stay cached.
	GeocodeCacheTTL = 24 * 60 * 60 // 24 hours in seconds

	// DefaultSearchRadiusKm bounds distance filtering when the caller
	// does not supply a radius.
	DefaultSearchRadiusKm = 25.0

	// DefaultSearchLimit is the default search page size.
	DefaultSearchLimit = 20

	// MaxSearchLimit caps the search page size.
	MaxSearchLimit = 100

	// RescheduleBufferHours is the minimum lead time before the
	// scheduled slot within which rescheduling is no longer allowed.
	RescheduleBufferHours = 2
)

// Search sort orders.
const (
	SortByDistance = "distance"
	SortByRating   = "rating"
	SortByPrice    = "price"
)

// IsTerminalStatus reports whether no further transition is permitted
// out of the given booking status.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusDeclined, StatusCanceledByCustomer, StatusCanceledByProvider:
		return true
	}
	return false
}

// IsValidRole reports whether role belongs to the closed role set.
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}
