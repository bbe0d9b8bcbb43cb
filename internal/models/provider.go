package models

import "time"

// Provider extends a User with role=provider. Rating and RatingCount
// are maintained exclusively by the rating aggregation update; no other
// writer may touch them.
type Provider struct {
	ID              string    `json:"provider_id"`
	UserID          string    `json:"user_id"`
	Services        []string  `json:"services"`
	Pricing         float64   `json:"pricing"`
	Availability    bool      `json:"availability"`
	Rating          float64   `json:"rating"`
	RatingCount     int64     `json:"rating_count"`
	Documents       []string  `json:"documents,omitempty"`
	Approved        bool      `json:"approved"`
	ExperienceYears int64     `json:"experience_years"`
	ServiceRadiusKm float64   `json:"service_radius"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Denormalized from the owning user for search results.
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`

	// DistanceKm is set by ranked search when the customer location was
	// resolvable; nil otherwise.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// OffersService reports whether the service tag is in the provider's set.
func (p *Provider) OffersService(service string) bool {
	for _, s := range p.Services {
		if s == service {
			return true
		}
	}
	return false
}
