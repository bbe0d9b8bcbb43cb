package models

import "time"

// Review is immutable after creation; at most one per booking.
type Review struct {
	ID         string    `json:"review_id"`
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	ProviderID string    `json:"provider_id"`
	Rating     float64   `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Images     []string  `json:"images,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
