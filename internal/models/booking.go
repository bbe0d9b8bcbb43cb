package models

import "time"

type Booking struct {
	ID                  string     `json:"booking_id"`
	CustomerID          string     `json:"customer_id"`
	ProviderID          string     `json:"provider_id"`
	ServiceType         string     `json:"service_type"`
	Status              string     `json:"status"`
	DateTime            time.Time  `json:"date_time"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	EstimatedPrice      float64    `json:"estimated_price,omitempty"`
	FinalPrice          float64    `json:"final_price,omitempty"`
	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	CanceledBy          string     `json:"canceled_by,omitempty"`
	CanceledAt          *time.Time `json:"canceled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int64      `json:"version"`
}
