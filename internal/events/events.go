package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingCreated     = "booking_created"
	EventBookingAccepted    = "booking_accepted"
	EventBookingDeclined    = "booking_declined"
	EventBookingCanceled    = "booking_canceled"
	EventBookingRescheduled = "booking_rescheduled"
	EventBookingCompleted   = "booking_completed"
	EventReviewSubmitted    = "review_submitted"
)

// BookingEventPayload is the minimal booking snapshot for event
// consumers such as the notification dispatcher.
type BookingEventPayload struct {
	BookingID   string    `json:"booking_id"`
	CustomerID  string    `json:"customer_id"`
	ProviderID  string    `json:"provider_id"`
	ServiceType string    `json:"service_type"`
	Status      string    `json:"status"`
	DateTime    time.Time `json:"date_time"`
	Reason      string    `json:"reason,omitempty"`
	ActedBy     string    `json:"acted_by,omitempty"` // customer or provider
}

// ReviewEventPayload accompanies EventReviewSubmitted.
type ReviewEventPayload struct {
	ReviewID   string  `json:"review_id"`
	BookingID  string  `json:"booking_id"`
	ProviderID string  `json:"provider_id"`
	Rating     float64 `json:"rating"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
