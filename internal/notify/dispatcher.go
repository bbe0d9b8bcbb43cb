package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/events"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/metrics"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/rs/zerolog"
)

const dispatchTimeout = 15 * time.Second

// Messages per lifecycle outcome, sent to the affected counterparty.
var statusMessages = map[string]string{
	events.EventBookingAccepted:  "Your booking has been accepted by the provider!",
	events.EventBookingDeclined:  "Unfortunately, your booking was declined.",
	events.EventBookingCompleted: "Your service has been completed. Please rate your experience!",
}

// Dispatcher subscribes to booking lifecycle events and fans them out
// to the notifier. Dispatch is fire-and-forget: it runs off the
// publishing goroutine, failures are logged and never reach the
// transaction that emitted the event.
type Dispatcher struct {
	repo     domain.Repository
	notifier domain.Notifier
	logger   *zerolog.Logger
}

func NewDispatcher(repo domain.Repository, notifier domain.Notifier, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Attach registers the dispatcher on the bus for every event type it
// knows how to deliver.
func (d *Dispatcher) Attach(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventBookingAccepted,
		events.EventBookingDeclined,
		events.EventBookingCompleted,
		events.EventBookingCanceled,
		events.EventBookingRescheduled,
	} {
		bus.Subscribe(eventType, d.handleBookingEvent)
	}
}

func (d *Dispatcher) handleBookingEvent(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		d.logger.Error().Err(err).Str("event_type", event.Type).Msg("malformed booking event payload")
		return nil
	}

	go d.deliver(event.Type, payload)
	return nil
}

func (d *Dispatcher) deliver(eventType string, payload events.BookingEventPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	contact, body := d.composeMessage(ctx, eventType, payload)
	if contact == "" || body == "" {
		return
	}

	if err := d.notifier.SendMessage(ctx, contact, body); err != nil {
		metrics.IncNotification("failed")
		d.logger.Error().Err(err).
			Str("event_type", eventType).
			Str("booking_id", payload.BookingID).
			Msg("notification dispatch failed")
		return
	}
	metrics.IncNotification("sent")
}

// composeMessage picks the counterparty and the text. Cancellations go
// to the party that did not cancel; everything else goes to the
// customer.
func (d *Dispatcher) composeMessage(ctx context.Context, eventType string, payload events.BookingEventPayload) (contact, body string) {
	switch eventType {
	case events.EventBookingCanceled:
		if payload.ActedBy == models.RoleCustomer {
			contact = d.providerContact(ctx, payload.ProviderID)
		} else {
			contact = d.customerContact(ctx, payload.CustomerID)
		}
		body = fmt.Sprintf("Booking %s has been canceled. Reason: %s", payload.BookingID, payload.Reason)
	case events.EventBookingRescheduled:
		contact = d.providerContact(ctx, payload.ProviderID)
		body = fmt.Sprintf("Booking %s has been rescheduled to %s and awaits your confirmation.",
			payload.BookingID, payload.DateTime.Format(time.RFC1123))
	default:
		contact = d.customerContact(ctx, payload.CustomerID)
		if msg, ok := statusMessages[eventType]; ok {
			body = fmt.Sprintf("%s Booking ID: %s", msg, payload.BookingID)
		}
	}
	return contact, body
}

func (d *Dispatcher) customerContact(ctx context.Context, customerID string) string {
	user, err := d.repo.GetUserByID(ctx, customerID)
	if err != nil {
		d.logger.Warn().Err(err).Str("user_id", customerID).Msg("customer contact lookup failed")
		return ""
	}
	return user.Phone
}

func (d *Dispatcher) providerContact(ctx context.Context, providerID string) string {
	provider, err := d.repo.GetProvider(ctx, providerID)
	if err != nil {
		d.logger.Warn().Err(err).Str("provider_id", providerID).Msg("provider lookup failed")
		return ""
	}
	user, err := d.repo.GetUserByID(ctx, provider.UserID)
	if err != nil {
		d.logger.Warn().Err(err).Str("user_id", provider.UserID).Msg("provider contact lookup failed")
		return ""
	}
	return user.Phone
}
