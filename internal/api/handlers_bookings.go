package api

import (
	"net/http"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/service"
)

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleCustomer)
	if !ok {
		return
	}

	var body struct {
		ProviderID          string    `json:"provider_id"`
		ServiceType         string    `json:"service_type"`
		DateTime            time.Time `json:"date_time"`
		SpecialInstructions string    `json:"special_instructions"`
		EstimatedPrice      float64   `json:"estimated_price"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), a.ID, service.CreateBookingRequest{
		ProviderID:          body.ProviderID,
		ServiceType:         body.ServiceType,
		DateTime:            body.DateTime,
		SpecialInstructions: body.SpecialInstructions,
		EstimatedPrice:      body.EstimatedPrice,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireActor(w, r)
	if !ok {
		return
	}

	booking, err := s.bookings.GetBookingFor(r.Context(), r.PathValue("id"), a.ID, a.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleRespondBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	var body struct {
		Decision string `json:"decision"` // accepted or declined
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// The service compares against the provider profile id, not the
	// user id the gateway forwards.
	provider, err := s.providers.GetProviderByUser(r.Context(), a.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	booking, err := s.bookings.Respond(r.Context(), r.PathValue("id"), provider.ID, body.Decision)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireActor(w, r)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Cancel(r.Context(), r.PathValue("id"), a.ID, body.Reason, a.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleRescheduleBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleCustomer)
	if !ok {
		return
	}

	var body struct {
		DateTime time.Time `json:"date_time"`
		Reason   string    `json:"reason"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Reschedule(r.Context(), r.PathValue("id"), a.ID, body.DateTime, body.Reason)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCompleteBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	var body struct {
		FinalPrice float64 `json:"final_price"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Complete(r.Context(), r.PathValue("id"), a.ID, body.FinalPrice)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// handleCanCancelBooking is a read-only probe so clients can grey out
// the cancel/reschedule actions without attempting a transition.
func (s *Server) handleCanCancelBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireActor(w, r)
	if !ok {
		return
	}

	booking, err := s.bookings.GetBookingFor(r.Context(), r.PathValue("id"), a.ID, a.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"can_cancel":     s.bookings.CanCancel(booking),
		"can_reschedule": s.bookings.CanReschedule(booking),
		"status":         booking.Status,
	})
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleCustomer)
	if !ok {
		return
	}

	bookings, err := s.bookings.ListCustomerBookings(r.Context(), a.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// handleAssignedBookings lists the provider's bookings, narrowed to the
// incoming pending queue with ?status=pending.
func (s *Server) handleAssignedBookings(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	provider, err := s.providers.GetProviderByUser(r.Context(), a.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var bookings []*models.Booking
	if r.URL.Query().Get("status") == models.StatusPending {
		bookings, err = s.bookings.ListPendingForProvider(r.Context(), provider.ID)
	} else {
		bookings, err = s.bookings.ListProviderBookings(r.Context(), provider.ID)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}
