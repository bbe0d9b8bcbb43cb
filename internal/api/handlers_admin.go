package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/export"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

const adminListLimit = 500

func (s *Server) handleApproveProvider(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	if err := s.providers.Approve(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	users, err := s.users.ListUsers(r.Context(), parseInt(r.URL.Query().Get("skip")), parseInt(r.URL.Query().Get("limit")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleAdminListProviders(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	providers, err := s.providers.ListProviders(r.Context(), parseInt(r.URL.Query().Get("skip")), parseInt(r.URL.Query().Get("limit")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": providers})
}

func (s *Server) handleAdminListBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	bookings, err := s.bookings.ListBookings(r.Context(), parseInt(r.URL.Query().Get("skip")), parseInt(r.URL.Query().Get("limit")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleBookingsReport streams an xlsx snapshot of recent bookings.
func (s *Server) handleBookingsReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, models.RoleAdmin); !ok {
		return
	}

	bookings, err := s.bookings.ListBookings(r.Context(), 0, adminListLimit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteBookingsReport(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("bookings report export error")
	}
}
