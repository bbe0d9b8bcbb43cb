package api

import (
	"net/http"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/service"
)

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleCustomer)
	if !ok {
		return
	}

	var body struct {
		BookingID string   `json:"booking_id"`
		Rating    float64  `json:"rating"`
		Comment   string   `json:"comment"`
		Images    []string `json:"images"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	review, err := s.reviews.Submit(r.Context(), a.ID, service.SubmitReviewRequest{
		BookingID: body.BookingID,
		Rating:    body.Rating,
		Comment:   body.Comment,
		Images:    body.Images,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.reviews.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}
