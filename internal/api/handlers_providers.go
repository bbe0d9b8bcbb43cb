package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/service"
)

func (s *Server) handleCreateProviderProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	var body struct {
		Services        []string `json:"services"`
		Pricing         float64  `json:"pricing"`
		ExperienceYears int64    `json:"experience_years"`
		ServiceRadiusKm float64  `json:"service_radius"`
		Documents       []string `json:"documents"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.GetUser(r.Context(), a.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	provider, err := s.providers.CreateProfile(r.Context(), user, service.CreateProfileRequest{
		Services:        body.Services,
		Pricing:         body.Pricing,
		ExperienceYears: body.ExperienceYears,
		ServiceRadiusKm: body.ServiceRadiusKm,
		Documents:       body.Documents,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, provider)
}

func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	provider, err := s.providers.GetProvider(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

func (s *Server) handleGetMyProviderProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	provider, err := s.providers.GetProviderByUser(r.Context(), a.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

func (s *Server) handleUpdateProviderProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	var body struct {
		Services        []string `json:"services"`
		Pricing         *float64 `json:"pricing"`
		Availability    *bool    `json:"availability"`
		ExperienceYears *int64   `json:"experience_years"`
		ServiceRadiusKm *float64 `json:"service_radius"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	provider, err := s.providers.UpdateProfile(r.Context(), a.ID, service.UpdateProfileRequest{
		Services:        body.Services,
		Pricing:         body.Pricing,
		Availability:    body.Availability,
		ExperienceYears: body.ExperienceYears,
		ServiceRadiusKm: body.ServiceRadiusKm,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

func (s *Server) handleAddPortfolio(w http.ResponseWriter, r *http.Request) {
	a, ok := requireRole(w, r, models.RoleProvider)
	if !ok {
		return
	}

	var body struct {
		URLs []string `json:"urls"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls is required")
		return
	}

	provider, err := s.providers.AddPortfolio(r.Context(), a.ID, body.URLs)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, provider)
}

// handleSearchProviders is the customer-facing discovery endpoint.
// Filters arrive as query parameters; ranking by distance kicks in
// when a location is supplied.
func (s *Server) handleSearchProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := models.RankedSearchRequest{
		SearchCriteria: models.SearchCriteria{
			Service:       strings.TrimSpace(q.Get("service")),
			MinRating:     parseFloat(q.Get("min_rating")),
			AvailableOnly: q.Get("available_only") != "false",
			Skip:          parseInt(q.Get("skip")),
			Limit:         parseInt(q.Get("limit")),
		},
		Location:      strings.TrimSpace(q.Get("location")),
		MaxDistanceKm: parseFloat(q.Get("max_distance_km")),
		MaxPrice:      parseFloat(q.Get("max_price")),
		SortBy:        strings.TrimSpace(q.Get("sort_by")),
	}

	providers, err := s.providers.SearchRanked(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"providers": providers,
		"count":     len(providers),
	})
}

func (s *Server) handleListProviderReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviews.ListProviderReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}
