package api

import (
	"net/http"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/service"
)

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
		Location string `json:"location"`
		Pincode  string `json:"pincode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Register(r.Context(), service.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Role:     body.Role,
		Location: body.Location,
		Pincode:  body.Pincode,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	a, ok := requireActor(w, r)
	if !ok {
		return
	}

	user, err := s.users.GetUser(r.Context(), a.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	a, ok := requireActor(w, r)
	if !ok {
		return
	}

	var body struct {
		Name     *string `json:"name"`
		Location *string `json:"location"`
		Pincode  *string `json:"pincode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), a.ID, service.UpdateUserRequest{
		Name:     body.Name,
		Location: body.Location,
		Pincode:  body.Pincode,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeactivateMe(w http.ResponseWriter, r *http.Request) {
	a, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := s.users.Deactivate(r.Context(), a.ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
