package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/config"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/service"

	"github.com/rs/zerolog"
)

// Server exposes the marketplace over a JSON HTTP API. Identity is
// established upstream by the gateway; requests carry the verified
// actor in X-Actor-Id and X-Actor-Role headers.
type Server struct {
	cfg       config.APIConfig
	users     *service.UserService
	providers *service.ProviderService
	bookings  *service.BookingService
	reviews   *service.ReviewService
	logger    *zerolog.Logger
	server    *http.Server
	auth      *APIAuth
}

func NewServer(
	cfg config.APIConfig,
	users *service.UserService,
	providers *service.ProviderService,
	bookings *service.BookingService,
	reviews *service.ReviewService,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:       cfg,
		users:     users,
		providers: providers,
		bookings:  bookings,
		reviews:   reviews,
		logger:    logger,
		auth:      NewAPIAuth(cfg),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/v1/users", s.handleRegisterUser)
	mux.HandleFunc("GET /api/v1/users/me", s.handleGetMe)
	mux.HandleFunc("PATCH /api/v1/users/me", s.handleUpdateMe)
	mux.HandleFunc("DELETE /api/v1/users/me", s.handleDeactivateMe)

	mux.HandleFunc("POST /api/v1/providers", s.handleCreateProviderProfile)
	mux.HandleFunc("GET /api/v1/providers/search", s.handleSearchProviders)
	mux.HandleFunc("GET /api/v1/providers/me", s.handleGetMyProviderProfile)
	mux.HandleFunc("PATCH /api/v1/providers/me", s.handleUpdateProviderProfile)
	mux.HandleFunc("POST /api/v1/providers/me/portfolio", s.handleAddPortfolio)
	mux.HandleFunc("GET /api/v1/providers/{id}", s.handleGetProvider)
	mux.HandleFunc("GET /api/v1/providers/{id}/reviews", s.handleListProviderReviews)

	mux.HandleFunc("POST /api/v1/bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /api/v1/bookings/my", s.handleMyBookings)
	mux.HandleFunc("GET /api/v1/bookings/assigned", s.handleAssignedBookings)
	mux.HandleFunc("GET /api/v1/bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/respond", s.handleRespondBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancel", s.handleCancelBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/reschedule", s.handleRescheduleBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/complete", s.handleCompleteBooking)
	mux.HandleFunc("GET /api/v1/bookings/{id}/can-cancel", s.handleCanCancelBooking)

	mux.HandleFunc("POST /api/v1/reviews", s.handleSubmitReview)
	mux.HandleFunc("GET /api/v1/reviews/{id}", s.handleGetReview)

	mux.HandleFunc("POST /api/v1/admin/providers/{id}/approve", s.handleApproveProvider)
	mux.HandleFunc("GET /api/v1/admin/users", s.handleAdminListUsers)
	mux.HandleFunc("GET /api/v1/admin/providers", s.handleAdminListProviders)
	mux.HandleFunc("GET /api/v1/admin/bookings", s.handleAdminListBookings)
	mux.HandleFunc("GET /api/v1/admin/reports/bookings.xlsx", s.handleBookingsReport)
	mux.HandleFunc("DELETE /api/v1/admin/users/{id}", s.handleAdminDeleteUser)

	handler := s.loggingMiddleware(s.auth.Wrap(mux))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the routing stack without the listener, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
