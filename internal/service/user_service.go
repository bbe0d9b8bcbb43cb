package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/database"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/domain"
	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService manages the identity records behind customers, providers
// and admins. Credential issuance happens outside this core; the user
// row carries no secrets.
type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// RegisterRequest is the signup input.
type RegisterRequest struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Location string
	Pincode  string
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return nil, domain.InvalidInput("name, email and phone are required")
	}
	if !models.IsValidRole(req.Role) {
		return nil, domain.InvalidInput("invalid role: %s", req.Role)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Location: req.Location,
		Pincode:  req.Pincode,
		IsActive: true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, domain.Conflict("user with this email or phone already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, domain.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRequest updates mutable identity fields; nil means
// leave as is.
type UpdateUserRequest struct {
	Name     *string
	Location *string
	Pincode  *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Pincode != nil {
		user.Pincode = *req.Pincode
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > models.MaxSearchLimit {
		limit = models.MaxSearchLimit
	}
	return s.repo.ListUsers(ctx, skip, limit)
}

// Deactivate flips the active flag without removing data.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.repo.UpdateUser(ctx, user)
}

// Delete is the explicit admin removal; the provider profile, if one
// exists, is cascaded away by the store.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	err := s.repo.DeleteUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return domain.NotFound("user not found")
	}
	return err
}
