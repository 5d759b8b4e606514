package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/pkg/apperrors"
)

// UserService defines the interface for user operations
type UserService interface {
	ListUsers(ctx context.Context, caller auth.Caller, role *models.Role) ([]*models.User, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers lists registered users; admins only
func (s *userServiceImpl) ListUsers(ctx context.Context, caller auth.Caller, role *models.Role) ([]*models.User, error) {
	if !auth.CanListUsers(caller.Role) {
		return nil, apperrors.NewForbiddenError("only admins can list users")
	}
	if role != nil && !role.Valid() {
		return nil, apperrors.NewBadRequestError("role must be one of: admin, mentor, student")
	}

	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}
	return users, nil
}
