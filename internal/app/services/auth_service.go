package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/models/dto"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/lms/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, caller auth.Caller) (*dto.UserResponse, error)
}

// AuthServiceConfig tunes registration behaviour
type AuthServiceConfig struct {
	// AllowAdminRegistration lets anyone self-register with the admin role
	AllowAdminRegistration bool
	// BcryptCost overrides pkgAuth.BcryptCost when non-zero
	BcryptCost int
}

type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *pkgAuth.JWTService
	config     AuthServiceConfig
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *pkgAuth.JWTService,
	config AuthServiceConfig,
	logger zerolog.Logger,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = pkgAuth.BcryptCost
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
		logger:     logger,
	}
}

func (s *authServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to generate access token")
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}

// Register creates a new account and signs the user in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role == models.RoleAdmin && !s.config.AllowAdminRegistration {
		return nil, apperrors.NewForbiddenError("admin accounts cannot be self-registered")
	}

	hash, err := pkgAuth.HashPasswordWithCost(req.Password, s.config.BcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
			return nil, apperrors.NewConflictError("username already registered").
				WithDetails(map[string]interface{}{"field": "username"})
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
			return nil, apperrors.NewConflictError("email already registered").
				WithDetails(map[string]interface{}{"field": "email"})
		}
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(role)).Msg("User registered")
	return s.issue(user)
}

// lookup resolves a login identifier, trying the username first and then the email.
func (s *authServiceImpl) lookup(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err == nil || !errors.Is(err, apperrors.ErrUserNotFound) {
		return user, err
	}
	if strings.Contains(identifier, "@") {
		return s.userRepo.GetByEmail(ctx, identifier)
	}
	return nil, err
}

// Login authenticates by username or email
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("identifier", identifier).Msg("Login attempt for unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkgAuth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Debug().Str("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me returns the profile of the authenticated caller
func (s *authServiceImpl) Me(ctx context.Context, caller auth.Caller) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
