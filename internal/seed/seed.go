// Package seed creates the accounts the API needs on a fresh database.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/pkg/apperrors"
	"github.com/yigit/lms/internal/pkg/auth"
)

// AdminAccount describes the default admin user
type AdminAccount struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	BcryptCost int
}

// CreateDefaultAdmin creates the admin account unless a user with the same
// username already exists. An empty password skips seeding entirely.
func CreateDefaultAdmin(ctx context.Context, userRepo repositories.IUserRepository, account AdminAccount, lgr zerolog.Logger) error {
	if account.Password == "" {
		lgr.Info().Msg("No admin password configured, skipping admin seeding")
		return nil
	}

	existing, err := userRepo.GetByUsername(ctx, account.Username)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			lgr.Warn().Str("username", account.Username).Str("role", string(existing.Role)).
				Msg("Seed admin username is taken by a non-admin user")
		} else {
			lgr.Info().Str("username", account.Username).Msg("Admin user already exists, skipping creation")
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	cost := account.BcryptCost
	if cost == 0 {
		cost = auth.BcryptCost
	}
	hash, err := auth.HashPasswordWithCost(account.Password, cost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &models.User{
		Username:     account.Username,
		Email:        account.Email,
		FullName:     account.FullName,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Warn().Str("email", account.Email).Msg("Seed admin email is already registered, skipping creation")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Str("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
