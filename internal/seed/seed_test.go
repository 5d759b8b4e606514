package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/repositories/memory"
	"github.com/yigit/lms/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func testAccount() AdminAccount {
	return AdminAccount{
		Username:   "admin",
		Email:      "admin@lms.local",
		Password:   "s3cret-password",
		FullName:   "Admin",
		BcryptCost: bcrypt.MinCost,
	}
}

func TestCreateDefaultAdmin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewDB())

	require.NoError(t, CreateDefaultAdmin(ctx, repo, testAccount(), zerolog.Nop()))

	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "s3cret-password"))
}

func TestCreateDefaultAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewDB())

	require.NoError(t, CreateDefaultAdmin(ctx, repo, testAccount(), zerolog.Nop()))
	require.NoError(t, CreateDefaultAdmin(ctx, repo, testAccount(), zerolog.Nop()))

	users, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateDefaultAdmin_NoPassword(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(memory.NewDB())

	account := testAccount()
	account.Password = ""
	require.NoError(t, CreateDefaultAdmin(ctx, repo, account, zerolog.Nop()))

	users, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
