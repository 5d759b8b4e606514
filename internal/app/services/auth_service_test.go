package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/app/models/dto"
	"github.com/yigit/lms/internal/app/repositories"
	"github.com/yigit/lms/internal/app/repositories/memory"
	"github.com/yigit/lms/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/lms/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T, allowAdmin bool) (AuthService, repositories.IUserRepository, *pkgAuth.JWTService) {
	t.Helper()
	userRepo := memory.NewUserRepository(memory.NewDB())
	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "lms.test",
	})
	service := NewAuthService(userRepo, jwtService, AuthServiceConfig{
		AllowAdminRegistration: allowAdmin,
		BcryptCost:             bcrypt.MinCost,
	}, zerolog.Nop())
	return service, userRepo, jwtService
}

func registerRequest(username string, role models.Role) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username: username,
		Email:    username + "@lms.test",
		Password: "correct-horse",
		FullName: "Test " + username,
		Role:     string(role),
	}
}

func TestAuthService_RegisterIssuesUsableToken(t *testing.T) {
	service, _, jwtService := newAuthService(t, false)

	resp, err := service.Register(context.Background(), registerRequest("mentor1", models.RoleMentor))
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.Token.TokenType)
	assert.Equal(t, 3600, resp.Token.ExpiresIn)
	assert.Equal(t, "mentor", resp.User.Role)

	claims, role, err := jwtService.ValidateAndExtractClaims(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleMentor, role)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	closed, _, _ := newAuthService(t, false)
	_, err := closed.Register(context.Background(), registerRequest("root", models.RoleAdmin))
	assertKind(t, err, apperrors.ErrPermissionDenied)

	open, _, _ := newAuthService(t, true)
	resp, err := open.Register(context.Background(), registerRequest("root", models.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestAuthService_RegisterRejectsBadInput(t *testing.T) {
	service, _, _ := newAuthService(t, false)
	ctx := context.Background()

	req := registerRequest("x", models.RoleStudent)
	req.Role = "janitor"
	_, err := service.Register(ctx, req)
	assertKind(t, err, apperrors.ErrBadRequest)

	_, err = service.Register(ctx, registerRequest("dup", models.RoleStudent))
	require.NoError(t, err)

	_, err = service.Register(ctx, registerRequest("dup", models.RoleStudent))
	assertKind(t, err, apperrors.ErrConflict)
	assertConflictField(t, err, "username")

	again := registerRequest("other", models.RoleStudent)
	again.Email = "DUP@lms.test"
	_, err = service.Register(ctx, again)
	assertKind(t, err, apperrors.ErrConflict)
	assertConflictField(t, err, "email")
}

func assertConflictField(t *testing.T, err error, field string) {
	t.Helper()
	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, field, customErr.Details["field"])
}

func TestAuthService_Login(t *testing.T) {
	service, _, _ := newAuthService(t, false)
	ctx := context.Background()
	registered, err := service.Register(ctx, registerRequest("student1", models.RoleStudent))
	require.NoError(t, err)

	byName, err := service.Login(ctx, &dto.LoginRequest{Identifier: "student1", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, byName.User.ID)

	byEmail, err := service.Login(ctx, &dto.LoginRequest{Identifier: "Student1@lms.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, byEmail.User.ID)

	_, err = service.Login(ctx, &dto.LoginRequest{Identifier: "student1", Password: "wrong"})
	assertKind(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(ctx, &dto.LoginRequest{Identifier: "ghost", Password: "correct-horse"})
	assertKind(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Me(t *testing.T) {
	service, _, _ := newAuthService(t, false)
	ctx := context.Background()
	registered, err := service.Register(ctx, registerRequest("mentor1", models.RoleMentor))
	require.NoError(t, err)

	me, err := service.Me(ctx, auth.Caller{ID: registered.User.ID, Role: models.RoleMentor})
	require.NoError(t, err)
	assert.Equal(t, "mentor1", me.Username)

	_, err = service.Me(ctx, auth.Caller{ID: "deleted-user", Role: models.RoleMentor})
	assertKind(t, err, apperrors.ErrUnauthenticated)
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	userRepo := memory.NewUserRepository(memory.NewDB())
	for _, u := range []*models.User{
		{Username: "admin", Email: "admin@lms.test", Role: models.RoleAdmin},
		{Username: "mentor1", Email: "m1@lms.test", Role: models.RoleMentor},
		{Username: "student1", Email: "s1@lms.test", Role: models.RoleStudent},
	} {
		require.NoError(t, userRepo.Create(ctx, u))
	}
	service := NewUserService(userRepo, zerolog.Nop())
	admin := auth.Caller{ID: "a", Role: models.RoleAdmin}

	all, err := service.ListUsers(ctx, admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mentorRole := models.RoleMentor
	mentors, err := service.ListUsers(ctx, admin, &mentorRole)
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, "mentor1", mentors[0].Username)

	_, err = service.ListUsers(ctx, auth.Caller{ID: "m", Role: models.RoleMentor}, nil)
	assertKind(t, err, apperrors.ErrPermissionDenied)

	bogus := models.Role("guest")
	_, err = service.ListUsers(ctx, admin, &bogus)
	assertKind(t, err, apperrors.ErrBadRequest)
}
