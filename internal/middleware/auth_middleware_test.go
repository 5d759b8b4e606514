package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appAuth "github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models"
	"github.com/yigit/lms/internal/pkg/auth"
)

func newProtectedRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", NewAuthMiddleware(jwtService).JWTAuth(), func(c *gin.Context) {
		caller, ok := RequireCaller(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, "%s:%s", caller.ID, caller.Role)
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "lms.test"})
	router := newProtectedRouter(jwtService)

	token, _, err := jwtService.GenerateAccessToken(&models.User{ID: "u-1", Role: models.RoleStudent})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"raw token without scheme", token, http.StatusUnauthorized},
		{"garbage", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "u-1:student", rec.Body.String())
			}
		})
	}
}

func TestCallerFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CallerFromContext(ctx)
	assert.False(t, ok)

	SetCaller(ctx, appAuth.Caller{ID: "u-1", Role: models.RoleAdmin})
	caller, ok := CallerFromContext(ctx)
	require.True(t, ok)
	assert.True(t, caller.IsAdmin())
}
