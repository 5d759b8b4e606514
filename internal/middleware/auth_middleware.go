package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/lms/internal/app/auth"
	"github.com/yigit/lms/internal/app/models/dto"
	"github.com/yigit/lms/internal/pkg/apperrors"
	"github.com/yigit/lms/internal/pkg/auth"
)

const callerKey = "caller"

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation.
// A valid bearer token puts the caller into the request context; anything else is a 401.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, role, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		SetCaller(c, appAuth.Caller{ID: claims.UserID, Role: role})
		c.Next()
	}
}

// SetCaller stores the authenticated caller on the request context
func SetCaller(c *gin.Context, caller appAuth.Caller) {
	c.Set(callerKey, caller)
}

// CallerFromContext returns the caller stored by JWTAuth
func CallerFromContext(c *gin.Context) (appAuth.Caller, bool) {
	value, exists := c.Get(callerKey)
	if !exists {
		return appAuth.Caller{}, false
	}
	caller, ok := value.(appAuth.Caller)
	return caller, ok
}

// RequireCaller fetches the caller or aborts with 401.
// Handlers behind JWTAuth never hit the abort path.
func RequireCaller(c *gin.Context) (appAuth.Caller, bool) {
	caller, ok := CallerFromContext(c)
	if !ok {
		HandleAPIError(c, apperrors.ErrUnauthenticated)
		c.Abort()
	}
	return caller, ok
}
