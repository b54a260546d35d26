package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/pkg/jwt"
	"tour-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
}

const ctxCallerKey = "caller"

var (
	errMissingToken = errs.New("missing bearer token")
	errNotAdmin     = errs.New("admin role required")
)

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth verifies the bearer token and stores the caller it describes.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		SetCaller(c, shared.Caller{
			UserID: claims.UserID,
			Role:   claims.Role,
			Name:   claims.Name,
			Email:  claims.Email,
			Phone:  claims.Phone,
		})
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}
		if !caller.IsAdmin() {
			httperr.AbortWithError(c, http.StatusForbidden, errNotAdmin, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// SetCaller is also used by handler tests to fake authentication.
func SetCaller(c *gin.Context, caller shared.Caller) {
	c.Set(ctxCallerKey, caller)
}

func GetCaller(c *gin.Context) (shared.Caller, bool) {
	v, exists := c.Get(ctxCallerKey)
	if !exists {
		return shared.Caller{}, false
	}
	caller, ok := v.(shared.Caller)
	return caller, ok
}
