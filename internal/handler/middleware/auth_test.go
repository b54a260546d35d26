//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/pkg/jwt"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := jwt.NewService("test-secret-at-least-32-bytes-long!!", time.Hour)
	m := middleware.NewAuthMiddleware(svc)

	var seen shared.Caller
	router := gin.New()
	router.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		seen, _ = middleware.GetCaller(c)
		c.Status(http.StatusNoContent)
	})
	router.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	token := func(role string) (string, uuid.UUID) {
		id := uuid.New()
		tok, err := svc.GenerateToken(jwt.Identity{UserID: id, Role: role, Name: "Ana Quispe", Email: "ana@example.com"})
		require.NoError(t, err)
		return tok, id
	}

	t.Run("valid token populates the caller", func(t *testing.T) {
		tok, id := token(shared.RoleCustomer)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, tok)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id, seen.UserID)
		assert.Equal(t, shared.RoleCustomer, seen.Role)
		assert.Equal(t, "ana@example.com", seen.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")

		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewService("another-secret-at-least-32-bytes!!", time.Hour)
		tok, err := other.GenerateToken(jwt.Identity{UserID: uuid.New(), Role: shared.RoleAdmin})
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, tok)

		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("customer on admin route", func(t *testing.T) {
		tok, _ := token(shared.RoleCustomer)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, tok)

		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")
	})

	t.Run("admin on admin route", func(t *testing.T) {
		tok, _ := token(shared.RoleAdmin)

		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, tok)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
