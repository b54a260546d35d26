//go:build unit

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/usecase/shared"
	"tour-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func() (*gin.Engine, *bytes.Buffer) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		router := gin.New()
		router.Use(middleware.RequestLogger(logger, "/health"))
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/bookings/:id", func(c *gin.Context) {
			middleware.SetCaller(c, shared.Caller{UserID: uuid.MustParse("8a6e0804-2bd0-4672-b79d-d97027f9071a"), Role: shared.RoleCustomer})
			c.JSON(http.StatusNotFound, gin.H{"id": c.Param("id"), "request_id": middleware.GetRequestID(c)})
		})
		return router, &buf
	}

	t.Run("keeps incoming request id and logs the caller", func(t *testing.T) {
		router, buf := setup()
		w := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/bookings/42", nil, "",
			map[string]string{middleware.RequestIDHeader: "req-123"})

		httptest.AssertHeaders(t, w, map[string]string{middleware.RequestIDHeader: "req-123"})
		assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)

		line := buf.String()
		assert.Contains(t, line, `"level":"WARN"`)
		assert.Contains(t, line, `"route":"/bookings/:id"`)
		assert.Contains(t, line, `"user_id":"8a6e0804-2bd0-4672-b79d-d97027f9071a"`)
	})

	t.Run("generates an id and skips configured paths", func(t *testing.T) {
		router, buf := setup()
		w := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Empty(t, buf.String())
	})
}
