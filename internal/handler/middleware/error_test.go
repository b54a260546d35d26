//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"tour-booking/internal/handler/middleware"
	"tour-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
)

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CustomRecovery(), middleware.ErrorHandler())
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/panic", nil, "")

	httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
}
