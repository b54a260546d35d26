//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/jwt"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper issues tokens the way the external auth service would.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, caller shared.Caller) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return h.sign(t, caller, duration)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, caller shared.Caller) string {
	t.Helper()
	token := h.sign(t, caller, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	return token
}

func (h *JWTHelper) Customer(t *testing.T) (string, shared.Caller) {
	t.Helper()
	c := shared.Caller{UserID: uuid.New(), Role: shared.RoleCustomer, Name: "Ana Quispe", Email: "ana@example.com", Phone: "+51 987 654 321"}
	return h.GenerateToken(t, c), c
}

func (h *JWTHelper) Admin(t *testing.T) (string, shared.Caller) {
	t.Helper()
	c := shared.Caller{UserID: uuid.New(), Role: shared.RoleAdmin, Name: "Ops Desk", Email: "ops@example.com"}
	return h.GenerateToken(t, c), c
}

func (h *JWTHelper) sign(t *testing.T, caller shared.Caller, d time.Duration) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, d)
	token, err := service.GenerateToken(jwt.Identity{
		UserID: caller.UserID,
		Role:   caller.Role,
		Name:   caller.Name,
		Email:  caller.Email,
		Phone:  caller.Phone,
	})
	require.NoError(t, err)
	return token
}
