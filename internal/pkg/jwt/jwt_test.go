//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"tour-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	svc := jwt.NewService("secret", time.Hour)
	id := jwt.Identity{UserID: uuid.New(), Role: "admin", Name: "Ana Quispe", Email: "ana@example.com", Phone: "+51 999 111 222"}

	t.Run("round trip keeps identity", func(t *testing.T) {
		token, err := svc.GenerateToken(id)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, id.UserID, claims.UserID)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "ana@example.com", claims.Email)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := jwt.NewService("other", time.Hour).GenerateToken(id)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired token is reported as expired", func(t *testing.T) {
		token, err := jwt.NewService("secret", -time.Minute).GenerateToken(id)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("garbage is invalid", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
