package services

import (
	"testing"

	"github.com/gatewise/vms-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(config.AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		AdminRole:         "ADMIN",
	}, testLogger())

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("admin", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("admin", "battery staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.Authenticate("root", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
