package services

import (
	"fmt"

	"github.com/gatewise/vms-backend/internal/config"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials indicates a failed login attempt
var ErrInvalidCredentials = fmt.Errorf("invalid username or password")

// AuthService performs the fixed-credential operator login. Credentials
// come from configuration; the password is compared against a bcrypt
// hash.
type AuthService struct {
	admin  models.AdminUser
	logger *logrus.Logger
}

// NewAuthService creates an auth service from the configured admin
// account.
func NewAuthService(cfg config.AuthConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{
		admin: models.AdminUser{
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			Role:         models.AdminRole(cfg.AdminRole),
		},
		logger: logger,
	}
}

// Authenticate checks the supplied credentials against the fixed account.
func (s *AuthService) Authenticate(username, password string) (*models.AdminUser, error) {
	if username != s.admin.Username {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	user := s.admin
	return &user, nil
}
