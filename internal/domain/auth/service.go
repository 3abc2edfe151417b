package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/tx"
	"airsolutions/pkg/logger"
)

// ErrBootstrapPassword is returned when the administrator must be created
// but no password is configured.
var ErrBootstrapPassword = errors.New("no bootstrap password for the admin user; set AUTH_SEED_ADMIN_PASSWORD")

// Service provides login and the admin bootstrap.
type Service struct {
	users     UserRepository
	jwt       *JWTService
	txManager tx.Manager
	cost      int
	now       func() time.Time
}

// NewService creates a new auth service.
func NewService(users UserRepository, jwtService *JWTService, txManager tx.Manager) *Service {
	if txManager == nil {
		txManager = tx.Inline
	}
	return &Service{
		users:     users,
		jwt:       jwtService,
		txManager: txManager,
		cost:      bcrypt.DefaultCost,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// JWT returns the token service, used by the HTTP auth middleware.
func (s *Service) JWT() *JWTService {
	return s.jwt
}

// HashPassword hashes password with bcrypt.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func invalidCredentials() error {
	return apperror.NewUnauthorized("invalid credentials")
}

// Login verifies the credentials, stamps the login time and issues a token.
// Unknown, inactive and wrong-password cases are indistinguishable.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	username := strings.TrimSpace(creds.Username)

	var v apperror.Collector
	if username == "" {
		v.Add("username is required")
	}
	if strings.TrimSpace(creds.Password) == "" {
		v.Add("password is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		logger.Warn(ctx, "failed login", "username", username)
		return nil, invalidCredentials()
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("stamp last login: %w", err)
	}

	token, expiresAt, err := s.jwt.Issue(user, now)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user logged in", "username", user.Username)
	return &LoginResult{
		AccessToken:  token,
		ExpiresAtUTC: expiresAt,
		Username:     user.Username,
		FullName:     user.FullName,
		Role:         user.Role,
	}, nil
}

// Bootstrap ensures the configured administrator exists, is active and has
// the admin role. An existing user keeps its password.
func (s *Service) Bootstrap(ctx context.Context, cfg BootstrapConfig) error {
	cfg = cfg.withDefaults()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByUsername(ctx, cfg.Username)
		switch {
		case err == nil:
			if existing.IsActive && strings.EqualFold(existing.Role, cfg.Role) {
				return nil
			}
			existing.IsActive = true
			existing.Role = cfg.Role
			if strings.TrimSpace(existing.FullName) == "" {
				existing.FullName = cfg.FullName
			}
			now := s.now()
			existing.UpdatedAt = &now
			if err := s.users.Update(ctx, existing); err != nil {
				return fmt.Errorf("update admin user: %w", err)
			}
			logger.Info(ctx, "admin user reactivated", "username", cfg.Username)
			return nil
		case !apperror.IsNotFound(err):
			return fmt.Errorf("load admin user: %w", err)
		}

		if cfg.Password == "" {
			return ErrBootstrapPassword
		}
		hash, err := HashPassword(cfg.Password, s.cost)
		if err != nil {
			return err
		}
		user := NewUser(cfg.Username, cfg.FullName, cfg.Role)
		user.PasswordHash = hash
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		logger.Info(ctx, "admin user created", "username", cfg.Username)
		return nil
	})
}
