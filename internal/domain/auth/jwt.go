package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "airsolutions/internal/core/context"
	"airsolutions/internal/core/id"
)

// MinKeyLength is the minimum signing key length in characters.
const MinKeyLength = 32

const defaultExpiresMinutes = 480

// ErrWeakKey is returned for a missing or short signing key.
var ErrWeakKey = fmt.Errorf("jwt key is missing or shorter than %d characters", MinKeyLength)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Key            string
	Issuer         string
	Audience       string
	ExpiresMinutes int
}

// Claims represents JWT claims. Subject carries the username.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	config JWTConfig
	ttl    time.Duration
}

// NewJWTService creates a new JWT service. The key must be at least
// MinKeyLength characters.
func NewJWTService(config JWTConfig) (*JWTService, error) {
	if len(config.Key) < MinKeyLength {
		return nil, ErrWeakKey
	}
	minutes := config.ExpiresMinutes
	if minutes <= 0 {
		minutes = defaultExpiresMinutes
	}
	return &JWTService{config: config, ttl: time.Duration(minutes) * time.Minute}, nil
}

// Issue signs an access token for u.
func (s *JWTService) Issue(u *User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.New().String(),
			Issuer:    s.config.Issuer,
			Subject:   u.Username,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name: u.DisplayName(),
		Role: u.EffectiveRole(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Validate checks signature, issuer, audience and expiry and returns the
// user context carried by the token.
func (s *JWTService) Validate(tokenString string) (*appctx.UserContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	if s.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.config.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(s.config.Key), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	return &appctx.UserContext{
		Username:  claims.Subject,
		FullName:  claims.Name,
		Role:      claims.Role,
		SessionID: claims.ID,
	}, nil
}
