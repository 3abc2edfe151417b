package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"airsolutions/internal/core/apperror"
)

const testKey = "0123456789abcdef0123456789abcdef"

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]User{}}
}

func (m *memoryUsers) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, apperror.NewNotFound("user", username)
	}
	return &u, nil
}

func (m *memoryUsers) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return apperror.NewDuplicate("user", "username", u.Username)
	}
	m.users[u.Username] = *u
	return nil
}

func (m *memoryUsers) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Username] = *u
	return nil
}

func newJWT(t *testing.T) *JWTService {
	t.Helper()
	s, err := NewJWTService(JWTConfig{Key: testKey, Issuer: "AirSolutions", Audience: "AirSolutions.Web"})
	require.NoError(t, err)
	return s
}

func newTestService(t *testing.T, users *memoryUsers) *Service {
	t.Helper()
	svc := NewService(users, newJWT(t), nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func addUser(t *testing.T, users *memoryUsers, username, password, role string, active bool) *User {
	t.Helper()
	hash, err := HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	u := NewUser(username, "Full "+username, role)
	u.PasswordHash = hash
	u.IsActive = active
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestNewJWTService_RejectsWeakKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Key: "short"})
	assert.ErrorIs(t, err, ErrWeakKey)

	_, err = NewJWTService(JWTConfig{Key: strings.Repeat("k", MinKeyLength)})
	assert.NoError(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	s := newJWT(t)
	now := time.Now().UTC()

	token, expiresAt, err := s.Issue(&User{Username: "ana", Role: ""}, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(480*time.Minute), expiresAt, time.Second)

	uc, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", uc.Username)
	assert.Equal(t, "ana", uc.FullName, "blank full name falls back to the username")
	assert.Equal(t, RoleUser, uc.Role)
	assert.NotEmpty(t, uc.SessionID)
}

func TestJWT_Rejects(t *testing.T) {
	s := newJWT(t)
	u := &User{Username: "ana", Role: RoleAdmin}

	t.Run("expired", func(t *testing.T) {
		token, _, err := s.Issue(u, time.Now().Add(-10*time.Hour))
		require.NoError(t, err)
		_, err = s.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{Key: strings.Repeat("x", 40), Issuer: "AirSolutions", Audience: "AirSolutions.Web"})
		require.NoError(t, err)
		token, _, err := other.Issue(u, time.Now())
		require.NoError(t, err)
		_, err = s.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("other audience", func(t *testing.T) {
		other, err := NewJWTService(JWTConfig{Key: testKey, Issuer: "AirSolutions", Audience: "Elsewhere"})
		require.NoError(t, err)
		token, _, err := other.Issue(u, time.Now())
		require.NoError(t, err)
		_, err = s.Validate(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Validate("not-a-token")
		assert.Error(t, err)
	})
}

func TestLogin_Success(t *testing.T) {
	users := newMemoryUsers()
	addUser(t, users, "cristhian", "s3cret", RoleAdmin, true)
	svc := newTestService(t, users)

	res, err := svc.Login(context.Background(), Credentials{Username: " cristhian ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "cristhian", res.Username)
	assert.Equal(t, "Full cristhian", res.FullName)
	assert.Equal(t, RoleAdmin, res.Role)

	uc, err := svc.JWT().Validate(res.AccessToken)
	require.NoError(t, err)
	assert.True(t, uc.IsAdmin())

	stored, err := users.GetByUsername(context.Background(), "cristhian")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLogin_Failures(t *testing.T) {
	users := newMemoryUsers()
	addUser(t, users, "ana", "right", RoleUser, true)
	addUser(t, users, "old", "right", RoleUser, false)
	svc := newTestService(t, users)

	for name, creds := range map[string]Credentials{
		"unknown user":   {Username: "nobody", Password: "right"},
		"wrong password": {Username: "ana", Password: "wrong"},
		"inactive":       {Username: "old", Password: "right"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), creds)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
			assert.Equal(t, "invalid credentials", appErr.Message)
		})
	}

	_, err := svc.Login(context.Background(), Credentials{Username: " ", Password: ""})
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, []string{"username is required", "password is required"}, appErr.Messages())
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the admin", func(t *testing.T) {
		users := newMemoryUsers()
		svc := newTestService(t, users)
		require.NoError(t, svc.Bootstrap(ctx, BootstrapConfig{Password: "admin-pass"}))

		u, err := users.GetByUsername(ctx, "cristhian")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
		assert.Equal(t, "Cristhian Cuevas", u.FullName)
		assert.True(t, u.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("admin-pass")))
	})

	t.Run("requires a password to create", func(t *testing.T) {
		svc := newTestService(t, newMemoryUsers())
		assert.ErrorIs(t, svc.Bootstrap(ctx, BootstrapConfig{Username: "root"}), ErrBootstrapPassword)
	})

	t.Run("reactivates without touching the password", func(t *testing.T) {
		users := newMemoryUsers()
		before := addUser(t, users, "cristhian", "original", RoleUser, false)
		svc := newTestService(t, users)

		require.NoError(t, svc.Bootstrap(ctx, BootstrapConfig{Password: "ignored"}))

		u, err := users.GetByUsername(ctx, "cristhian")
		require.NoError(t, err)
		assert.True(t, u.IsActive)
		assert.Equal(t, RoleAdmin, u.Role)
		assert.Equal(t, before.PasswordHash, u.PasswordHash)
		assert.NotNil(t, u.UpdatedAt)
	})
}
