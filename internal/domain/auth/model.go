// Package auth provides users, login and access tokens.
package auth

import (
	"strings"
	"time"

	appctx "airsolutions/internal/core/context"
	"airsolutions/internal/core/id"
)

// Roles known to the application.
const (
	RoleAdmin = appctx.RoleAdmin
	RoleUser  = "User"
)

// User is an account that can log in.
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// NewUser creates an active user.
func NewUser(username, fullName, role string) *User {
	return &User{
		ID:        id.New(),
		Username:  strings.TrimSpace(username),
		FullName:  strings.TrimSpace(fullName),
		Role:      strings.TrimSpace(role),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// DisplayName is the full name, or the username when it is blank.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.FullName) == "" {
		return u.Username
	}
	return u.FullName
}

// EffectiveRole is the role, defaulting to User.
func (u *User) EffectiveRole() string {
	if strings.TrimSpace(u.Role) == "" {
		return RoleUser
	}
	return u.Role
}

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken  string    `json:"accessToken"`
	ExpiresAtUTC time.Time `json:"expiresAtUtc"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
}

// BootstrapConfig describes the administrator ensured at startup.
type BootstrapConfig struct {
	Username string
	Password string
	FullName string
	Role     string
}

const (
	defaultAdminUsername = "cristhian"
	defaultAdminFullName = "Cristhian Cuevas"
)

func (c BootstrapConfig) withDefaults() BootstrapConfig {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		c.Username = defaultAdminUsername
	}
	c.FullName = strings.TrimSpace(c.FullName)
	if c.FullName == "" {
		c.FullName = defaultAdminFullName
	}
	c.Role = strings.TrimSpace(c.Role)
	if c.Role == "" {
		c.Role = RoleAdmin
	}
	c.Password = strings.TrimSpace(c.Password)
	return c
}
