// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// RoleAdmin is the role allowed to modify business records.
const RoleAdmin = "Admin"

// UserContext contains authenticated user information taken from the access token.
type UserContext struct {
	Username  string
	FullName  string
	Role      string
	SessionID string
}

// IsAdmin reports whether the user holds the Admin role.
func (u *UserContext) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUsername returns the authenticated username or empty string.
func GetUsername(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.Username
	}
	return ""
}
