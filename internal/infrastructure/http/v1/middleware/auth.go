package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/apperror"
	appctx "airsolutions/internal/core/context"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	Validate(tokenString string) (*appctx.UserContext, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Auth validates the bearer token and puts the user into the request context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.Validate(token)
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token").WithCause(err))
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set("username", user.Username)

		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := validator.Validate(token); err == nil && user != nil {
				c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
				c.Set("username", user.Username)
			}
		}
		c.Next()
	}
}

// RequireRole rejects users holding none of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		for _, required := range roles {
			if strings.EqualFold(user.Role, required) {
				c.Next()
				return
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
