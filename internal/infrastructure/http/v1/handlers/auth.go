package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/domain/auth"
	"airsolutions/internal/infrastructure/http/v1/dto"
)

// LoginService authenticates users.
type LoginService interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.LoginResult, error)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service LoginService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service LoginService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
