package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/domain/assistant"
)

// Interpreter interprets assistant messages.
type Interpreter interface {
	Interpret(ctx context.Context, req assistant.Request) (*assistant.Response, error)
}

// AssistantHandler handles /assistant.
type AssistantHandler struct {
	*BaseHandler
	service Interpreter
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(base *BaseHandler, service Interpreter) *AssistantHandler {
	return &AssistantHandler{BaseHandler: base, service: service}
}

// Interpret handles POST /assistant/interpret. A response with ok=false is
// returned as 400 with the same body shape.
func (h *AssistantHandler) Interpret(c *gin.Context) {
	var req assistant.Request
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.Interpret(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	if !resp.OK {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	h.OK(c, resp)
}
