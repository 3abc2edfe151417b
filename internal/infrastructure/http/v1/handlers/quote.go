package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/documents/quote"
	"airsolutions/internal/infrastructure/http/v1/dto"
)

// QuoteService is the quote use-case surface used by QuoteHandler.
type QuoteService interface {
	Create(ctx context.Context, req quote.CreateRequest) (*quote.Quote, error)
	Update(ctx context.Context, quoteID id.ID, req quote.UpdateRequest) (*quote.Quote, error)
	Get(ctx context.Context, quoteID id.ID) (*quote.Details, error)
	List(ctx context.Context, filter quote.ListFilter) (domain.ListResult[*quote.ListItem], error)
	Delete(ctx context.Context, quoteID id.ID) error
}

// QuoteHandler handles /quotes.
type QuoteHandler struct {
	*BaseHandler
	service QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(base *BaseHandler, service QuoteService) *QuoteHandler {
	return &QuoteHandler{BaseHandler: base, service: service}
}

// List handles GET /quotes?search=&clientId=.
func (h *QuoteHandler) List(c *gin.Context) {
	base, ok := h.ListFilter(c)
	if !ok {
		return
	}
	clientID, ok := h.ParseOptionalIDQuery(c, "clientId")
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), quote.ListFilter{ListFilter: base, ClientID: clientID})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result.Items)
}

// Get handles GET /quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}
	q, err := h.service.Get(c.Request.Context(), quoteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, q)
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.service.Create(c.Request.Context(), req.ToCreate())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, q)
}

// Update handles PUT /quotes/:id.
func (h *QuoteHandler) Update(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.service.Update(c.Request.Context(), quoteID, req.ToUpdate())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, q)
}

// Delete handles DELETE /quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), quoteID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
