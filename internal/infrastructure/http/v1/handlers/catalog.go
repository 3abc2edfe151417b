package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
)

// CatalogService is the master-data service a CatalogHandler drives.
type CatalogService[T any] interface {
	Create(ctx context.Context, in T) (T, error)
	Update(ctx context.Context, entityID id.ID, in T) (T, error)
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	Delete(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides generic HTTP handlers for master-data entities.
type CatalogHandler[T any, Req any] struct {
	*BaseHandler
	service CatalogService[T]

	mapRequest func(req *Req) T
	// listFilter adds entity-specific query filters; false aborts the request
	listFilter func(c *gin.Context, f domain.ListFilter) (domain.ListFilter, bool)
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T any, Req any] struct {
	Service    CatalogService[T]
	MapRequest func(req *Req) T
	ListFilter func(c *gin.Context, f domain.ListFilter) (domain.ListFilter, bool)
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T any, Req any](base *BaseHandler, cfg CatalogHandlerConfig[T, Req]) *CatalogHandler[T, Req] {
	return &CatalogHandler[T, Req]{
		BaseHandler: base,
		service:     cfg.Service,
		mapRequest:  cfg.MapRequest,
		listFilter:  cfg.ListFilter,
	}
}

// List handles GET /{entity}; the response is a JSON array.
func (h *CatalogHandler[T, Req]) List(c *gin.Context) {
	f, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if h.listFilter != nil {
		if f, ok = h.listFilter(c, f); !ok {
			return
		}
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result.Items)
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, Req]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}
	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}
	e, err := h.service.Create(c.Request.Context(), h.mapRequest(&req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, e)
}

// Update handles PUT /{entity}/:id.
func (h *CatalogHandler[T, Req]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}
	e, err := h.service.Update(c.Request.Context(), entityID, h.mapRequest(&req))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T, Req]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
