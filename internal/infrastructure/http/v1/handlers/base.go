// Package handlers provides HTTP request handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/filter"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON decodes the body into obj and checks its validate tags.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	if err := validateStruct(obj); err != nil {
		h.Error(c, err)
		return false
	}
	return true
}

// Error registers err on the gin context and aborts the request. The
// response is rendered by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (id.ID, bool) {
	return h.parseIDParam(c, "id")
}

func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (id.ID, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return v, true
}

// ParseOptionalIDQuery parses an optional uuid query parameter.
func (h *BaseHandler) ParseOptionalIDQuery(c *gin.Context, key string) (*id.ID, bool) {
	v, err := id.ParseOptional(c.Query(key))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key))
		return nil, false
	}
	return v, true
}

// ParseBoolQuery parses an optional boolean query parameter.
func (h *BaseHandler) ParseBoolQuery(c *gin.Context, key string) (*bool, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+": expected true or false"))
		return nil, false
	}
	return &v, true
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return defaultVal
	}
	return parsed
}

// ListFilter reads search, paging, ordering and the JSON "filter" parameter.
func (h *BaseHandler) ListFilter(c *gin.Context) (domain.ListFilter, bool) {
	f := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderBy"),
		Limit:   h.ParseIntQuery(c, "limit", 0),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("filter"); raw != "" {
		var items []filter.Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return f, false
		}
		f.Filters = items
	}
	return f, true
}

// Created sends 201 with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
