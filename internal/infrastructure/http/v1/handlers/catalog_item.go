package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/domain"
	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/filter"
	"airsolutions/internal/infrastructure/http/v1/dto"
)

// CatalogItemHandler handles /catalog-items.
type CatalogItemHandler = CatalogHandler[*catalogitem.CatalogItem, dto.CatalogItemRequest]

// NewCatalogItemHandler creates the catalog item handler. List accepts
// search, itemType and isActive.
func NewCatalogItemHandler(base *BaseHandler, service CatalogService[*catalogitem.CatalogItem]) *CatalogItemHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*catalogitem.CatalogItem, dto.CatalogItemRequest]{
		Service:    service,
		MapRequest: (*dto.CatalogItemRequest).ToEntity,
		ListFilter: func(c *gin.Context, f domain.ListFilter) (domain.ListFilter, bool) {
			if t := strings.TrimSpace(c.Query("itemType")); t != "" {
				f = f.Where(filter.Eq("item_type", t))
			}
			active, ok := base.ParseBoolQuery(c, "isActive")
			if !ok {
				return f, false
			}
			if active != nil {
				f = f.Where(filter.Eq("is_active", *active))
			}
			return f, true
		},
	})
}
