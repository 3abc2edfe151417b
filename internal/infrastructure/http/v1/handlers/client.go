package handlers

import (
	"github.com/gin-gonic/gin"

	"airsolutions/internal/domain"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/filter"
	"airsolutions/internal/infrastructure/http/v1/dto"
)

// ClientHandler handles /clients.
type ClientHandler = CatalogHandler[*client.Client, dto.ClientRequest]

// NewClientHandler creates the client handler. List accepts search and isActive.
func NewClientHandler(base *BaseHandler, service CatalogService[*client.Client]) *ClientHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.ClientRequest]{
		Service:    service,
		MapRequest: (*dto.ClientRequest).ToEntity,
		ListFilter: func(c *gin.Context, f domain.ListFilter) (domain.ListFilter, bool) {
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
