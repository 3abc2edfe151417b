package catalogitem

import (
	"context"

	"airsolutions/internal/domain"
)

// Repository defines the interface for CatalogItem persistence.
type Repository interface {
	domain.CatalogRepository[*CatalogItem]

	// ListActive returns every active item ordered by name.
	ListActive(ctx context.Context) ([]*CatalogItem, error)
}
