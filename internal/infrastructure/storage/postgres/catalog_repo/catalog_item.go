package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/infrastructure/storage/postgres"
)

const catalogItemTable = "catalog_items"

// CatalogItemRepo implements catalogitem.Repository.
type CatalogItemRepo struct {
	*BaseCatalogRepo[*catalogitem.CatalogItem]
}

var _ catalogitem.Repository = (*CatalogItemRepo)(nil)

// NewCatalogItemRepo creates a new catalog item repository.
func NewCatalogItemRepo(db postgres.QuerierProvider) *CatalogItemRepo {
	return &CatalogItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*catalogitem.CatalogItem](db, TableConfig{
			Table:         catalogItemTable,
			Entity:        "catalog item",
			Columns:       postgres.ExtractDBColumns[catalogitem.CatalogItem](),
			SearchColumns: []string{"name", "description", "sku"},
			DefaultOrder:  "name ASC",
		}, func() *catalogitem.CatalogItem { return &catalogitem.CatalogItem{} }),
	}
}

// ListActive returns every active item ordered by name.
func (r *CatalogItemRepo) ListActive(ctx context.Context) ([]*catalogitem.CatalogItem, error) {
	return r.FindAll(ctx, r.Select().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC"))
}
