package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/infrastructure/storage/postgres"
)

const clientTable = "clients"

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

var _ client.Repository = (*ClientRepo)(nil)

// NewClientRepo creates a new client repository.
func NewClientRepo(db postgres.QuerierProvider) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*client.Client](db, TableConfig{
			Table:   clientTable,
			Entity:  "client",
			Columns: postgres.ExtractDBColumns[client.Client](),
			SearchColumns: []string{
				"first_name", "last_name", "company_name", "phone", "secondary_phone",
			},
			DefaultOrder: "created_at DESC",
		}, func() *client.Client { return &client.Client{} }),
	}
}

// ListActive returns every active client, newest first.
func (r *ClientRepo) ListActive(ctx context.Context) ([]*client.Client, error) {
	return r.FindAll(ctx, r.Select().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at DESC"))
}
