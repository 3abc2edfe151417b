package client

import (
	"context"

	"airsolutions/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]

	// ListActive returns every active client, newest first.
	ListActive(ctx context.Context) ([]*Client, error)
}
