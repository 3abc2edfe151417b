package catalogitem

import (
	"context"

	"airsolutions/internal/core/id"
	"airsolutions/internal/core/tx"
	"airsolutions/internal/domain"
)

// Service provides business logic for the catalog.
type Service struct {
	*domain.CatalogService[*CatalogItem]
	repo Repository
}

// NewService creates a new catalog item service.
func NewService(repo Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*CatalogItem]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "catalog item",
	})
	return &Service{CatalogService: base, repo: repo}
}

// Create adds an item built from the editable fields of in.
func (s *Service) Create(ctx context.Context, in *CatalogItem) (*CatalogItem, error) {
	item := NewCatalogItem()
	item.Apply(in)
	item.Normalize()
	if err := s.CatalogService.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update replaces the editable fields of an existing item.
func (s *Service) Update(ctx context.Context, itemID id.ID, in *CatalogItem) (*CatalogItem, error) {
	existing, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	existing.Apply(in)
	existing.Normalize()
	existing.Touch()

	if err := s.CatalogService.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ListActive returns every active item.
func (s *Service) ListActive(ctx context.Context) ([]*CatalogItem, error) {
	return s.repo.ListActive(ctx)
}
