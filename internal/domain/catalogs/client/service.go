package client

import (
	"context"

	"airsolutions/internal/core/id"
	"airsolutions/internal/core/tx"
	"airsolutions/internal/domain"
)

// Service provides business logic for the Client catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Client]
	repo Repository
}

// NewService creates a new Client service.
func NewService(repo Repository, txm tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "client",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

func (s *Service) prepare(_ context.Context, c *Client) error {
	c.Normalize()
	return nil
}

// Create registers a new client built from the editable fields of in.
func (s *Service) Create(ctx context.Context, in *Client) (*Client, error) {
	c := NewClient()
	c.Apply(in)
	c.Normalize()
	if err := s.CatalogService.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields of an existing client.
func (s *Service) Update(ctx context.Context, clientID id.ID, in *Client) (*Client, error) {
	existing, err := s.GetByID(ctx, clientID)
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

// ListActive returns every active client.
func (s *Service) ListActive(ctx context.Context) ([]*Client, error) {
	return s.repo.ListActive(ctx)
}
