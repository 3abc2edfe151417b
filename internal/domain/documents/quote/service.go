package quote

import (
	"context"
	"fmt"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/tx"
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/audit"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/pricing"
	"airsolutions/pkg/logger"
)

const emptyLinesMessage = "the quote must have at least one line"

// Service implements quote use cases.
type Service struct {
	repo      Repository
	clients   ClientStore
	txManager tx.Manager
}

// NewService creates a new quote service.
func NewService(repo Repository, clients ClientStore, txm tx.Manager) *Service {
	if txm == nil {
		txm = tx.Inline
	}
	return &Service{repo: repo, clients: clients, txManager: txm}
}

func (s *Service) checkClient(ctx context.Context, clientID id.ID, v *apperror.Collector) error {
	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if !ok {
		v.Add("the selected client does not exist")
	}
	return nil
}

// Create stores a quote. An inline new client is created in the same
// transaction; a template quote fills in what the request leaves empty.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Quote, error) {
	var v apperror.Collector

	name := types.TrimToNil(req.Name)
	description := types.TrimToNil(req.Description)
	inputs := req.Lines

	if req.FromQuoteID != nil {
		tmpl, err := s.repo.GetByID(ctx, *req.FromQuoteID)
		switch {
		case apperror.IsNotFound(err):
			v.Add("the template quote does not exist")
		case err != nil:
			return nil, fmt.Errorf("load template quote: %w", err)
		default:
			if name == nil {
				name = tmpl.Name
			}
			if description == nil {
				description = tmpl.Description
			}
			if len(inputs) == 0 {
				inputs = tmpl.Inputs()
			}
		}
	}

	var newClient *client.Client
	switch {
	case req.ClientID != nil && !id.IsNil(*req.ClientID):
		if err := s.checkClient(ctx, *req.ClientID, &v); err != nil {
			return nil, err
		}
	case req.NewClient != nil:
		newClient = client.NewClient()
		newClient.Apply(req.NewClient)
		newClient.IsActive = true
		newClient.Normalize()
		newClient.Collect(&v)
	default:
		v.Add("must select an existing client or create a new one")
	}

	lines := pricing.Build(inputs, emptyLinesMessage, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	q := &Quote{
		BaseDocument: entity.NewBaseDocument(),
		Name:         name,
		Description:  description,
		Lines:        lines,
	}
	q.Recalculate()
	_ = audit.StampCreated(ctx, q)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if newClient != nil {
			if err := s.clients.Create(ctx, newClient); err != nil {
				return fmt.Errorf("create client: %w", err)
			}
			q.ClientID = newClient.ID
		} else {
			q.ClientID = *req.ClientID
		}
		if err := s.repo.Create(ctx, q); err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote created", "quote_id", q.ID, "client_id", q.ClientID, "grand_total", q.GrandTotal)
	return q, nil
}

// Update replaces header fields and lines and recomputes totals.
func (s *Service) Update(ctx context.Context, quoteID id.ID, req UpdateRequest) (*Quote, error) {
	q, err := s.repo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	var v apperror.Collector
	switch {
	case req.NewClient != nil:
		v.Add("a new client cannot be created while editing a quote; create it first and select it")
	case req.ClientID == nil || id.IsNil(*req.ClientID):
		v.Add("a client must be selected")
	default:
		if err := s.checkClient(ctx, *req.ClientID, &v); err != nil {
			return nil, err
		}
	}
	lines := pricing.Build(req.Lines, emptyLinesMessage, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	q.ClientID = *req.ClientID
	q.Name = types.TrimToNil(req.Name)
	q.Description = types.TrimToNil(req.Description)
	q.Lines = lines
	q.Recalculate()
	q.Touch()
	_ = audit.StampUpdated(ctx, q)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.ReplaceLines(ctx, q.ID, lines); err != nil {
			return fmt.Errorf("replace quote lines: %w", err)
		}
		if err := s.repo.Update(ctx, q); err != nil {
			return fmt.Errorf("update quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Get returns the quote with its lines and client summary.
func (s *Service) Get(ctx context.Context, quoteID id.ID) (*Details, error) {
	return s.repo.GetDetails(ctx, quoteID)
}

// List returns quotes matching filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ListItem], error) {
	return s.repo.List(ctx, filter)
}

// Exists reports whether the quote exists. Used by invoices referencing a quote.
func (s *Service) Exists(ctx context.Context, quoteID id.ID) (bool, error) {
	return s.repo.Exists(ctx, quoteID)
}

// Delete removes the quote and its lines.
func (s *Service) Delete(ctx context.Context, quoteID id.ID) error {
	if err := s.repo.Delete(ctx, quoteID); err != nil {
		return err
	}
	logger.Info(ctx, "quote deleted", "quote_id", quoteID)
	return nil
}
