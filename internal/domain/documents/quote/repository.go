package quote

import (
	"context"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/catalogs/client"
)

// ListFilter contains quote-specific filtering options.
type ListFilter struct {
	domain.ListFilter
	ClientID *id.ID
}

// Repository defines the interface for quote persistence.
type Repository interface {
	// Create inserts the header and its lines.
	Create(ctx context.Context, q *Quote) error

	// Update writes the header only.
	Update(ctx context.Context, q *Quote) error

	// ReplaceLines deletes the current lines and inserts lines.
	ReplaceLines(ctx context.Context, quoteID id.ID, lines []Line) error

	// GetByID loads the header and its lines ordered by line number.
	GetByID(ctx context.Context, quoteID id.ID) (*Quote, error)

	// GetDetails loads header, lines and the client summary.
	GetDetails(ctx context.Context, quoteID id.ID) (*Details, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ListItem], error)

	Exists(ctx context.Context, quoteID id.ID) (bool, error)

	// Delete removes the header; lines cascade.
	Delete(ctx context.Context, quoteID id.ID) error
}

// ClientStore checks client references and creates clients inline.
type ClientStore interface {
	Exists(ctx context.Context, clientID id.ID) (bool, error)
	Create(ctx context.Context, c *client.Client) error
}
