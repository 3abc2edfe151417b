package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/documents/quote"
	"airsolutions/internal/infrastructure/storage/postgres"
)

const (
	quotesTable     = "quotes"
	quoteLinesTable = "quote_lines"
)

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	*BaseDocumentRepo[*quote.Quote]
}

var _ quote.Repository = (*QuoteRepo)(nil)

// NewQuoteRepo creates a new quote repository.
func NewQuoteRepo(db postgres.QuerierProvider) *QuoteRepo {
	return &QuoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*quote.Quote](db, DocumentConfig{
			Table:        quotesTable,
			Entity:       "quote",
			LinesTable:   quoteLinesTable,
			ParentColumn: "quote_id",
		}, postgres.ExtractDBColumns[quote.Quote](), func() *quote.Quote { return &quote.Quote{} }),
	}
}

// Create inserts the header and its lines.
func (r *QuoteRepo) Create(ctx context.Context, q *quote.Quote) error {
	if err := r.CreateHeader(ctx, q); err != nil {
		return err
	}
	return r.InsertLines(ctx, q.ID, q.Lines)
}

// GetByID loads the header and its lines.
func (r *QuoteRepo) GetByID(ctx context.Context, quoteID id.ID) (*quote.Quote, error) {
	q, err := r.GetHeader(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q.Lines, err = r.GetLines(ctx, quoteID); err != nil {
		return nil, err
	}
	return q, nil
}

// GetDetails loads header, lines and the client summary.
func (r *QuoteRepo) GetDetails(ctx context.Context, quoteID id.ID) (*quote.Details, error) {
	q, err := r.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	clients, err := loadClientSummaries(ctx, r.Querier(ctx), []*id.ID{&q.ClientID})
	if err != nil {
		return nil, err
	}
	return &quote.Details{Quote: *q, Client: clients[q.ClientID]}, nil
}

// List searches quote names, descriptions and client names, newest first.
func (r *QuoteRepo) List(ctx context.Context, f quote.ListFilter) (domain.ListResult[*quote.ListItem], error) {
	q := r.Builder().
		Select(r.qualifiedColumns()...).
		From(quotesTable + " " + headerAlias).
		LeftJoin("clients c ON c.id = " + headerAlias + ".client_id")

	if f.Search != "" {
		q = q.Where(searchAny(f.Search,
			headerAlias+".name", headerAlias+".description",
			"c.first_name", "c.last_name", "c.company_name",
		))
	}
	if f.ClientID != nil {
		q = q.Where(squirrel.Eq{headerAlias + ".client_id": *f.ClientID})
	}
	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{headerAlias + ".id": f.IDs})
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return domain.ListResult[*quote.ListItem]{}, err
	}

	querier := r.Querier(ctx)
	result, err := listPage[*quote.ListItem](ctx, querier, r.Builder(), q, f.ListFilter, orderBy)
	if err != nil {
		return result, fmt.Errorf("list quotes: %w", err)
	}

	ids := make([]*id.ID, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, &item.ClientID)
	}
	clients, err := loadClientSummaries(ctx, querier, ids)
	if err != nil {
		return result, err
	}
	for _, item := range result.Items {
		item.Client = clients[item.ClientID]
	}
	return result, nil
}

// Delete removes the lines and the header. Invoices keep a null quote reference.
func (r *QuoteRepo) Delete(ctx context.Context, quoteID id.ID) error {
	return r.DeleteDocument(ctx, quoteID)
}
