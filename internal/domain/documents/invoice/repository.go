package invoice

import (
	"context"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/fiscalvoucher"
)

// ListFilter contains invoice-specific filtering options.
type ListFilter struct {
	domain.ListFilter
	ClientID *id.ID
	Status   *Status
}

// Repository defines the interface for invoice persistence.
type Repository interface {
	// Create inserts the header and its lines.
	Create(ctx context.Context, inv *Invoice) error

	// Update writes the header only.
	Update(ctx context.Context, inv *Invoice) error

	// ReplaceLines deletes the current lines and inserts lines.
	ReplaceLines(ctx context.Context, invoiceID id.ID, lines []Line) error

	// GetByID loads the header and its lines.
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// GetForUpdate loads the header with a row lock. Must run in a transaction.
	GetForUpdate(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// GetDetails loads header, lines (by line number), payments (newest
	// payment date first) and the client and voucher summaries.
	GetDetails(ctx context.Context, invoiceID id.ID) (*Details, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*ListItem], error)

	AddPayment(ctx context.Context, p *Payment) error

	// Delete removes payments, lines and the header.
	Delete(ctx context.Context, invoiceID id.ID) error
}

// ClientChecker verifies client references.
type ClientChecker interface {
	Exists(ctx context.Context, clientID id.ID) (bool, error)
}

// QuoteChecker verifies quote references.
type QuoteChecker interface {
	Exists(ctx context.Context, quoteID id.ID) (bool, error)
}

// VoucherAllocator hands out and takes back fiscal vouchers.
type VoucherAllocator interface {
	HasAvailable(ctx context.Context) (bool, error)
	Allocate(ctx context.Context, invoiceID id.ID) (*fiscalvoucher.FiscalVoucher, error)
	Release(ctx context.Context, voucherID *id.ID, invoiceID id.ID) error
}

var _ VoucherAllocator = (*fiscalvoucher.Service)(nil)
