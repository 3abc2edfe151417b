package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/documents/invoice"
	"airsolutions/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable        = "invoices"
	invoiceLinesTable    = "invoice_lines"
	invoicePaymentsTable = "invoice_payments"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
	paymentCols []string
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(db postgres.QuerierProvider) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*invoice.Invoice](db, DocumentConfig{
			Table:        invoicesTable,
			Entity:       "invoice",
			LinesTable:   invoiceLinesTable,
			ParentColumn: "invoice_id",
		}, postgres.ExtractDBColumns[invoice.Invoice](), func() *invoice.Invoice { return &invoice.Invoice{} }),
		paymentCols: postgres.ExtractDBColumns[invoice.Payment](),
	}
}

// Create inserts the header and its lines.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	if err := r.CreateHeader(ctx, inv); err != nil {
		return err
	}
	return r.InsertLines(ctx, inv.ID, inv.Lines)
}

// GetByID loads the header and its lines.
func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	inv, err := r.GetHeader(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Lines, err = r.GetLines(ctx, invoiceID); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetForUpdate locks the header row and loads the lines.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	inv, err := r.GetHeaderForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Lines, err = r.GetLines(ctx, invoiceID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepo) getPayments(ctx context.Context, invoiceID id.ID) ([]invoice.Payment, error) {
	sql, args, err := r.Builder().
		Select(r.paymentCols...).
		From(invoicePaymentsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("payment_date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	payments := []invoice.Payment{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	return payments, nil
}

// GetDetails loads header, lines, payments and the client and voucher summaries.
func (r *InvoiceRepo) GetDetails(ctx context.Context, invoiceID id.ID) (*invoice.Details, error) {
	inv, err := r.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Payments, err = r.getPayments(ctx, invoiceID); err != nil {
		return nil, err
	}

	details := &invoice.Details{Invoice: *inv}
	if err := r.attachSummaries(ctx, []*invoice.ListItem{details}); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *InvoiceRepo) attachSummaries(ctx context.Context, items []*invoice.ListItem) error {
	clientIDs := make([]*id.ID, 0, len(items))
	voucherIDs := make([]*id.ID, 0, len(items))
	for _, item := range items {
		clientIDs = append(clientIDs, &item.ClientID)
		voucherIDs = append(voucherIDs, item.FiscalVoucherID)
	}

	querier := r.Querier(ctx)
	clients, err := loadClientSummaries(ctx, querier, clientIDs)
	if err != nil {
		return err
	}
	vouchers, err := loadVoucherSummaries(ctx, querier, voucherIDs)
	if err != nil {
		return err
	}

	for _, item := range items {
		item.Client = clients[item.ClientID]
		if item.FiscalVoucherID != nil {
			item.FiscalVoucher = vouchers[*item.FiscalVoucherID]
		}
	}
	return nil
}

// List searches codes, descriptions, client names and voucher numbers, newest first.
func (r *InvoiceRepo) List(ctx context.Context, f invoice.ListFilter) (domain.ListResult[*invoice.ListItem], error) {
	q := r.Builder().
		Select(r.qualifiedColumns()...).
		From(invoicesTable + " " + headerAlias).
		LeftJoin("clients c ON c.id = " + headerAlias + ".client_id").
		LeftJoin("fiscal_vouchers v ON v.id = " + headerAlias + ".fiscal_voucher_id")

	if f.Search != "" {
		q = q.Where(searchAny(f.Search,
			headerAlias+".invoice_code", headerAlias+".description",
			"c.first_name", "c.last_name", "c.company_name",
			"v.voucher_number",
		))
	}
	if f.ClientID != nil {
		q = q.Where(squirrel.Eq{headerAlias + ".client_id": *f.ClientID})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{headerAlias + ".status": string(*f.Status)})
	}
	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{headerAlias + ".id": f.IDs})
	}

	orderBy, err := r.parseOrderBy(f.OrderBy)
	if err != nil {
		return domain.ListResult[*invoice.ListItem]{}, err
	}

	result, err := listPage[*invoice.ListItem](ctx, r.Querier(ctx), r.Builder(), q, f.ListFilter, orderBy)
	if err != nil {
		return result, fmt.Errorf("list invoices: %w", err)
	}
	if err := r.attachSummaries(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

// AddPayment inserts a payment row.
func (r *InvoiceRepo) AddPayment(ctx context.Context, p *invoice.Payment) error {
	data := postgres.StructToMap(p)
	values := make(map[string]any, len(r.paymentCols))
	for _, col := range r.paymentCols {
		values[col] = data[col]
	}

	sql, args, err := r.Builder().
		Insert(invoicePaymentsTable).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Delete removes payments, lines and the header.
func (r *InvoiceRepo) Delete(ctx context.Context, invoiceID id.ID) error {
	if _, err := r.Querier(ctx).Exec(ctx,
		"DELETE FROM "+invoicePaymentsTable+" WHERE invoice_id = $1", invoiceID); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return r.DeleteDocument(ctx, invoiceID)
}
