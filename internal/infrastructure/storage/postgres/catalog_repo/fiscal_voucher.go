package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"airsolutions/internal/core/id"
	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/infrastructure/storage/postgres"
)

const fiscalVoucherTable = "fiscal_vouchers"

// allocateNextSQL takes the smallest unused number. SKIP LOCKED lets
// concurrent allocators move past rows another transaction is claiming.
const allocateNextSQL = `
	UPDATE fiscal_vouchers
	SET is_used = true, used_at = $1, used_in_invoice_id = $2
	WHERE id = (
		SELECT id FROM fiscal_vouchers
		WHERE is_used = false
		ORDER BY voucher_number
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	)
	RETURNING id, voucher_number, voucher_type, created_at`

// FiscalVoucherRepo implements fiscalvoucher.Repository.
type FiscalVoucherRepo struct {
	*BaseCatalogRepo[*fiscalvoucher.FiscalVoucher]
}

var _ fiscalvoucher.Repository = (*FiscalVoucherRepo)(nil)

// NewFiscalVoucherRepo creates a new fiscal voucher repository.
func NewFiscalVoucherRepo(db postgres.QuerierProvider) *FiscalVoucherRepo {
	return &FiscalVoucherRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*fiscalvoucher.FiscalVoucher](db, TableConfig{
			Table:        fiscalVoucherTable,
			Entity:       "fiscal voucher",
			Columns:      postgres.ExtractDBColumns[fiscalvoucher.FiscalVoucher](),
			DefaultOrder: "voucher_number ASC",
		}, func() *fiscalvoucher.FiscalVoucher { return &fiscalvoucher.FiscalVoucher{} }),
	}
}

// List returns vouchers ordered by number, optionally only unused ones.
func (r *FiscalVoucherRepo) List(ctx context.Context, onlyAvailable bool) ([]*fiscalvoucher.FiscalVoucher, error) {
	q := r.Select().OrderBy("voucher_number ASC")
	if onlyAvailable {
		q = q.Where(squirrel.Eq{"is_used": false})
	}
	return r.FindAll(ctx, q)
}

// Create inserts a voucher; a duplicate number yields fiscalvoucher.ErrDuplicate.
func (r *FiscalVoucherRepo) Create(ctx context.Context, v *fiscalvoucher.FiscalVoucher) error {
	sql, args, err := r.Builder().
		Insert(fiscalVoucherTable).
		Columns("id", "voucher_number", "voucher_type", "is_used", "created_at").
		Values(v.ID, v.VoucherNumber, v.VoucherType, false, v.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return fiscalvoucher.ErrDuplicate(v.VoucherNumber).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", fiscalVoucherTable, err)
	}
	return nil
}

// HasAvailable reports whether any unused voucher exists.
func (r *FiscalVoucherRepo) HasAvailable(ctx context.Context) (bool, error) {
	var ok bool
	err := r.Querier(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM fiscal_vouchers WHERE is_used = false)`).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check available vouchers: %w", err)
	}
	return ok, nil
}

// AllocateNext assigns the smallest unused voucher to invoiceID.
func (r *FiscalVoucherRepo) AllocateNext(ctx context.Context, invoiceID id.ID, at time.Time) (*fiscalvoucher.FiscalVoucher, error) {
	v := &fiscalvoucher.FiscalVoucher{}
	err := r.Querier(ctx).QueryRow(ctx, allocateNextSQL, at, invoiceID).
		Scan(&v.ID, &v.VoucherNumber, &v.VoucherType, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fiscalvoucher.ErrNoneAvailable()
	}
	if err != nil {
		return nil, fmt.Errorf("allocate fiscal voucher: %w", err)
	}
	v.AllocateTo(invoiceID, at)
	return v, nil
}

// Release frees the voucher only while invoiceID holds it.
func (r *FiscalVoucherRepo) Release(ctx context.Context, voucherID, invoiceID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Update(fiscalVoucherTable).
		Set("is_used", false).
		Set("used_at", nil).
		Set("used_in_invoice_id", nil).
		Where(squirrel.Eq{"id": voucherID, "used_in_invoice_id": invoiceID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build release: %w", err)
	}

	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("release fiscal voucher: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
