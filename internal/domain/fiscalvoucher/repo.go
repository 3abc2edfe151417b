package fiscalvoucher

import (
	"context"
	"time"

	"airsolutions/internal/core/id"
)

// Repository defines the interface for FiscalVoucher persistence.
type Repository interface {
	// List returns vouchers ordered by number, optionally only unused ones.
	List(ctx context.Context, onlyAvailable bool) ([]*FiscalVoucher, error)

	// Create inserts a voucher; a duplicate number yields ErrDuplicate.
	Create(ctx context.Context, v *FiscalVoucher) error

	GetByID(ctx context.Context, voucherID id.ID) (*FiscalVoucher, error)

	// HasAvailable reports whether any unused voucher exists.
	HasAvailable(ctx context.Context) (bool, error)

	// AllocateNext locks the smallest unused voucher number, skipping rows
	// locked by concurrent allocators, and assigns it to invoiceID.
	// Returns ErrNoneAvailable when the pool is empty. Must run in a transaction.
	AllocateNext(ctx context.Context, invoiceID id.ID, at time.Time) (*FiscalVoucher, error)

	// Release frees the voucher only while it is held by invoiceID and
	// reports whether a row changed.
	Release(ctx context.Context, voucherID, invoiceID id.ID) (bool, error)
}
