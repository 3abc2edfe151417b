// Package fiscalvoucher manages the pool of government-issued voucher
// numbers and their exclusive allocation to invoices.
package fiscalvoucher

import (
	"fmt"
	"strings"
	"time"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
)

// DefaultType is the voucher series used by the seed data.
const DefaultType = "B01"

// FiscalVoucher is one voucher number. It is either unused or held by
// exactly one invoice.
type FiscalVoucher struct {
	ID            id.ID   `db:"id" json:"id"`
	VoucherNumber string  `db:"voucher_number" json:"voucherNumber"`
	VoucherType   *string `db:"voucher_type" json:"voucherType,omitempty"`

	IsUsed          bool       `db:"is_used" json:"isUsed"`
	UsedAt          *time.Time `db:"used_at" json:"usedAt,omitempty"`
	UsedInInvoiceID *id.ID     `db:"used_in_invoice_id" json:"usedInInvoiceId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New builds an unused voucher. The number is trimmed; a blank number is a
// validation error.
func New(number string, voucherType *string) (*FiscalVoucher, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, apperror.NewValidation("voucherNumber is required")
	}
	return &FiscalVoucher{
		ID:            id.New(),
		VoucherNumber: number,
		VoucherType:   types.TrimToNil(voucherType),
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// AllocateTo marks the voucher as held by invoiceID.
func (v *FiscalVoucher) AllocateTo(invoiceID id.ID, at time.Time) {
	v.IsUsed = true
	v.UsedAt = &at
	v.UsedInInvoiceID = &invoiceID
}

// HeldBy reports whether the voucher is allocated to invoiceID.
func (v *FiscalVoucher) HeldBy(invoiceID id.ID) bool {
	return v.UsedInInvoiceID != nil && *v.UsedInInvoiceID == invoiceID
}

// Release returns the voucher to the unused pool.
func (v *FiscalVoucher) Release() {
	v.IsUsed = false
	v.UsedAt = nil
	v.UsedInInvoiceID = nil
}

// Summary is the voucher view embedded in invoice responses.
type Summary struct {
	ID            id.ID   `db:"id" json:"id"`
	VoucherNumber string  `db:"voucher_number" json:"voucherNumber"`
	VoucherType   *string `db:"voucher_type" json:"voucherType,omitempty"`
}

// ErrNoneAvailable reports an exhausted voucher pool.
func ErrNoneAvailable() *apperror.AppError {
	return apperror.NewValidation("no fiscal vouchers available").
		WithDetail("reason", "NO_VOUCHER_AVAILABLE")
}

// ErrDuplicate reports an already registered voucher number.
func ErrDuplicate(number string) *apperror.AppError {
	return apperror.NewConflict("voucher already exists").
		WithDetail("voucherNumber", number)
}

// SeedNumbers returns the initial series B0100000001..B0100000010.
func SeedNumbers() []string {
	out := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		out = append(out, fmt.Sprintf("%s%08d", DefaultType, i))
	}
	return out
}
