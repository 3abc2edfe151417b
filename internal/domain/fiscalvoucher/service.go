package fiscalvoucher

import (
	"context"
	"fmt"
	"time"

	"airsolutions/internal/core/id"
	"airsolutions/pkg/logger"
)

// Service lists and registers vouchers and allocates them to invoices.
// Allocate and Release are called by the invoice service inside its
// transaction.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new voucher service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns vouchers ordered by number.
func (s *Service) List(ctx context.Context, onlyAvailable bool) ([]*FiscalVoucher, error) {
	return s.repo.List(ctx, onlyAvailable)
}

// Create registers a new unused voucher number.
func (s *Service) Create(ctx context.Context, number string, voucherType *string) (*FiscalVoucher, error) {
	v, err := New(number, voucherType)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	logger.Info(ctx, "fiscal voucher registered", "voucher_number", v.VoucherNumber)
	return v, nil
}

// HasAvailable reports whether an allocation could currently succeed.
func (s *Service) HasAvailable(ctx context.Context) (bool, error) {
	return s.repo.HasAvailable(ctx)
}

// Allocate assigns the smallest unused voucher to invoiceID.
func (s *Service) Allocate(ctx context.Context, invoiceID id.ID) (*FiscalVoucher, error) {
	v, err := s.repo.AllocateNext(ctx, invoiceID, s.now())
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "fiscal voucher allocated", "voucher_number", v.VoucherNumber, "invoice_id", invoiceID)
	return v, nil
}

// Release frees voucherID when it is still held by invoiceID. A voucher held
// by another invoice is left untouched.
func (s *Service) Release(ctx context.Context, voucherID *id.ID, invoiceID id.ID) error {
	if voucherID == nil {
		return nil
	}
	released, err := s.repo.Release(ctx, *voucherID, invoiceID)
	if err != nil {
		return fmt.Errorf("release voucher: %w", err)
	}
	if released {
		logger.Info(ctx, "fiscal voucher released", "voucher_id", *voucherID, "invoice_id", invoiceID)
	}
	return nil
}
