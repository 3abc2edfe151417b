package fiscalvoucher

import (
	"context"
	"sort"
	"sync"
	"time"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
)

// MemoryRepository is an in-process Repository used by tests and by the
// invoice service tests to exercise allocation.
type MemoryRepository struct {
	mu       sync.Mutex
	vouchers map[id.ID]*FiscalVoucher
}

// NewMemoryRepository creates an empty pool.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{vouchers: make(map[id.ID]*FiscalVoucher)}
}

func (r *MemoryRepository) sorted() []*FiscalVoucher {
	out := make([]*FiscalVoucher, 0, len(r.vouchers))
	for _, v := range r.vouchers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VoucherNumber < out[j].VoucherNumber })
	return out
}

func (r *MemoryRepository) List(_ context.Context, onlyAvailable bool) ([]*FiscalVoucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*FiscalVoucher{}
	for _, v := range r.sorted() {
		if onlyAvailable && v.IsUsed {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, v *FiscalVoucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vouchers {
		if existing.VoucherNumber == v.VoucherNumber {
			return ErrDuplicate(v.VoucherNumber)
		}
	}
	cp := *v
	r.vouchers[v.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, voucherID id.ID) (*FiscalVoucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[voucherID]
	if !ok {
		return nil, apperror.NewNotFound("fiscal voucher", voucherID.String())
	}
	cp := *v
	return &cp, nil
}

func (r *MemoryRepository) HasAvailable(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vouchers {
		if !v.IsUsed {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) AllocateNext(_ context.Context, invoiceID id.ID, at time.Time) (*FiscalVoucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.sorted() {
		if !v.IsUsed {
			v.AllocateTo(invoiceID, at)
			cp := *v
			return &cp, nil
		}
	}
	return nil, ErrNoneAvailable()
}

func (r *MemoryRepository) Release(_ context.Context, voucherID, invoiceID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[voucherID]
	if !ok || !v.HeldBy(invoiceID) {
		return false, nil
	}
	v.Release()
	return true, nil
}

// Seed adds unused vouchers with the given numbers.
func (r *MemoryRepository) Seed(numbers ...string) {
	for _, n := range numbers {
		v, _ := New(n, nil)
		_ = r.Create(context.Background(), v)
	}
}
