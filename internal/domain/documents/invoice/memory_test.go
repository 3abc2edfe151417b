package invoice

import (
	"context"
	"sort"
	"sync"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/tx"
	"airsolutions/internal/domain"
)

// memoryRepo stores invoices in process and can snapshot its state so the
// test transaction manager can roll back.
type memoryRepo struct {
	mu       sync.Mutex
	invoices map[id.ID]Invoice
	payments map[id.ID][]Payment
	order    []id.ID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{invoices: map[id.ID]Invoice{}, payments: map[id.ID][]Payment{}}
}

type memorySnapshot struct {
	invoices map[id.ID]Invoice
	payments map[id.ID][]Payment
	order    []id.ID
}

func (r *memoryRepo) snapshot() memorySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := memorySnapshot{invoices: map[id.ID]Invoice{}, payments: map[id.ID][]Payment{}, order: append([]id.ID(nil), r.order...)}
	for k, v := range r.invoices {
		s.invoices[k] = v
	}
	for k, v := range r.payments {
		s.payments[k] = append([]Payment(nil), v...)
	}
	return s
}

func (r *memoryRepo) restore(s memorySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices, r.payments, r.order = s.invoices, s.payments, s.order
}

// txManager rolls the repository back when fn fails.
func (r *memoryRepo) txManager() tx.Manager {
	return tx.Func(func(ctx context.Context, fn func(ctx context.Context) error) error {
		snap := r.snapshot()
		if err := fn(ctx); err != nil {
			r.restore(snap)
			return err
		}
		return nil
	})
}

func (r *memoryRepo) Create(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	cp.Lines = append([]Line(nil), inv.Lines...)
	cp.Payments = nil
	r.invoices[inv.ID] = cp
	r.order = append(r.order, inv.ID)
	return nil
}

func (r *memoryRepo) Update(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return apperror.NewNotFound("invoice", inv.ID.String())
	}
	cp := *inv
	cp.Lines = stored.Lines
	cp.Payments = nil
	r.invoices[inv.ID] = cp
	return nil
}

func (r *memoryRepo) ReplaceLines(_ context.Context, invoiceID id.ID, lines []Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.invoices[invoiceID]
	stored.Lines = append([]Line(nil), lines...)
	r.invoices[invoiceID] = stored
	return nil
}

func (r *memoryRepo) get(invoiceID id.ID) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID.String())
	}
	cp := stored
	cp.Lines = append([]Line(nil), stored.Lines...)
	cp.Payments = append([]Payment(nil), r.payments[invoiceID]...)
	sort.Slice(cp.Payments, func(i, j int) bool { return cp.Payments[i].PaymentDate.After(cp.Payments[j].PaymentDate) })
	return &cp, nil
}

func (r *memoryRepo) GetByID(_ context.Context, invoiceID id.ID) (*Invoice, error) {
	return r.get(invoiceID)
}

func (r *memoryRepo) GetForUpdate(_ context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := r.get(invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Payments = nil
	return inv, nil
}

func (r *memoryRepo) GetDetails(_ context.Context, invoiceID id.ID) (*Details, error) {
	inv, err := r.get(invoiceID)
	if err != nil {
		return nil, err
	}
	return &Details{Invoice: *inv}, nil
}

func (r *memoryRepo) List(_ context.Context, f ListFilter) (domain.ListResult[*ListItem], error) {
	r.mu.Lock()
	ids := append([]id.ID(nil), r.order...)
	r.mu.Unlock()

	res := domain.ListResult[*ListItem]{Items: []*ListItem{}}
	for i := len(ids) - 1; i >= 0; i-- {
		inv, err := r.get(ids[i])
		if err != nil {
			continue
		}
		if f.ClientID != nil && inv.ClientID != *f.ClientID {
			continue
		}
		if f.Status != nil && inv.Status != *f.Status {
			continue
		}
		res.Items = append(res.Items, &ListItem{Invoice: *inv})
	}
	res.TotalCount = int64(len(res.Items))
	return res, nil
}

func (r *memoryRepo) AddPayment(_ context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.InvoiceID] = append(r.payments[p.InvoiceID], *p)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, invoiceID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[invoiceID]; !ok {
		return apperror.NewNotFound("invoice", invoiceID.String())
	}
	delete(r.invoices, invoiceID)
	delete(r.payments, invoiceID)
	for i, k := range r.order {
		if k == invoiceID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invoices)
}

// existsSet answers Exists for a fixed set of ids.
type existsSet map[id.ID]bool

func (s existsSet) Exists(_ context.Context, key id.ID) (bool, error) {
	return s[key], nil
}
