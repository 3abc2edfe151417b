package invoice

import (
	"context"
	"fmt"
	"time"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/numerator"
	"airsolutions/internal/core/tx"
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/audit"
	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/domain/pricing"
	"airsolutions/pkg/logger"
)

// EntityType names invoices in the audit trail.
const EntityType = "invoice"

const historyLimit = 100

// Service implements invoice use cases. Every operation touching more than
// one row runs in a single transaction.
type Service struct {
	repo      Repository
	clients   ClientChecker
	quotes    QuoteChecker
	vouchers  VoucherAllocator
	numerator numerator.Generator
	txManager tx.Manager
	audit     audit.Recorder
	now       func() time.Time
}

// Deps groups the collaborators of Service.
type Deps struct {
	Repo      Repository
	Clients   ClientChecker
	Quotes    QuoteChecker
	Vouchers  VoucherAllocator
	Numerator numerator.Generator
	TxManager tx.Manager
	Audit     audit.Recorder
}

// NewService creates a new invoice service.
func NewService(d Deps) *Service {
	rec := d.Audit
	if rec == nil {
		rec = audit.Nop
	}
	return &Service{
		repo:      d.Repo,
		clients:   d.Clients,
		quotes:    d.Quotes,
		vouchers:  d.Vouchers,
		numerator: d.Numerator,
		txManager: d.TxManager,
		audit:     rec,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) checkReferences(ctx context.Context, clientID, quoteID *id.ID, v *apperror.Collector) error {
	if clientID == nil || id.IsNil(*clientID) {
		v.Add("a client must be selected")
	} else {
		ok, err := s.clients.Exists(ctx, *clientID)
		if err != nil {
			return fmt.Errorf("check client: %w", err)
		}
		if !ok {
			v.Add("the selected client does not exist")
		}
	}

	if quoteID != nil {
		ok, err := s.quotes.Exists(ctx, *quoteID)
		if err != nil {
			return fmt.Errorf("check quote: %w", err)
		}
		if !ok {
			v.Add("the base quote does not exist")
		}
	}
	return nil
}

func dateOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil {
		return fallback
	}
	return entity.DateOnly(*t)
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := entity.DateOnly(*t)
	return &d
}

// Create validates the request, numbers the invoice and, when required,
// allocates a fiscal voucher in the same transaction. Either everything is
// stored or nothing is.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Invoice, error) {
	var v apperror.Collector
	if err := s.checkReferences(ctx, req.ClientID, req.QuoteID, &v); err != nil {
		return nil, err
	}
	lines := pricing.Build(req.Lines, "the invoice must have at least one line", &v)
	if req.RequiresFiscalVoucher {
		ok, err := s.vouchers.HasAvailable(ctx)
		if err != nil {
			return nil, fmt.Errorf("check vouchers: %w", err)
		}
		if !ok {
			_ = v.Merge(fiscalvoucher.ErrNoneAvailable())
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		BaseDocument:          entity.NewBaseDocument(),
		QuoteID:               req.QuoteID,
		ClientID:              *req.ClientID,
		Description:           types.TrimToNil(req.Description),
		IssueDate:             dateOr(req.IssueDate, entity.DateOnly(s.now())),
		DueDate:               datePtr(req.DueDate),
		Status:                StatusDraft,
		RequiresFiscalVoucher: req.RequiresFiscalVoucher,
		Lines:                 lines,
	}
	_ = audit.StampCreated(ctx, inv)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		code, err := s.numerator.GetNextNumber(ctx, numerator.ContinuousConfig(CodePrefix), s.now())
		if err != nil {
			return fmt.Errorf("generate invoice code: %w", err)
		}
		inv.InvoiceCode = code
		inv.Recalculate()

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		if inv.RequiresFiscalVoucher {
			voucher, err := s.vouchers.Allocate(ctx, inv.ID)
			if err != nil {
				return err
			}
			inv.FiscalVoucherID = &voucher.ID
			if err := s.repo.Update(ctx, inv); err != nil {
				return fmt.Errorf("link fiscal voucher: %w", err)
			}
		}

		return s.audit.Record(ctx, EntityType, inv.ID, audit.ActionCreate, inv)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice created", "invoice_id", inv.ID, "invoice_code", inv.InvoiceCode)
	return inv, nil
}

// Update replaces header fields and lines and recomputes totals and status.
// It never allocates or releases a fiscal voucher.
func (s *Service) Update(ctx context.Context, invoiceID id.ID, req UpdateRequest) (*Invoice, error) {
	if _, err := s.repo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	var v apperror.Collector
	if err := s.checkReferences(ctx, req.ClientID, req.QuoteID, &v); err != nil {
		return nil, err
	}
	lines := pricing.Build(req.Lines, "the invoice must have at least one line", &v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		inv.QuoteID = req.QuoteID
		inv.ClientID = *req.ClientID
		inv.Description = types.TrimToNil(req.Description)
		inv.IssueDate = dateOr(req.IssueDate, inv.IssueDate)
		inv.DueDate = datePtr(req.DueDate)
		inv.Lines = lines
		inv.Recalculate()
		inv.Touch()
		_ = audit.StampUpdated(ctx, inv)

		if err := s.repo.ReplaceLines(ctx, inv.ID, lines); err != nil {
			return fmt.Errorf("replace invoice lines: %w", err)
		}
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		return s.audit.Record(ctx, EntityType, inv.ID, audit.ActionUpdate, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Get returns the invoice with lines, payments and summaries.
func (s *Service) Get(ctx context.Context, invoiceID id.ID) (*Details, error) {
	return s.repo.GetDetails(ctx, invoiceID)
}

// List returns invoices matching filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ListItem], error) {
	return s.repo.List(ctx, filter)
}

// AddPayment records a payment and refreshes paid total, balance and status.
func (s *Service) AddPayment(ctx context.Context, invoiceID id.ID, req PaymentRequest) (*PaymentResult, error) {
	req = normalizePayment(req)

	var result *PaymentResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		var v apperror.Collector
		if !req.Amount.IsPositive() {
			v.Add("payment amount must be greater than 0")
		}
		if req.Method == "" {
			v.Add("payment method is required")
		}
		if inv.Status == StatusCancelled {
			v.Add("payments cannot be recorded on a cancelled invoice")
		}
		if err := v.Err(); err != nil {
			return err
		}

		p := Payment{
			ID:          id.New(),
			InvoiceID:   inv.ID,
			PaymentDate: dateOr(req.PaymentDate, entity.DateOnly(s.now())),
			Amount:      req.Amount,
			Method:      req.Method,
			Reference:   req.Reference,
			Notes:       req.Notes,
			CreatedAt:   s.now(),
		}
		if err := s.repo.AddPayment(ctx, &p); err != nil {
			return fmt.Errorf("add payment: %w", err)
		}

		inv.ApplyPayment(p)
		inv.Touch()
		_ = audit.StampUpdated(ctx, inv)
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		result = &PaymentResult{
			PaymentID:  p.ID,
			InvoiceID:  inv.ID,
			PaidTotal:  inv.PaidTotal,
			BalanceDue: inv.BalanceDue,
			Status:     inv.Status,
		}
		return s.audit.Record(ctx, EntityType, inv.ID, audit.ActionPayment, p)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel moves the invoice to Cancelled and releases its voucher.
// Cancelling an already cancelled invoice succeeds without changes.
func (s *Service) Cancel(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}

		held, changed := inv.Cancel()
		if !changed {
			return nil
		}
		if err := s.vouchers.Release(ctx, held, inv.ID); err != nil {
			return err
		}

		inv.Touch()
		_ = audit.StampUpdated(ctx, inv)
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("cancel invoice: %w", err)
		}
		return s.audit.Record(ctx, EntityType, inv.ID, audit.ActionCancel, map[string]any{"status": inv.Status})
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes the invoice with its payments and lines and releases its voucher.
func (s *Service) Delete(ctx context.Context, invoiceID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := s.vouchers.Release(ctx, inv.FiscalVoucherID, inv.ID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return s.audit.Record(ctx, EntityType, inv.ID, audit.ActionDelete, map[string]any{"invoiceCode": inv.InvoiceCode})
	})
}

// History returns the recorded changes of an invoice, newest first.
func (s *Service) History(ctx context.Context, invoiceID id.ID) ([]audit.Entry, error) {
	if _, err := s.repo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.audit.History(ctx, EntityType, invoiceID, historyLimit)
}
