// Package invoice provides the Invoice document: priced lines, payments,
// a balance-driven status and an optional fiscal voucher.
package invoice

import (
	"strings"
	"time"

	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/domain/pricing"
)

// CodePrefix is the numerator prefix of invoice codes (FACTURA-00001).
const CodePrefix = "FACTURA"

// Invoice is the document header. Lines and Payments are loaded separately.
type Invoice struct {
	entity.BaseDocument

	QuoteID  *id.ID `db:"quote_id" json:"quoteId,omitempty"`
	ClientID id.ID  `db:"client_id" json:"clientId"`

	InvoiceCode string     `db:"invoice_code" json:"invoiceCode"`
	Description *string    `db:"description" json:"description,omitempty"`
	IssueDate   time.Time  `db:"issue_date" json:"issueDate"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	Status      Status     `db:"status" json:"status"`

	RequiresFiscalVoucher bool   `db:"requires_fiscal_voucher" json:"requiresFiscalVoucher"`
	FiscalVoucherID       *id.ID `db:"fiscal_voucher_id" json:"fiscalVoucherId,omitempty"`

	pricing.Totals
	PaidTotal  types.Money `db:"paid_total" json:"paidTotal"`
	BalanceDue types.Money `db:"balance_due" json:"balanceDue"`

	Lines    []Line    `db:"-" json:"lines,omitempty"`
	Payments []Payment `db:"-" json:"payments,omitempty"`
}

// Line is a priced invoice row.
type Line = pricing.Line

// Payment is money received against an invoice.
type Payment struct {
	ID          id.ID       `db:"id" json:"id"`
	InvoiceID   id.ID       `db:"invoice_id" json:"invoiceId"`
	PaymentDate time.Time   `db:"payment_date" json:"paymentDate"`
	Amount      types.Money `db:"amount" json:"amount"`
	Method      string      `db:"method" json:"method"`
	Reference   *string     `db:"reference" json:"reference,omitempty"`
	Notes       *string     `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Recalculate refreshes header totals from the lines and the balance from
// PaidTotal, then derives the status.
func (inv *Invoice) Recalculate() {
	inv.Totals = pricing.Summarize(inv.Lines)
	inv.BalanceDue = types.Round2(inv.GrandTotal.Sub(inv.PaidTotal))
	inv.Status = NextStatus(inv.Status, inv.PaidTotal, inv.BalanceDue)
}

// ApplyPayment adds p to PaidTotal and refreshes balance and status.
func (inv *Invoice) ApplyPayment(p Payment) {
	inv.Payments = append(inv.Payments, p)
	inv.PaidTotal = types.Round2(inv.PaidTotal.Add(p.Amount))
	inv.BalanceDue = types.Round2(inv.GrandTotal.Sub(inv.PaidTotal))
	inv.Status = NextStatus(inv.Status, inv.PaidTotal, inv.BalanceDue)
}

// Cancel moves the invoice to Cancelled and permanently drops its voucher
// requirement. It returns the voucher that was held, if any. Cancelling twice
// is a no-op.
func (inv *Invoice) Cancel() (released *id.ID, changed bool) {
	if inv.Status == StatusCancelled {
		return nil, false
	}
	inv.Status = StatusCancelled
	released = inv.FiscalVoucherID
	inv.FiscalVoucherID = nil
	inv.RequiresFiscalVoucher = false
	return released, true
}

// LineRequest is the caller-supplied part of a line.
type LineRequest = pricing.Input

// CreateRequest carries the fields accepted on creation.
type CreateRequest struct {
	QuoteID               *id.ID
	ClientID              *id.ID
	Description           *string
	IssueDate             *time.Time
	DueDate               *time.Time
	RequiresFiscalVoucher bool
	Lines                 []LineRequest
}

// UpdateRequest carries the fields accepted on update. Voucher requirements
// are not part of it: vouchers are only allocated on creation.
type UpdateRequest struct {
	QuoteID     *id.ID
	ClientID    *id.ID
	Description *string
	IssueDate   *time.Time
	DueDate     *time.Time
	Lines       []LineRequest
}

// PaymentRequest carries a new payment.
type PaymentRequest struct {
	Amount      types.Money
	Method      string
	PaymentDate *time.Time
	Reference   *string
	Notes       *string
}

// PaymentResult is returned after a payment is recorded.
type PaymentResult struct {
	PaymentID  id.ID       `json:"paymentId"`
	InvoiceID  id.ID       `json:"invoiceId"`
	PaidTotal  types.Money `json:"paidTotal"`
	BalanceDue types.Money `json:"balanceDue"`
	Status     Status      `json:"status"`
}

// ListItem is an invoice header with its client and voucher summaries.
type ListItem struct {
	Invoice
	Client        *client.Summary        `db:"-" json:"client,omitempty"`
	FiscalVoucher *fiscalvoucher.Summary `db:"-" json:"fiscalVoucher,omitempty"`
}

// Details is a full invoice: header, lines, payments and summaries.
type Details = ListItem

func normalizePayment(req PaymentRequest) PaymentRequest {
	req.Method = strings.TrimSpace(req.Method)
	req.Reference = types.TrimToNil(req.Reference)
	req.Notes = types.TrimToNil(req.Notes)
	req.Amount = types.Round2(req.Amount)
	return req
}
