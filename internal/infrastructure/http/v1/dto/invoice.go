package dto

import (
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain/documents/invoice"
)

// InvoiceRequest is the body of invoice create and update.
// RequiresFiscalVoucher is only honored on create.
type InvoiceRequest struct {
	QuoteID               *id.ID        `json:"quoteId"`
	ClientID              *id.ID        `json:"clientId"`
	Description           *string       `json:"description" validate:"omitempty,max=2000"`
	IssueDate             *Date         `json:"issueDate"`
	DueDate               *Date         `json:"dueDate"`
	RequiresFiscalVoucher bool          `json:"requiresFiscalVoucher"`
	Lines                 []LineRequest `json:"lines"`
}

// ToCreate converts the request for invoice creation.
func (r *InvoiceRequest) ToCreate() invoice.CreateRequest {
	return invoice.CreateRequest{
		QuoteID:               r.QuoteID,
		ClientID:              r.ClientID,
		Description:           r.Description,
		IssueDate:             r.IssueDate.Ptr(),
		DueDate:               r.DueDate.Ptr(),
		RequiresFiscalVoucher: r.RequiresFiscalVoucher,
		Lines:                 r.Lines,
	}
}

// ToUpdate converts the request for invoice update.
func (r *InvoiceRequest) ToUpdate() invoice.UpdateRequest {
	return invoice.UpdateRequest{
		QuoteID:     r.QuoteID,
		ClientID:    r.ClientID,
		Description: r.Description,
		IssueDate:   r.IssueDate.Ptr(),
		DueDate:     r.DueDate.Ptr(),
		Lines:       r.Lines,
	}
}

// PaymentRequest is the body of POST /invoices/:id/payments.
type PaymentRequest struct {
	Amount      types.Money `json:"amount"`
	Method      string      `json:"method" validate:"max=50"`
	PaymentDate *Date       `json:"paymentDate"`
	Reference   *string     `json:"reference" validate:"omitempty,max=200"`
	Notes       *string     `json:"notes" validate:"omitempty,max=1000"`
}

// ToDomain converts the request.
func (r *PaymentRequest) ToDomain() invoice.PaymentRequest {
	return invoice.PaymentRequest{
		Amount:      r.Amount,
		Method:      r.Method,
		PaymentDate: r.PaymentDate.Ptr(),
		Reference:   r.Reference,
		Notes:       r.Notes,
	}
}
