package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain"
	"airsolutions/internal/domain/audit"
	"airsolutions/internal/domain/documents/invoice"
	"airsolutions/internal/infrastructure/http/v1/dto"
)

// InvoiceService is the invoice use-case surface used by InvoiceHandler.
type InvoiceService interface {
	Create(ctx context.Context, req invoice.CreateRequest) (*invoice.Invoice, error)
	Update(ctx context.Context, invoiceID id.ID, req invoice.UpdateRequest) (*invoice.Invoice, error)
	Get(ctx context.Context, invoiceID id.ID) (*invoice.Details, error)
	List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.ListItem], error)
	AddPayment(ctx context.Context, invoiceID id.ID, req invoice.PaymentRequest) (*invoice.PaymentResult, error)
	Cancel(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error)
	Delete(ctx context.Context, invoiceID id.ID) error
	History(ctx context.Context, invoiceID id.ID) ([]audit.Entry, error)
}

// InvoiceHandler handles /invoices and its payments, cancel and history.
type InvoiceHandler struct {
	*BaseHandler
	service InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service}
}

// List handles GET /invoices?search=&clientId=&status=.
func (h *InvoiceHandler) List(c *gin.Context) {
	base, ok := h.ListFilter(c)
	if !ok {
		return
	}
	clientID, ok := h.ParseOptionalIDQuery(c, "clientId")
	if !ok {
		return
	}

	f := invoice.ListFilter{ListFilter: base, ClientID: clientID}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoice.Status(raw)
		if !status.IsValid() {
			h.Error(c, apperror.NewValidation("invalid status: "+raw))
			return
		}
		f.Status = &status
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result.Items)
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	inv, err := h.service.Get(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.service.Create(c.Request.Context(), req.ToCreate())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

// Update handles PUT /invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.service.Update(c.Request.Context(), invoiceID, req.ToUpdate())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Delete handles DELETE /invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), invoiceID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// AddPayment handles POST /invoices/:id/payments.
func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.AddPayment(c.Request.Context(), invoiceID, req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Cancel handles POST /invoices/:id/cancel.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	inv, err := h.service.Cancel(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// History handles GET /invoices/:id/history.
func (h *InvoiceHandler) History(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	entries, err := h.service.History(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	h.OK(c, entries)
}
