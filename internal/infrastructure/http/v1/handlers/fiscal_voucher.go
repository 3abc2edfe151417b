package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/domain/fiscalvoucher"
	"airsolutions/internal/infrastructure/http/v1/dto"
)

// FiscalVoucherService lists and registers vouchers.
type FiscalVoucherService interface {
	List(ctx context.Context, onlyAvailable bool) ([]*fiscalvoucher.FiscalVoucher, error)
	Create(ctx context.Context, number string, voucherType *string) (*fiscalvoucher.FiscalVoucher, error)
}

// FiscalVoucherHandler handles /fiscal-vouchers.
type FiscalVoucherHandler struct {
	*BaseHandler
	service FiscalVoucherService
}

// NewFiscalVoucherHandler creates a new voucher handler.
func NewFiscalVoucherHandler(base *BaseHandler, service FiscalVoucherService) *FiscalVoucherHandler {
	return &FiscalVoucherHandler{BaseHandler: base, service: service}
}

// List handles GET /fiscal-vouchers?onlyAvailable=true.
func (h *FiscalVoucherHandler) List(c *gin.Context) {
	onlyAvailable, ok := h.ParseBoolQuery(c, "onlyAvailable")
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), onlyAvailable != nil && *onlyAvailable)
	if err != nil {
		h.Error(c, err)
		return
	}
	if list == nil {
		list = []*fiscalvoucher.FiscalVoucher{}
	}
	h.OK(c, list)
}

// Create handles POST /fiscal-vouchers.
func (h *FiscalVoucherHandler) Create(c *gin.Context) {
	var req dto.FiscalVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}
	v, err := h.service.Create(c.Request.Context(), req.VoucherNumber, req.VoucherType)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, v)
}
