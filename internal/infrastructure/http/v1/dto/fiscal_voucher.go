package dto

// FiscalVoucherRequest registers a voucher number.
type FiscalVoucherRequest struct {
	VoucherNumber string  `json:"voucherNumber" validate:"max=30"`
	VoucherType   *string `json:"voucherType" validate:"omitempty,max=10"`
}
