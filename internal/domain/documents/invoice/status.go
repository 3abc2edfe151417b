package invoice

import "airsolutions/internal/core/types"

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft         Status = "Draft"
	StatusSent          Status = "Sent"
	StatusPartiallyPaid Status = "PartiallyPaid"
	StatusPaid          Status = "Paid"
	StatusCancelled     Status = "Cancelled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPartiallyPaid, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// NextStatus derives the status from the payment balance. Cancelled is
// absorbing.
func NextStatus(current Status, paid, balance types.Money) Status {
	switch {
	case current == StatusCancelled:
		return StatusCancelled
	case !paid.IsPositive():
		return StatusSent
	case !balance.IsPositive():
		return StatusPaid
	default:
		return StatusPartiallyPaid
	}
}
