package domain

import "github.com/shopspring/decimal"

const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// ValidStatus reports whether s is a known document status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatusFor maps an amount paid against a total to a payment
// status. paid <= 0 is unpaid, paid >= total is paid, anything between
// is partial.
func PaymentStatusFor(paid, total decimal.Decimal) string {
	if paid.LessThanOrEqual(decimal.Zero) {
		return PaymentUnpaid
	}
	if paid.GreaterThanOrEqual(total) {
		return PaymentPaid
	}
	return PaymentPartial
}
