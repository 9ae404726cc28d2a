package domain

import "time"

// PaymentStatus is the closed set of payment states the core reasons about.
// Gateway responses carry free-text statuses; they are translated at the
// adapter boundary via ParsePaymentStatus and never compared as raw strings
// past that point.
type PaymentStatus string

const (
	PaymentStatusRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentStatusProcessing            PaymentStatus = "processing"
	PaymentStatusSucceeded             PaymentStatus = "succeeded"
	PaymentStatusCanceled              PaymentStatus = "canceled"
	PaymentStatusRefunded              PaymentStatus = "refunded"
	PaymentStatusUnknown               PaymentStatus = "unknown"
)

// ParsePaymentStatus maps a gateway status string onto the closed enum.
// Unrecognized values collapse to PaymentStatusUnknown rather than leaking
// untrusted strings into the state machine.
func ParsePaymentStatus(s string) PaymentStatus {
	switch PaymentStatus(s) {
	case PaymentStatusRequiresPaymentMethod,
		PaymentStatusProcessing,
		PaymentStatusSucceeded,
		PaymentStatusCanceled,
		PaymentStatusRefunded:
		return PaymentStatus(s)
	default:
		return PaymentStatusUnknown
	}
}

type Payment struct {
	ID           int64
	BookingID    int64
	IntentID     string
	ClientSecret string
	AmountCents  int64
	Currency     string
	Status       PaymentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
