// Package gateway is the boundary to the external payment processor. The
// core treats processor responses as untrusted: every status string is
// translated into domain.PaymentStatus here and re-validated by the caller.
package gateway

import (
	"context"

	"github.com/bsavchuk/aeroreserve/internal/domain"
)

type Gateway interface {
	// CreatePaymentIntent opens an authorization-to-charge for the
	// booking's total price. The returned payment carries the
	// processor-assigned intent id and client secret and is not yet
	// persisted; the caller stores it together with the booking.
	CreatePaymentIntent(ctx context.Context, booking *domain.Booking) (*domain.Payment, error)

	// ConfirmPayment re-fetches the processor status for the intent and
	// persists it onto the matching payment row.
	ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error)

	// CancelPayment voids an intent that has not succeeded.
	// domain.ErrCannotCancelSucceeded otherwise.
	CancelPayment(ctx context.Context, intentID string) (*domain.Payment, error)

	// CreateRefund refunds a succeeded intent and marks the payment row
	// refunded.
	CreateRefund(ctx context.Context, intentID string) (*domain.Payment, error)

	// CanRefund reports whether the processor considers the intent
	// refundable.
	CanRefund(ctx context.Context, intentID string) (bool, error)
}
