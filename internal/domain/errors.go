// Sentinel errors shared across the repositories, services and handlers.
// Higher layers match them with errors.Is and translate them into HTTP
// status codes; wrapping with fmt.Errorf("...: %w", err) preserves the kind.
package domain

import "errors"

// Not-found family. Surfaced to the caller as 404, never retried.
var (
	ErrFlightNotFound  = errors.New("flight not found")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrTicketNotFound  = errors.New("ticket not found")
)

// ErrSeatConflict is returned when a seat is already claimed by another
// active booking. The loser of a concurrent claim race always observes
// this error and never creates a booking or a payment.
var ErrSeatConflict = errors.New("seat is already booked")

// ErrInvalidStateTransition is returned when an operation is attempted
// from a booking status that forbids it, e.g. cancelling a refunded
// booking.
var ErrInvalidStateTransition = errors.New("invalid booking state transition")

// ErrPaymentNotCompleted is returned when a confirmation is attempted
// before the gateway reports success. Callers may poll and retry.
var ErrPaymentNotCompleted = errors.New("booking is not paid")

// Refund preconditions.
var (
	ErrNotPaid        = errors.New("cannot refund unpaid booking")
	ErrPaymentMissing = errors.New("no payment found for booking")
)

// ErrCannotCancelSucceeded is returned by the gateway adapter when a
// cancel is attempted on a payment that already succeeded.
var ErrCannotCancelSucceeded = errors.New("cannot cancel succeeded payment")

// ErrGatewayFailure marks downstream payment processor errors. On the
// create-intent path it aborts the booking; on cancel/refund paths it is
// logged and the local transition proceeds.
var ErrGatewayFailure = errors.New("payment gateway failure")
