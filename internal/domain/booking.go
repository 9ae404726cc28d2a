package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
	BookingStatusRefunded       BookingStatus = "REFUNDED"
)

// IsTerminal reports whether no further transitions may leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusRefunded
}

type Booking struct {
	ID            int64
	BookingNumber string
	UserID        int64
	FlightID      int64
	SeatID        int64
	PassengerName string
	TotalCents    int64
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Payment is the zero-or-one linked payment, nil when none exists yet.
	Payment *Payment
}

// IsPaid reports whether the linked payment has succeeded at the gateway.
func (b *Booking) IsPaid() bool {
	return b.Payment != nil && b.Payment.Status == PaymentStatusSucceeded
}

// IsActive reports whether the booking still holds its seat.
func (b *Booking) IsActive() bool {
	return !b.Status.IsTerminal()
}
