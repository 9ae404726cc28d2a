package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPendingPayment.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusRefunded.IsTerminal())
}

func TestBookingIsPaid(t *testing.T) {
	b := &Booking{Status: BookingStatusPendingPayment}
	assert.False(t, b.IsPaid())

	b.Payment = &Payment{Status: PaymentStatusRequiresPaymentMethod}
	assert.False(t, b.IsPaid())

	b.Payment.Status = PaymentStatusSucceeded
	assert.True(t, b.IsPaid())
}

func TestParsePaymentStatus(t *testing.T) {
	testCases := []struct {
		raw      string
		expected PaymentStatus
	}{
		{"requires_payment_method", PaymentStatusRequiresPaymentMethod},
		{"processing", PaymentStatusProcessing},
		{"succeeded", PaymentStatusSucceeded},
		{"canceled", PaymentStatusCanceled},
		{"refunded", PaymentStatusRefunded},
		{"", PaymentStatusUnknown},
		{"requires_capture", PaymentStatusUnknown},
		{"SUCCEEDED", PaymentStatusUnknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParsePaymentStatus(tc.raw), "raw=%q", tc.raw)
	}
}
