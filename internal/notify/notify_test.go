package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		BookingNumber: "AR-test",
		FlightID:      4,
		SeatID:        12,
		PassengerName: "J. Doe",
		TotalCents:    19900,
		Status:        domain.BookingStatusConfirmed,
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	producer := &MockProducer{}
	n := NewKafkaNotifier(producer, "booking.notifications")
	ctx := context.Background()

	boarding := time.Date(2026, 10, 2, 13, 45, 0, 0, time.UTC)
	ticket := &domain.Ticket{TicketNumber: "TK-test", BoardingTime: boarding}

	producer.On("Publish", ctx, "booking.notifications", "AR-test", mock.MatchedBy(func(v interface{}) bool {
		event, ok := v.(kafka.NotificationEvent)
		return ok &&
			event.Type == kafka.EventBookingConfirmed &&
			event.BookingNumber == "AR-test" &&
			event.TicketNumber == "TK-test" &&
			event.BoardingTime == boarding.Format(time.RFC3339)
	})).Return(nil).Once()

	assert.NoError(t, n.SendBookingConfirmation(ctx, confirmedBooking(), ticket))
	producer.AssertExpectations(t)
}

func TestSendCancellationNotification(t *testing.T) {
	producer := &MockProducer{}
	n := NewKafkaNotifier(producer, "booking.notifications")
	ctx := context.Background()

	producer.On("Publish", ctx, "booking.notifications", "AR-test", mock.MatchedBy(func(v interface{}) bool {
		event, ok := v.(kafka.NotificationEvent)
		return ok && event.Type == kafka.EventBookingCancelled
	})).Return(nil).Once()

	assert.NoError(t, n.SendCancellationNotification(ctx, confirmedBooking()))
}

func TestPublishFailureIsWrapped(t *testing.T) {
	producer := &MockProducer{}
	n := NewKafkaNotifier(producer, "booking.notifications")
	ctx := context.Background()

	brokerErr := errors.New("broker unreachable")
	producer.On("Publish", ctx, "booking.notifications", "AR-test", mock.Anything).Return(brokerErr).Once()

	err := n.SendRefundNotification(ctx, confirmedBooking())

	assert.ErrorIs(t, err, brokerErr)
	assert.Contains(t, err.Error(), "AR-test")
}

func TestNilProducerIsNoOp(t *testing.T) {
	n := NewKafkaNotifier(nil, "")
	ctx := context.Background()

	assert.NoError(t, n.SendBookingConfirmation(ctx, confirmedBooking(), nil))
	assert.NoError(t, n.SendCancellationNotification(ctx, confirmedBooking()))
	assert.NoError(t, n.SendRefundNotification(ctx, confirmedBooking()))
}
