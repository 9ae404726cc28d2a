// Package notify is the best-effort side channel for booking messages.
// Delivery failures must never reach the caller or revert a booking
// transition; the lifecycle manager logs and continues.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/kafka"
)

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.Booking, ticket *domain.Ticket) error
	SendCancellationNotification(ctx context.Context, booking *domain.Booking) error
	SendRefundNotification(ctx context.Context, booking *domain.Booking) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// KafkaNotifier publishes notification events after the booking transaction
// has committed; the worker consumes the topic and delivers the messages.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

func NewKafkaNotifier(producer Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) SendBookingConfirmation(ctx context.Context, booking *domain.Booking, ticket *domain.Ticket) error {
	event := eventFor(kafka.EventBookingConfirmed, booking)
	if ticket != nil {
		event.TicketNumber = ticket.TicketNumber
		event.BoardingTime = ticket.BoardingTime.Format(time.RFC3339)
	}
	return n.publish(ctx, booking, event)
}

func (n *KafkaNotifier) SendCancellationNotification(ctx context.Context, booking *domain.Booking) error {
	return n.publish(ctx, booking, eventFor(kafka.EventBookingCancelled, booking))
}

func (n *KafkaNotifier) SendRefundNotification(ctx context.Context, booking *domain.Booking) error {
	return n.publish(ctx, booking, eventFor(kafka.EventBookingRefunded, booking))
}

func (n *KafkaNotifier) publish(ctx context.Context, booking *domain.Booking, event kafka.NotificationEvent) error {
	if n.producer == nil || n.topic == "" {
		return nil
	}
	if err := n.producer.Publish(ctx, n.topic, booking.BookingNumber, event); err != nil {
		return fmt.Errorf("publish %s for booking %s: %w", event.Type, booking.BookingNumber, err)
	}
	return nil
}

func eventFor(eventType string, booking *domain.Booking) kafka.NotificationEvent {
	return kafka.NotificationEvent{
		Type:          eventType,
		BookingNumber: booking.BookingNumber,
		FlightID:      booking.FlightID,
		SeatID:        booking.SeatID,
		PassengerName: booking.PassengerName,
		TotalCents:    booking.TotalCents,
		Status:        string(booking.Status),
	}
}

var _ Notifier = (*KafkaNotifier)(nil)
