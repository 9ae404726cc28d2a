package email

import (
	"context"
	"fmt"

	"github.com/bsavchuk/aeroreserve/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	fmt.Printf("send %s email for booking %s (passenger %s, flight %d)\n",
		event.Type, event.BookingNumber, event.PassengerName, event.FlightID)
	return nil
}
