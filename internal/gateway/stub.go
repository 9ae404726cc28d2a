package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/repository"
	"github.com/google/uuid"
)

// StubGateway is an in-process stand-in for the payment processor. It keeps
// the processor-side intent table in memory and honors the processor's state
// rules: a fresh intent requires a payment method, a succeeded intent cannot
// be canceled, only a succeeded intent is refundable.
type StubGateway struct {
	mu       sync.Mutex
	intents  map[string]domain.PaymentStatus
	payments repository.PaymentRepository
	currency string
}

func NewStubGateway(payments repository.PaymentRepository, currency string) *StubGateway {
	return &StubGateway{
		intents:  make(map[string]domain.PaymentStatus),
		payments: payments,
		currency: currency,
	}
}

func (g *StubGateway) CreatePaymentIntent(ctx context.Context, booking *domain.Booking) (*domain.Payment, error) {
	intentID := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	secret := intentID + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	g.mu.Lock()
	g.intents[intentID] = domain.PaymentStatusRequiresPaymentMethod
	g.mu.Unlock()

	return &domain.Payment{
		BookingID:    booking.ID,
		IntentID:     intentID,
		ClientSecret: secret,
		AmountCents:  booking.TotalCents,
		Currency:     g.currency,
		Status:       domain.PaymentStatusRequiresPaymentMethod,
	}, nil
}

func (g *StubGateway) ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error) {
	status, err := g.intentStatus(intentID)
	if err != nil {
		return nil, err
	}
	return g.payments.UpdateStatus(ctx, intentID, status)
}

func (g *StubGateway) CancelPayment(ctx context.Context, intentID string) (*domain.Payment, error) {
	g.mu.Lock()
	status, ok := g.intents[intentID]
	if ok && status != domain.PaymentStatusSucceeded {
		g.intents[intentID] = domain.PaymentStatusCanceled
	}
	g.mu.Unlock()

	if !ok {
		return nil, unknownIntent(intentID)
	}
	if status == domain.PaymentStatusSucceeded {
		return nil, domain.ErrCannotCancelSucceeded
	}
	return g.payments.UpdateStatus(ctx, intentID, domain.PaymentStatusCanceled)
}

func (g *StubGateway) CreateRefund(ctx context.Context, intentID string) (*domain.Payment, error) {
	g.mu.Lock()
	status, ok := g.intents[intentID]
	if ok && status == domain.PaymentStatusSucceeded {
		g.intents[intentID] = domain.PaymentStatusRefunded
	}
	g.mu.Unlock()

	if !ok {
		return nil, unknownIntent(intentID)
	}
	if status != domain.PaymentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent %s is not refundable in status %s", domain.ErrGatewayFailure, intentID, status)
	}
	return g.payments.UpdateStatus(ctx, intentID, domain.PaymentStatusRefunded)
}

func (g *StubGateway) CanRefund(ctx context.Context, intentID string) (bool, error) {
	status, err := g.intentStatus(intentID)
	if err != nil {
		return false, err
	}
	return status == domain.PaymentStatusSucceeded, nil
}

// CompleteCheckout drives an intent to succeeded, playing the part of the
// user finishing payment on the processor's checkout page.
func (g *StubGateway) CompleteCheckout(intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.intents[intentID]; !ok {
		return unknownIntent(intentID)
	}
	g.intents[intentID] = domain.PaymentStatusSucceeded
	return nil
}

func (g *StubGateway) intentStatus(intentID string) (domain.PaymentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status, ok := g.intents[intentID]
	if !ok {
		return "", unknownIntent(intentID)
	}
	return status, nil
}

func unknownIntent(intentID string) error {
	return fmt.Errorf("%w: unknown payment intent %s", domain.ErrGatewayFailure, intentID)
}

var _ Gateway = (*StubGateway)(nil)
