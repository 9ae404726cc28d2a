package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/gateway"
	"github.com/bsavchuk/aeroreserve/internal/ledger"
	"github.com/bsavchuk/aeroreserve/internal/notify"
	"github.com/bsavchuk/aeroreserve/internal/repository"
	"github.com/bsavchuk/aeroreserve/internal/service/tickets"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ConfirmBookingByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	RefundBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CanRefund(ctx context.Context, booking *domain.Booking) bool
	CancelPaymentAndBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)

	GetBookingByID(ctx context.Context, bookingID int64) (*domain.Booking, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error)
	GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetBookingsByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
}

// Cache is the optional per-seat lock fast path ahead of the ledger claim.
type Cache interface {
	AcquireSeatLock(ctx context.Context, seatID int64, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, seatID int64) error
}

type CreateBookingInput struct {
	UserID        int64  `json:"user_id"`
	FlightID      int64  `json:"flight_id"`
	SeatNumber    string `json:"seat_number"`
	PassengerName string `json:"passenger_name"`
}

type BookingService struct {
	bookings   repository.BookingRepository
	flights    repository.FlightRepository
	seats      repository.SeatRepository
	seatLedger ledger.SeatLedger
	gateway    gateway.Gateway
	tickets    tickets.TicketUseCase
	notifier   notify.Notifier
	cache      Cache
	holdTTL    time.Duration
}

type BookingServiceOption func(*BookingService)

// WithSeatLockCache enables the redis SetNX fast path for seat claims.
func WithSeatLockCache(cache Cache, holdTTL time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
		s.holdTTL = holdTTL
	}
}

func WithNotifier(notifier notify.Notifier) BookingServiceOption {
	return func(s *BookingService) {
		s.notifier = notifier
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	seats repository.SeatRepository,
	seatLedger ledger.SeatLedger,
	gw gateway.Gateway,
	ticketSvc tickets.TicketUseCase,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:   bookings,
		flights:    flights,
		seats:      seats,
		seatLedger: seatLedger,
		gateway:    gw,
		tickets:    ticketSvc,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking claims the seat, opens a payment intent and persists the
// booking with its payment in one transaction. If any step after the claim
// fails, the claim is rolled back before the error propagates: no orphaned
// holds, no booking row.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.SeatNumber == "" {
		return nil, errors.New("seat number is required")
	}
	if input.PassengerName == "" {
		return nil, errors.New("passenger name is required")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	seat, err := s.seats.GetByFlightAndNumber(ctx, flight.ID, input.SeatNumber)
	if err != nil {
		return nil, err
	}

	// Pre-checks. The availability flag and the booking records must agree;
	// checking both guards against a stale flag after a partial failure.
	if !seat.Available {
		return nil, domain.ErrSeatConflict
	}
	active, err := s.seatLedger.HasActiveBooking(ctx, seat.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.ErrSeatConflict
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSeatLock(ctx, seat.ID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrSeatConflict
		}
		locked = true
	}

	// The authoritative claim. Exactly one concurrent caller wins.
	if err := s.seatLedger.Claim(ctx, seat.ID); err != nil {
		s.releaseLock(ctx, seat.ID, locked)
		return nil, err
	}

	booking := &domain.Booking{
		BookingNumber: "AR-" + uuid.NewString(),
		UserID:        input.UserID,
		FlightID:      flight.ID,
		SeatID:        seat.ID,
		PassengerName: input.PassengerName,
		TotalCents:    flight.PriceCents,
		Status:        domain.BookingStatusPendingPayment,
	}

	payment, err := s.gateway.CreatePaymentIntent(ctx, booking)
	if err != nil {
		s.rollbackClaim(ctx, seat.ID, locked)
		return nil, err
	}

	if err := s.bookings.CreatePendingWithPayment(ctx, booking, payment); err != nil {
		if _, cancelErr := s.gateway.CancelPayment(ctx, payment.IntentID); cancelErr != nil {
			log.Printf("WARNING: failed to void payment intent %s after booking rollback: %v", payment.IntentID, cancelErr)
		}
		s.rollbackClaim(ctx, seat.ID, locked)
		return nil, err
	}

	return booking, nil
}

// ConfirmBooking moves a paid booking to CONFIRMED and issues its ticket.
// Safe to retry: confirming an already-confirmed booking returns it with
// the existing ticket.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsPaid() {
		return nil, domain.ErrPaymentNotCompleted
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusConfirmed,
		domain.BookingStatusPendingPayment, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.CreateTicket(ctx, updated)
	if err != nil {
		return nil, err
	}

	// The booking row now owns the seat; the hold lock is no longer needed.
	s.releaseLock(ctx, updated.SeatID, true)

	s.notifyBestEffort("confirmation", updated, func() error {
		return s.notifier.SendBookingConfirmation(ctx, updated, ticket)
	})
	return updated, nil
}

// ConfirmBookingByPaymentIntent is the webhook path: refresh the payment
// from the gateway, then confirm the booking it belongs to.
func (s *BookingService) ConfirmBookingByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error) {
	if _, err := s.gateway.ConfirmPayment(ctx, intentID); err != nil {
		log.Printf("WARNING: failed to refresh payment %s from gateway: %v", intentID, err)
	}

	booking, err := s.bookings.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	return s.ConfirmBooking(ctx, booking.ID)
}

// CancelBooking closes an active booking: best-effort gateway cancel of an
// unsucceeded payment, then status write + seat release + ticket
// cancellation in one transaction.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, domain.ErrInvalidStateTransition
	}

	if booking.Payment != nil && booking.Payment.Status != domain.PaymentStatusSucceeded {
		if _, err := s.gateway.CancelPayment(ctx, booking.Payment.IntentID); err != nil {
			log.Printf("WARNING: failed to cancel payment %s at gateway: %v", booking.Payment.IntentID, err)
		}
	}

	updated, err := s.bookings.FinishBooking(ctx, bookingID, domain.BookingStatusCancelled, "",
		domain.BookingStatusPendingPayment, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.releaseLock(ctx, updated.SeatID, true)

	s.notifyBestEffort("cancellation", updated, func() error {
		return s.notifier.SendCancellationNotification(ctx, updated)
	})
	return updated, nil
}

// RefundBooking refunds a paid booking. Gateway failure on the refund path
// is logged and does not block the local transition.
func (s *BookingService) RefundBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Payment == nil {
		return nil, domain.ErrPaymentMissing
	}
	if !booking.IsPaid() {
		return nil, domain.ErrNotPaid
	}
	if booking.Status == domain.BookingStatusRefunded {
		return nil, domain.ErrInvalidStateTransition
	}

	if _, err := s.gateway.CreateRefund(ctx, booking.Payment.IntentID); err != nil {
		log.Printf("WARNING: failed to refund payment %s at gateway: %v", booking.Payment.IntentID, err)
	}

	updated, err := s.bookings.FinishBooking(ctx, bookingID, domain.BookingStatusRefunded, domain.PaymentStatusRefunded,
		domain.BookingStatusPendingPayment, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.releaseLock(ctx, updated.SeatID, true)

	s.notifyBestEffort("refund", updated, func() error {
		return s.notifier.SendRefundNotification(ctx, updated)
	})
	return updated, nil
}

// CanRefund is a pure query: paid, payment present, gateway agrees the
// intent is refundable, not already refunded.
func (s *BookingService) CanRefund(ctx context.Context, booking *domain.Booking) bool {
	if booking == nil || booking.Payment == nil || !booking.IsPaid() {
		return false
	}
	if booking.Status == domain.BookingStatusRefunded {
		return false
	}
	ok, err := s.gateway.CanRefund(ctx, booking.Payment.IntentID)
	if err != nil {
		return false
	}
	return ok
}

// CancelPaymentAndBooking is the narrow cancel used when payment never
// completed; only valid from PENDING_PAYMENT.
func (s *BookingService) CancelPaymentAndBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPendingPayment {
		return nil, domain.ErrInvalidStateTransition
	}

	if booking.Payment != nil &&
		booking.Payment.Status != domain.PaymentStatusSucceeded &&
		booking.Payment.Status != domain.PaymentStatusCanceled {
		if _, err := s.gateway.CancelPayment(ctx, booking.Payment.IntentID); err != nil {
			log.Printf("WARNING: failed to cancel payment %s at gateway: %v", booking.Payment.IntentID, err)
		}
	}

	updated, err := s.bookings.FinishBooking(ctx, bookingID, domain.BookingStatusCancelled, "",
		domain.BookingStatusPendingPayment)
	if err != nil {
		return nil, err
	}
	s.releaseLock(ctx, updated.SeatID, true)

	s.notifyBestEffort("cancellation", updated, func() error {
		return s.notifier.SendCancellationNotification(ctx, updated)
	})
	return updated, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *BookingService) FindByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error) {
	return s.bookings.FindByPaymentIntentID(ctx, intentID)
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) GetBookingsByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	return s.bookings.ListByFlight(ctx, flightID)
}

// rollbackClaim undoes a seat claim after a later create step failed.
func (s *BookingService) rollbackClaim(ctx context.Context, seatID int64, locked bool) {
	if err := s.seatLedger.Release(ctx, seatID); err != nil {
		log.Printf("WARNING: failed to release seat %d after booking failure: %v", seatID, err)
	}
	s.releaseLock(ctx, seatID, locked)
}

func (s *BookingService) releaseLock(ctx context.Context, seatID int64, locked bool) {
	if s.cache == nil || !locked {
		return
	}
	if err := s.cache.ReleaseSeatLock(ctx, seatID); err != nil {
		log.Printf("WARNING: failed to release seat lock %d: %v", seatID, err)
	}
}

// notifyBestEffort dispatches a notification after the transactional work
// has committed. Failures are logged and never surfaced: a booking
// transition must not fail because an email could not be sent.
func (s *BookingService) notifyBestEffort(what string, booking *domain.Booking, send func() error) {
	if s.notifier == nil {
		return
	}
	if err := send(); err != nil {
		log.Printf("WARNING: failed to send %s notification for booking %s: %v", what, booking.BookingNumber, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
