package tickets

import (
	"context"
	"errors"
	"log"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/repository"
	"github.com/google/uuid"
)

type TicketUseCase interface {
	CreateTicket(ctx context.Context, booking *domain.Booking) (*domain.Ticket, error)
	CancelTicket(ctx context.Context, bookingID int64) (*domain.Ticket, error)
	GetTicketByBooking(ctx context.Context, bookingID int64) (*domain.Ticket, error)
	GetTicketByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
}

type TicketService struct {
	tickets repository.TicketRepository
	flights repository.FlightRepository
}

func NewTicketService(tickets repository.TicketRepository, flights repository.FlightRepository) *TicketService {
	return &TicketService{tickets: tickets, flights: flights}
}

// CreateTicket issues a travel document for a paid booking. Idempotent by
// booking: a second call returns the existing ticket instead of duplicating.
func (s *TicketService) CreateTicket(ctx context.Context, booking *domain.Booking) (*domain.Ticket, error) {
	if !booking.IsPaid() {
		return nil, domain.ErrPaymentNotCompleted
	}

	existing, err := s.tickets.GetByBooking(ctx, booking.ID)
	if err == nil {
		log.Printf("ticket %s already exists for booking %s, returning existing", existing.TicketNumber, booking.BookingNumber)
		return existing, nil
	}
	if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		BookingID:    booking.ID,
		TicketNumber: "TK-" + uuid.NewString(),
		Status:       domain.TicketStatusIssued,
		BoardingTime: flight.DepartureTime.Add(-domain.BoardingLead),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	log.Printf("issued ticket %s for booking %s", ticket.TicketNumber, booking.BookingNumber)
	return ticket, nil
}

// CancelTicket marks the booking's ticket cancelled. Callers are expected
// to check existence first; a missing ticket is ErrTicketNotFound.
func (s *TicketService) CancelTicket(ctx context.Context, bookingID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.UpdateStatus(ctx, bookingID, domain.TicketStatusCancelled)
	if err != nil {
		return nil, err
	}
	log.Printf("cancelled ticket %s for booking %d", ticket.TicketNumber, bookingID)
	return ticket, nil
}

func (s *TicketService) GetTicketByBooking(ctx context.Context, bookingID int64) (*domain.Ticket, error) {
	return s.tickets.GetByBooking(ctx, bookingID)
}

func (s *TicketService) GetTicketByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	return s.tickets.GetByNumber(ctx, ticketNumber)
}

var _ TicketUseCase = (*TicketService)(nil)
