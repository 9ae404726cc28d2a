package tickets

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Ticket, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	args := m.Called(ctx, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func paidBooking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		BookingNumber: "AR-test",
		FlightID:      4,
		SeatID:        12,
		Status:        domain.BookingStatusConfirmed,
		Payment:       &domain.Payment{ID: 3, BookingID: 7, IntentID: "pi_test", Status: domain.PaymentStatusSucceeded},
	}
}

func TestCreateTicket_Success(t *testing.T) {
	repo := &MockTicketRepository{}
	flights := &MockFlightRepository{}
	svc := NewTicketService(repo, flights)
	ctx := context.Background()

	departure := time.Date(2026, 10, 2, 14, 30, 0, 0, time.UTC)
	repo.On("GetByBooking", ctx, int64(7)).Return(nil, domain.ErrTicketNotFound).Once()
	flights.On("GetByID", ctx, int64(4)).Return(&domain.Flight{ID: 4, DepartureTime: departure}, nil).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).Return(nil).Once()

	ticket, err := svc.CreateTicket(ctx, paidBooking())

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusIssued, ticket.Status)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "TK-"))
	assert.Equal(t, departure.Add(-45*time.Minute), ticket.BoardingTime)
	repo.AssertExpectations(t)
	flights.AssertExpectations(t)
}

func TestCreateTicket_IdempotentForBooking(t *testing.T) {
	repo := &MockTicketRepository{}
	flights := &MockFlightRepository{}
	svc := NewTicketService(repo, flights)
	ctx := context.Background()

	existing := &domain.Ticket{ID: 1, BookingID: 7, TicketNumber: "TK-existing", Status: domain.TicketStatusIssued}
	repo.On("GetByBooking", ctx, int64(7)).Return(existing, nil).Once()

	ticket, err := svc.CreateTicket(ctx, paidBooking())

	assert.NoError(t, err)
	assert.Equal(t, existing, ticket)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	flights.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateTicket_UnpaidBooking(t *testing.T) {
	repo := &MockTicketRepository{}
	flights := &MockFlightRepository{}
	svc := NewTicketService(repo, flights)
	ctx := context.Background()

	booking := paidBooking()
	booking.Payment.Status = domain.PaymentStatusRequiresPaymentMethod

	ticket, err := svc.CreateTicket(ctx, booking)

	assert.ErrorIs(t, err, domain.ErrPaymentNotCompleted)
	assert.Nil(t, ticket)
	repo.AssertNotCalled(t, "GetByBooking", mock.Anything, mock.Anything)
}

func TestCreateTicket_NoPayment(t *testing.T) {
	repo := &MockTicketRepository{}
	flights := &MockFlightRepository{}
	svc := NewTicketService(repo, flights)
	ctx := context.Background()

	booking := paidBooking()
	booking.Payment = nil

	ticket, err := svc.CreateTicket(ctx, booking)

	assert.ErrorIs(t, err, domain.ErrPaymentNotCompleted)
	assert.Nil(t, ticket)
}

func TestCancelTicket(t *testing.T) {
	repo := &MockTicketRepository{}
	flights := &MockFlightRepository{}
	svc := NewTicketService(repo, flights)
	ctx := context.Background()

	cancelled := &domain.Ticket{ID: 1, BookingID: 7, TicketNumber: "TK-existing", Status: domain.TicketStatusCancelled}
	repo.On("UpdateStatus", ctx, int64(7), domain.TicketStatusCancelled).Return(cancelled, nil).Once()

	ticket, err := svc.CancelTicket(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCancelled, ticket.Status)
	repo.AssertExpectations(t)
}

func TestCancelTicket_NotFound(t *testing.T) {
	repo := &MockTicketRepository{}
	flights := &MockFlightRepository{}
	svc := NewTicketService(repo, flights)
	ctx := context.Background()

	repo.On("UpdateStatus", ctx, int64(99), domain.TicketStatusCancelled).Return(nil, domain.ErrTicketNotFound).Once()

	ticket, err := svc.CancelTicket(ctx, 99)

	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	assert.Nil(t, ticket)
}
