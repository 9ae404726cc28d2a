package repository

import (
	"context"
	"errors"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByBooking(ctx context.Context, bookingID int64) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, bookingID int64, status domain.TicketStatus) (*domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.QueryRow(ctx, `INSERT INTO tickets (booking_id, ticket_number, status, boarding_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		ticket.BookingID, ticket.TicketNumber, ticket.Status, ticket.BoardingTime).
		Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *PGTicketRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, ticket_number, status, boarding_time, created_at FROM tickets WHERE booking_id=$1`, bookingID)
	return scanTicket(row)
}

func (r *PGTicketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, ticket_number, status, boarding_time, created_at FROM tickets WHERE ticket_number=$1`, ticketNumber)
	return scanTicket(row)
}

func (r *PGTicketRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, `UPDATE tickets SET status=$1 WHERE booking_id=$2 RETURNING id, booking_id, ticket_number, status, boarding_time, created_at`, status, bookingID)
	return scanTicket(row)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.BookingID, &t.TicketNumber, &t.Status, &t.BoardingTime, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
